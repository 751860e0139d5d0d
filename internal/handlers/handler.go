package handlers

import (
	"time"

	"coldspec/internal/logger"
	"coldspec/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultChartWindow = 7 * 24 * time.Hour

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	chartWindow    time.Duration
	streamInterval time.Duration
}

// Option tunes a Handler.
type Option func(*Handler)

// WithChartWindow sets the default span of the stored-readings chart.
func WithChartWindow(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.chartWindow = d
		}
	}
}

// WithStreamInterval sets the /ws push interval used when the client asks for none.
func WithStreamInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 && d <= maxInterval {
			h.streamInterval = d
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services:       services,
		log:            log,
		chartWindow:    defaultChartWindow,
		streamInterval: defaultInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Live chart stream (HTTP upgrade) on the same port
	router.GET("/ws", h.sessionMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.login)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.sessionMiddleware)
	{
		api.POST("/auth/logout", h.logout)
		api.GET("/me", h.me)

		h.registerReadingRoutes(api)
		h.registerSkuRoutes(api)
		h.registerNCRoutes(api)
		h.registerChartRoutes(api)
		h.registerActivityRoutes(api)
	}
}

func (h *Handler) registerReadingRoutes(api *gin.RouterGroup) {
	readings := api.Group("/readings")
	{
		// Body example: {"value":4.5}
		readings.POST("", h.createReading)
		readings.GET("", h.listReadings)
		readings.GET("/export", h.exportReadings)
	}
}

func (h *Handler) registerSkuRoutes(api *gin.RouterGroup) {
	api.GET("/skus/:code", h.getSku)
}

func (h *Handler) registerNCRoutes(api *gin.RouterGroup) {
	nc := api.Group("/nc")
	{
		nc.POST("", h.createNC)
		nc.GET("", h.listNC)
	}
}

func (h *Handler) registerChartRoutes(api *gin.RouterGroup) {
	charts := api.Group("/charts")
	{
		charts.GET("/temperature", h.storedChart)
		charts.POST("/temperature/upload", h.uploadChart)
	}
}

func (h *Handler) registerActivityRoutes(api *gin.RouterGroup) {
	api.GET("/activity", h.getActivity)
}
