package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	maxChartDays   = 366
	errDaysInvalid = "invalid 'days'; use a whole number between 1 and 366"
	errNoUpload    = "missing multipart field 'file'"
)

// @Summary      Temperature chart from stored readings
// @Tags         charts
// @Produce      json
// @Param        days  query     int  false  "Window in days (default 7)"
// @Success      200   {object}  models.ChartSeries
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/charts/temperature [get]
// @Security     BearerAuth
func (h *Handler) storedChart(c *gin.Context) {
	window := h.chartWindow
	if qs := c.Query("days"); qs != "" {
		days, err := strconv.Atoi(qs)
		if err != nil || days < 1 || days > maxChartDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": errDaysInvalid})
			return
		}
		window = time.Duration(days) * 24 * time.Hour
	}

	series, err := h.services.Stored(c.Request.Context(), window)
	if err != nil {
		h.respondServiceError(c, "failed to build chart", "chart_stored_failed", err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// @Summary      Temperature chart from an external CSV
// @Description  Semicolon-delimited export with "Hora de conclusão" and "Temperatura da Câmara Fria:" columns.
// @Tags         charts
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV export"
// @Success      200   {object}  models.ChartSeries
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/charts/temperature/upload [post]
// @Security     BearerAuth
func (h *Handler) uploadChart(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNoUpload})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, errNoUpload, "chart_upload_open_failed", err)
		return
	}
	defer f.Close()

	series, err := h.services.External(f)
	if err != nil {
		h.respondServiceError(c, "failed to read upload", "chart_upload_failed", err, "file", fh.Filename)
		return
	}
	c.JSON(http.StatusOK, series)
}
