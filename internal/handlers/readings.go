package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coldspec/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	exportFileName = "relatorio_temperatura.csv"

	errRecordReading = "failed to record reading"
	errListReadings  = "failed to load readings"
	errExport        = "failed to export readings"
	errSinceInvalid  = "invalid 'since'; use a duration (e.g. 24h), RFC3339 or YYYY-MM-DD"
)

// ReadingRequest is the payload of a manual reading.
type ReadingRequest struct {
	// Temperature in °C
	Value *float64 `json:"value" binding:"required" example:"4.5"`
}

// ReadingResponse is a stored reading plus the acceptance band it was checked against.
type ReadingResponse struct {
	Reading models.TemperatureReading `json:"reading"`
	InRange bool                      `json:"in_range"`
	LIE     float64                   `json:"lie"`
	LSE     float64                   `json:"lse"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Record a temperature reading
// @Description  The status is computed server-side: OK inside [2.0, 7.0] °C, ERROR otherwise. Both are stored.
// @Tags         readings
// @Accept       json
// @Produce      json
// @Param        body  body      ReadingRequest  true  "Reading"
// @Success      201   {object}  ReadingResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      423   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/readings [post]
// @Security     BearerAuth
func (h *Handler) createReading(c *gin.Context) {
	var req ReadingRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	sess := currentSession(c)

	r, err := h.services.Record(c.Request.Context(), sess, *req.Value)
	if err != nil {
		h.respondServiceError(c, errRecordReading, "reading_append_failed", err, "badge_id", sess.BadgeID, "value", *req.Value)
		return
	}
	c.JSON(http.StatusCreated, ReadingResponse{
		Reading: r,
		InRange: r.Status == models.StatusOK,
		LIE:     models.LIE,
		LSE:     models.LSE,
	})
}

// @Summary      List temperature readings
// @Tags         readings
// @Produce      json
// @Param        since  query     string  false  "Duration back from now (24h) or a start time (RFC3339, 'YYYY-MM-DD HH:MM:SS', 'YYYY-MM-DD')"
// @Success      200    {object}  map[string]interface{}  "count, readings"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/readings [get]
// @Security     BearerAuth
func (h *Handler) listReadings(c *gin.Context) {
	var since time.Time
	if qs := c.Query("since"); qs != "" {
		var err error
		if since, err = parseSince(qs, time.Now()); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errSinceInvalid})
			return
		}
	}

	readings, err := h.services.Readings.List(c.Request.Context(), since)
	if err != nil {
		h.respondServiceError(c, errListReadings, "readings_list_failed", err, "since", since)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// @Summary      Download the temperature table
// @Tags         readings
// @Produce      text/csv
// @Success      200  {file}    file
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/readings/export [get]
// @Security     BearerAuth
func (h *Handler) exportReadings(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.services.Export(c.Request.Context(), &buf); err != nil {
		h.respondServiceError(c, errExport, "readings_export_failed", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// parseSince accepts a positive duration back from now or an absolute local time.
func parseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return time.Time{}, fmt.Errorf("duration must be positive: %s", s)
		}
		return now.Add(-d), nil
	}
	return parseQueryTime(s, time.Local)
}
