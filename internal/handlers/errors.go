package handlers

import (
	"errors"
	"net/http"

	"coldspec/internal/repository"
	"coldspec/internal/service"

	"github.com/gin-gonic/gin"
)

// Messages shown to the operator for the persistence error taxonomy.
const (
	errMsgWriteLocked = "file is open in another program; close it and try again"
	errMsgUnavailable = "reference file is unavailable"
	errMsgMalformed   = "reference file is malformed"
	errMsgNotFound    = "not found"
	errInvalidBody    = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Warnw(logKey, fields...)
		}
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError maps service and repository errors to status codes. Errors
// outside the taxonomy are 500 with fallbackMsg.
func (h *Handler) respondServiceError(c *gin.Context, fallbackMsg, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrMissingColumns):
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), logKey, err, kv...)
	case errors.Is(err, repository.ErrWriteLocked):
		h.logAndJSONError(c, http.StatusLocked, errMsgWriteLocked, logKey, err, kv...)
	case errors.Is(err, repository.ErrNotFound):
		h.logAndJSONError(c, http.StatusNotFound, errMsgNotFound, logKey, err, kv...)
	case errors.Is(err, repository.ErrDirectoryUnavailable):
		h.logAndJSONError(c, http.StatusServiceUnavailable, errMsgUnavailable, logKey, err, kv...)
	case errors.Is(err, repository.ErrDirectoryMalformed):
		h.logAndJSONError(c, http.StatusInternalServerError, errMsgMalformed, logKey, err, kv...)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, fallbackMsg, logKey, err, kv...)
	}
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled, true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody + err.Error()})
		return false
	}
	return true
}
