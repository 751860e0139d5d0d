package handlers

import (
	"net/http"
	"strings"

	"coldspec/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	sessionCtxKey = "session"

	errMissingAuth = "missing Authorization header"
	errBadAuth     = "invalid Authorization header format"
	errBadToken    = "invalid or expired token"
)

// sessionMiddleware resolves the bearer token to a live session. Browsers cannot
// set headers on a WebSocket handshake, so an upgrade request without one may
// pass the token as ?token=.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" && websocket.IsWebSocketUpgrade(c.Request) {
		if qt := strings.TrimSpace(c.Query("token")); qt != "" {
			header = "Bearer " + qt
		}
	}
	token, msg := bearerToken(header)
	if msg != "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}

	sess, err := h.services.ParseToken(c.Request.Context(), token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("session_rejected", "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadToken})
		return
	}

	c.Set(sessionCtxKey, sess)
	c.Next()
}

// bearerToken extracts the token of "Bearer <token>". The scheme is matched
// case-insensitively. msg is the client-facing reason when no token is found.
func bearerToken(header string) (token, msg string) {
	if header == "" {
		return "", errMissingAuth
	}
	scheme, rest, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(rest)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errBadAuth
	}
	return token, ""
}

// currentSession returns the session stored by sessionMiddleware.
func currentSession(c *gin.Context) models.Session {
	v, _ := c.Get(sessionCtxKey)
	sess, _ := v.(models.Session)
	return sess
}
