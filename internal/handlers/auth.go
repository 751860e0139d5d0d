package handlers

import (
	"errors"
	"net/http"

	"coldspec/internal/models"
	"coldspec/internal/repository"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	BadgeID string `json:"badge_id" binding:"required" example:"007"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token   string         `json:"token"`
	Session models.Session `json:"session"`
}

// @Summary      Log in with a badge
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Badge"
// @Success      200   {object}  LoginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	sess, token, err := h.services.Login(c.Request.Context(), input.BadgeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if h.log != nil {
				h.log.Infow("auth_login_failed", "badge_id", input.BadgeID)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "badge not registered"})
			return
		}
		h.respondServiceError(c, "failed to log in", "auth_login_error", err, "badge_id", input.BadgeID)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, Session: sess})
}

// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/auth/logout [post]
// @Security     BearerAuth
func (h *Handler) logout(c *gin.Context) {
	if err := h.services.Logout(c.Request.Context(), currentSession(c)); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to log out", "auth_logout_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.Session
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c))
}
