package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taahs-backlog/dodgegame-web-portal/internal/logger"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/session"
)

// Logout ends the identity session and the browser session. Both teardowns
// are best-effort so the response stays idempotent.
func (h *Handler) Logout(c *gin.Context) {
	if cookie, err := c.Request.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
	}

	if err := h.client.SignOut(c.Request.Context()); err != nil {
		logger.Warn("provider sign-out failed", map[string]any{
			"error": err.Error(),
		})
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Status(http.StatusNoContent)
}
