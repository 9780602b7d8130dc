package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taahs-backlog/dodgegame-web-portal/internal/token"
)

// Token returns the locally held token value for display in the portal.
func (h *Handler) Token(c *gin.Context) {
	value := h.coordinator.Token()
	if value == "" {
		c.JSON(http.StatusNotFound, gin.H{"message": "No token provisioned."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": value})
}

// RegenerateToken replaces the token on user request. A sync failure still
// answers 200 with the new value: the token was regenerated locally and the
// failure is only a status message, consistent with the no-retry design.
func (h *Handler) RegenerateToken(c *gin.Context) {
	value, err := h.coordinator.Regenerate(c.Request.Context())
	if errors.Is(err, token.ErrNoActiveSession) {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgRegenNoSession})
		return
	}

	resp := gin.H{"token": value, "message": msgTokenRegenerate}
	if err != nil {
		resp["message"] = err.Error()
	}

	c.JSON(http.StatusOK, resp)
}
