package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taahs-backlog/dodgegame-web-portal/internal/auth/resolver"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/logger"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/session"
)

const sessionDuration = 24 * time.Hour

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	User    *userPayload `json:"user,omitempty"`
	// TokenStatus carries a token sync failure without failing the login;
	// the session is established either way.
	TokenStatus string `json:"token_status,omitempty"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidJSON})
		return
	}

	if req.Identifier == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgMissingFields})
		return
	}

	email, err := h.resolver.Resolve(c.Request.Context(), req.Identifier)
	if err != nil {
		switch {
		case errors.Is(err, resolver.ErrNoAccount):
			c.JSON(http.StatusBadRequest, gin.H{"message": msgNoAccount})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": msgLookupFailed})
		}
		return
	}

	identity, err := h.client.SignIn(c.Request.Context(), email, req.Password)
	if err != nil {
		// Provider rejections pass through with their own message.
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "session error"})
		return
	}

	expiresAt := time.Now().Add(sessionDuration)

	if err := h.sessionStore.Create(c.Request.Context(), session.Session{
		SessionID: sessionID,
		UserID:    identity.UserID,
		Username:  identity.Username,
		ExpiresAt: expiresAt,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "session error"})
		return
	}

	session.SetCookie(c.Writer, sessionID, expiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	resp := loginResponse{
		Message: msgLoggedIn,
		User:    toUserPayload(identity),
	}

	// Provision directly instead of waiting for the session-change
	// notification; the coordinator dedupes the two triggers by user id. A
	// sync failure is reported, never escalated: the login already
	// succeeded.
	if err := h.coordinator.Provision(c.Request.Context(), identity.UserID); err != nil {
		logger.Warn("token provisioning after login failed", map[string]any{
			"user_id": identity.UserID,
			"error":   err.Error(),
		})
		resp.TokenStatus = err.Error()
	}

	c.JSON(http.StatusOK, resp)
}
