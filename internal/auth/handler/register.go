package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message  string           `json:"message"`
	Received registerReceived `json:"received"`
}

// registerReceived echoes what the surface accepted, with the password
// reduced to its length.
type registerReceived struct {
	Email          string `json:"email"`
	Username       string `json:"username"`
	PasswordLength int    `json:"passwordLength"`
}

// Register creates the account. By default this surface always answers 200
// and signals failure only through the message field, which is what the
// deployed game client expects; strictRegister opts into a 400 on provider
// rejection with the same body shape.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidJSON})
		return
	}

	resp := registerResponse{
		Message: msgAccountCreated,
		Received: registerReceived{
			Email:          req.Email,
			Username:       req.Username,
			PasswordLength: len(req.Password),
		},
	}

	status := http.StatusOK
	if _, err := h.client.SignUp(c.Request.Context(), req.Email, req.Password, req.Username); err != nil {
		resp.Message = err.Error()
		if h.strictRegister {
			status = http.StatusBadRequest
		}
	}

	c.JSON(status, resp)
}
