package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/taahs-backlog/dodgegame-web-portal/internal/auth"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/auth/resolver"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/session"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/token"
)

// Surface messages the game client displays verbatim. Changing any of these
// breaks deployed clients.
const (
	msgMissingFields   = "Identifier and password are required."
	msgNoAccount       = "No account found for that username."
	msgLookupFailed    = "Unable to look up username."
	msgLoggedIn        = "Logged in successfully."
	msgAccountCreated  = "Account has been created."
	msgInvalidJSON     = "Invalid JSON body"
	msgRegenNoSession  = "You need to be logged in to regenerate a token."
	msgTokenRegenerate = "Token regenerated."
)

type Handler struct {
	client       *auth.Client
	resolver     resolver.Resolver
	coordinator  *token.Coordinator
	sessionStore session.Store

	// strictRegister switches /auth/register from the original always-200
	// contract to real status codes on failure.
	strictRegister bool
}

func NewHandler(
	client *auth.Client,
	resolver resolver.Resolver,
	coordinator *token.Coordinator,
	sessionStore session.Store,
	strictRegister bool,
) *Handler {
	return &Handler{
		client:         client,
		resolver:       resolver,
		coordinator:    coordinator,
		sessionStore:   sessionStore,
		strictRegister: strictRegister,
	}
}

// RegisterRoutes registers the public auth surface.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
}

// RegisterProtected registers the token surface behind the auth middleware.
func (h *Handler) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/token", h.Token)
	g.POST("/token/regenerate", h.RegenerateToken)
}

// userPayload is the user object the login surface returns.
type userPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func toUserPayload(id *auth.Identity) *userPayload {
	return &userPayload{
		ID:       id.UserID,
		Email:    id.Email,
		Username: id.Username,
	}
}
