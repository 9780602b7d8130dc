package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/taahs-backlog/dodgegame-web-portal/internal/auth"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/auth/handler"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/auth/provider/keycloak"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/auth/resolver"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/config"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/metrics"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/middleware"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/profile"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/session"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/token"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	registry := prometheus.NewRegistry()
	collector := metrics.NewPromCollector(registry)

	directory := profile.NewPGDirectory(infra.DB)
	sessionStore := session.NewRedisStore(infra.Redis.Client)

	identityProvider, err := keycloak.New(
		ctx,
		cfg.KeycloakIssuer,
		cfg.KeycloakClientID,
		cfg.KeycloakClientSecret,
	)
	if err != nil {
		return nil, nil, err
	}

	sessionClient := auth.NewClient(identityProvider, directory, collector)
	identifierResolver := resolver.NewDirectoryResolver(directory, identityProvider)

	storeClient := token.NewStoreClient(cfg.TokenStoreURL, cfg.TokenStoreAPIKey, collector)
	coordinator := token.NewCoordinator(storeClient)

	// The coordinator reacts to every session replacement from here on;
	// the initial emission is a nil session.
	sessionClient.OnChange(coordinator.HandleSessionChange)

	authHandler := handler.NewHandler(
		sessionClient,
		identifierResolver,
		coordinator,
		sessionStore,
		cfg.StrictRegisterStatus,
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	authHandler.RegisterProtected(api)

	api.GET("/me", func(c *gin.Context) {
		userID, _ := middleware.UserIDFromContext(c.Request.Context())
		c.JSON(200, gin.H{"user_id": userID})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
