package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/wekeepgrowing/billing-sync/internal/adapter/handler/http"
	"github.com/wekeepgrowing/billing-sync/internal/config"
	"github.com/wekeepgrowing/billing-sync/internal/domain/entity"
	"github.com/wekeepgrowing/billing-sync/internal/domain/provider"
	"github.com/wekeepgrowing/billing-sync/internal/infrastructure/database"
	"github.com/wekeepgrowing/billing-sync/internal/middleware/auth"
	"github.com/wekeepgrowing/billing-sync/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	config  *config.Config
	logger  *zap.Logger
	echo    *echo.Echo
	repos   *database.Repositories
	gateway provider.Gateway
}

// requestValidator adapts go-playground/validator to echo's Validator
// interface.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(cfg *config.Config, logger *zap.Logger, repos *database.Repositories, gateway provider.Gateway) *Server {
	e := echo.New()
	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config:  cfg,
		logger:  logger,
		echo:    e,
		repos:   repos,
		gateway: gateway,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "billing-sync",
		})
	})

	// Wire the sync core
	classifier := usecase.StaticClassifier{Type: entity.SubscriptionTypeLimitDate}
	translator := usecase.NewSubscriptionTranslator(s.repos.CustomerMapping, classifier, s.logger)
	syncEngine := usecase.NewSubscriptionSyncEngine(s.gateway, translator, s.repos.Subscription, s.logger)
	linkService := usecase.NewIdentityLinkService(s.repos.CustomerMapping, s.repos.ConnectedAccountMapping, s.gateway, s.logger)

	webhookHandler := handlers.NewWebhookHandler(s.logger, s.config.Service.StripeWebhookSecret, s.repos.Webhook, syncEngine)
	accountHandler := handlers.NewAccountHandler(s.logger, linkService, s.repos.Subscription)

	// Provider deliveries, signature-verified, never JWT-guarded
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret: s.config.Service.JWTSecret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/webhook",
		},
	}

	// API v1 routes
	v1 := s.echo.Group("/api/v1", auth.JWTMiddleware(jwtConfig))

	account := v1.Group("/account")
	account.POST("/customer", accountHandler.ProvisionCustomer)
	account.POST("/customer/link", accountHandler.LinkCustomer)
	account.DELETE("/customer/:id", accountHandler.UnlinkCustomer)
	account.POST("/connected-account/link", accountHandler.LinkConnectedAccount)
	account.DELETE("/connected-account/:id", accountHandler.UnlinkConnectedAccount)

	v1.GET("/subscriptions", accountHandler.GetSubscriptions)
}
