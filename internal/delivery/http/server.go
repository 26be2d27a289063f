package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/listing-service/internal/config"
	"github.com/listing-service/internal/delivery/http/handler"
	"github.com/listing-service/internal/delivery/http/middleware"
	"github.com/listing-service/internal/pkg/errors"
	"github.com/listing-service/internal/pkg/metrics"
	"github.com/listing-service/internal/pkg/utils"
	"github.com/listing-service/internal/usecase"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app     *fiber.App
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	guard   *usecase.ListingGuard

	// Handlers
	listingHandler *handler.ListingHandler
	healthHandler  *handler.HealthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	guard *usecase.ListingGuard,
	listingHandler *handler.ListingHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Listing Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		metrics:        m,
		guard:          guard,
		listingHandler: listingHandler,
		healthHandler:  healthHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - доступ к fiber.App (используется в тестах через app.Test)
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	if s.config.Metrics.Enabled {
		s.app.Use(middleware.Metrics(s.metrics))
	}
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	s.app.Use(middleware.Identity(s.config.Auth.JWTSecret, s.logger))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.config.Metrics.Enabled {
		s.app.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}),
		))
	}

	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(middleware.ListingsPath, fiber.StatusFound)
	})

	api := s.app.Group("/api/v1")

	api.Get("/health", s.healthHandler.Health)
	api.Get("/categories", s.listingHandler.Categories)

	owner := middleware.RequireListingOwner(s.guard)

	listings := api.Group("/listings")
	listings.Get("", s.listingHandler.Index)
	listings.Post("", middleware.RequireAuth(), s.listingHandler.Create)
	// /new регистрируется до /:id
	listings.Get("/new", middleware.RequireAuth(), s.listingHandler.New)
	listings.Get("/:id", s.listingHandler.Show)
	listings.Get("/:id/edit", owner, s.listingHandler.Edit)
	listings.Put("/:id", owner, s.listingHandler.Update)
	listings.Delete("/:id", owner, s.listingHandler.Delete)

	s.app.Use(func(c *fiber.Ctx) error {
		return utils.SendError(c, errors.ErrRouteNotFound)
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные хендлерами, в формате ErrorResponse
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			if e.Code == fiber.StatusNotFound {
				return utils.SendError(c, errors.ErrRouteNotFound)
			}
			return utils.SendError(c, errors.New("HTTP_ERROR", e.Message, e.Code))
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		return utils.SendError(c, err)
	}
}
