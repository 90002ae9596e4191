package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/invitekeeper/internal/api/http/handler"
	"github.com/dtroode/invitekeeper/internal/api/http/middleware"
	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/model"
)

// Service is everything the HTTP API calls into.
type Service interface {
	handler.InviteService
	handler.DraftService
	handler.AuthService
	handler.StorageService
	middleware.TokenValidator
}

// Config holds router parameters that do not come from services.
type Config struct {
	Environment string
	BodyLimit   int
}

// Router wires handlers and middleware into a fiber application.
type Router struct {
	service        Service
	mockTokens     model.TokenManager
	contextManager model.ContextManager
	config         Config
	logger         *logger.Logger
}

// New creates a Router. mockTokens backs the /api/mock auth endpoints only.
func New(
	service Service,
	mockTokens model.TokenManager,
	contextManager model.ContextManager,
	config Config,
	logger *logger.Logger,
) *Router {
	return &Router{
		service:        service,
		mockTokens:     mockTokens,
		contextManager: contextManager,
		config:         config,
		logger:         logger,
	}
}

// Register builds the application with every route mounted.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "invitekeeper",
		DisableStartupMessage: true,
		BodyLimit:             r.config.BodyLimit,
		ErrorHandler:          handler.NewErrorHandler(r.logger),
	})

	logging := middleware.NewLogging(r.logger)
	metrics := middleware.NewMetrics()
	// recover sits innermost so a panic is logged and counted as a 500
	app.Use(logging.Handle, metrics.Handle, recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			r.logger.Error("Router: handler panicked", "method", c.Method(), "path", c.Path(), "panic", e)
		},
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	api.Get("/health", handler.NewHealth(r.config.Environment).Check)

	v1 := api.Group("/v1")
	r.registerInviteRoutes(v1)
	r.registerAuthRoutes(v1)
	r.registerStorageRoutes(v1)
	r.registerMockRoutes(api.Group("/mock"))

	return app
}

func (r *Router) registerInviteRoutes(group fiber.Router) {
	invites := handler.NewInvite(r.service, r.logger)
	group.Get("/invites", invites.List)
	group.Post("/invites", invites.Create)
	group.Get("/invites/:id", invites.Get)
	group.Patch("/invites/:id", invites.Update)
	group.Delete("/invites/:id", invites.Delete)
	group.Post("/invites/:id/publish", invites.Publish)
	group.Get("/invites/:id/cover", invites.Cover)

	draft := handler.NewDraft(r.service, r.logger)
	group.Get("/draft", draft.Get)
	group.Put("/draft", draft.Save)
	group.Delete("/draft", draft.Clear)
}

func (r *Router) registerAuthRoutes(group fiber.Router) {
	auth := handler.NewAuth(r.service, r.contextManager, r.logger)
	authenticate := middleware.NewAuthenticate(r.service, r.contextManager, r.logger)

	g := group.Group("/auth")
	g.Post("/login", auth.Login)
	g.Post("/register", auth.Register)
	g.Post("/logout", authenticate.Handle, auth.Logout)
	g.Get("/profile", authenticate.Handle, auth.GetProfile)
	g.Put("/profile", authenticate.Handle, auth.UpdateProfile)
}

func (r *Router) registerStorageRoutes(group fiber.Router) {
	storage := handler.NewStorage(r.service, r.logger)
	group.Get("/storage", storage.Info)
	group.Delete("/storage", storage.Clear)
	group.Post("/storage/repair", storage.Repair)
}

func (r *Router) registerMockRoutes(group fiber.Router) {
	mock := handler.NewMock(r.mockTokens, r.logger)
	group.Get("/invites", mock.Info)
	group.Post("/invites", mock.CreateInvite)
	group.Get("/invites/:id", mock.GetInvite)
	group.Post("/auth/login", mock.Login)
	group.Post("/auth/register", mock.Register)
	group.Post("/auth/logout", mock.Logout)
	group.Get("/auth/profile", mock.GetProfile)
	group.Put("/auth/profile", mock.UpdateProfile)
}
