package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brandshub/user-directory/internal/api/handler"
	"github.com/brandshub/user-directory/internal/api/middleware"
	"github.com/brandshub/user-directory/internal/core/ports"
)

// Deps carries everything the router needs to wire routes.
type Deps struct {
	Users    ports.UserService
	Issuer   ports.TokenIssuer
	Throttle handler.LoginThrottle
	Mongo    *mongo.Database
	Redis    *redis.Client
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("userdir"))

	userHandler := handler.NewUserHandler(deps.Users, deps.Throttle, deps.Log)
	authed := middleware.Auth(deps.Issuer)
	adminOnly := middleware.RequireAdmin()
	selfOrAdmin := middleware.RequireSelfOrAdmin("id")

	// --- Public routes ---
	e.POST("/users/register", userHandler.Register)
	e.POST("/users/login", userHandler.Login)

	// --- Self-or-admin routes ---
	e.GET("/users/:id", userHandler.GetByID, authed, selfOrAdmin)
	e.PUT("/users/:id", userHandler.Update, authed, selfOrAdmin)

	// --- Admin routes ---
	e.GET("/users", userHandler.ListAll, authed, adminOnly)
	e.GET("/users/username/:username", userHandler.GetByUsername, authed, adminOnly)
	e.GET("/users/email/:email", userHandler.GetByEmail, authed, adminOnly)
	e.GET("/users/type/:type", userHandler.ListByType, authed, adminOnly)
	e.GET("/users/status/:status", userHandler.ListByStatus, authed, adminOnly)
	e.GET("/users/search/name", userHandler.SearchByName, authed, adminOnly)
	e.GET("/users/search/company", userHandler.SearchByCompany, authed, adminOnly)
	e.DELETE("/users/:id", userHandler.Delete, authed, adminOnly)
	e.PATCH("/users/:id/status", userHandler.UpdateStatus, authed, adminOnly)
	e.POST("/users/:id/roles", userHandler.AddRole, authed, adminOnly)
	e.DELETE("/users/:id/roles", userHandler.RemoveRole, authed, adminOnly)
	e.POST("/users/:id/last-login", userHandler.UpdateLastLogin, authed, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
