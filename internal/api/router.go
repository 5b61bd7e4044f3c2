package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/shiftsurge/shift-system/docs"
	"github.com/shiftsurge/shift-system/internal/api/handler"
	"github.com/shiftsurge/shift-system/internal/api/middleware"
	"github.com/shiftsurge/shift-system/internal/core/domain"
	"github.com/shiftsurge/shift-system/internal/core/ports"
	"github.com/shiftsurge/shift-system/internal/infrastructure/http/handlers"
)

// Dependencies carries everything the router needs; services are built at
// the composition root, not here.
type Dependencies struct {
	Auth       ports.AuthService
	Shifts     ports.ShiftService
	Claims     ports.ClaimService
	Escalation ports.EscalationService

	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("shiftsys"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	shiftHandler := handler.NewShiftHandler(deps.Shifts, deps.Claims)
	escalationHandler := handler.NewEscalationHandler(deps.Escalation)

	authRequired := middleware.Auth(deps.JWTSecret)
	managerOnly := middleware.RBAC(domain.RoleManager)
	staffOnly := middleware.RBAC(domain.RoleStaff)
	anyRole := middleware.RBAC(domain.RoleManager, domain.RoleStaff)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Shift routes ---
	v1 := e.Group("/v1", authRequired)
	v1.POST("/shifts", shiftHandler.Create, managerOnly)
	v1.GET("/shifts", shiftHandler.List, anyRole)
	v1.POST("/shifts/:id/claim", shiftHandler.Claim, staffOnly)
	v1.POST("/shifts/:id/check-in", shiftHandler.CheckIn, staffOnly)
	v1.POST("/shifts/:id/check-out", shiftHandler.CheckOut, staffOnly)
	v1.POST("/shifts/:id/ghost", shiftHandler.Ghost, managerOnly)
	v1.POST("/shifts/:id/cancel", shiftHandler.Cancel, managerOnly)
	v1.POST("/escalations/run", escalationHandler.Run, managerOnly)

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
