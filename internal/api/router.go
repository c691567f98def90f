package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/wadesk/console-api/docs"
	"github.com/wadesk/console-api/internal/api/handler"
	"github.com/wadesk/console-api/internal/api/middleware"
	"github.com/wadesk/console-api/internal/core/routes"
	"github.com/wadesk/console-api/internal/core/service"
	"github.com/wadesk/console-api/internal/infrastructure/config"
	mongodb "github.com/wadesk/console-api/internal/infrastructure/db/mongo"
	redisdb "github.com/wadesk/console-api/internal/infrastructure/db/redis"
	"github.com/wadesk/console-api/internal/infrastructure/identity"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("console"))

	// The gate runs on every request, before anything that could block.
	classifier := routes.NewClassifier(routes.DefaultTables())
	e.Use(middleware.Gate(classifier))

	// --- Dependencies ---
	keyRepo := mongodb.NewKeyRepository(db)
	touch := redisdb.NewTouchLimiter(rdb)
	keyService := service.NewKeyService(keyRepo, touch, cfg.GlobalAPIKey, log)
	idp := identity.NewJWTResolver(cfg.SessionSecret)

	keyHandler := handler.NewKeyHandler(keyService)
	adminHandler := handler.NewAdminHandler(keyService)
	session := middleware.Session(idp)

	// --- Credential lifecycle (session-authenticated humans) ---
	keys := e.Group("/keys", session)
	keys.GET("", keyHandler.List)
	keys.POST("", keyHandler.Create)
	keys.PUT("/:id", keyHandler.Update)
	keys.DELETE("/:id", keyHandler.Revoke)

	// --- Admin surface ---
	admin := e.Group("/admin", session)
	admin.GET("/global-key", adminHandler.GlobalKey)

	// --- Programmatic surface (X-API-Key) ---
	apiv1 := e.Group("/api/v1", middleware.APIKeyAuth(keyService))
	apiv1.GET("/me", keyHandler.Introspect, middleware.RequireScope("keys:read"))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
