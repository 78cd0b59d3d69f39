package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusverein/member-portal/internal/api/handler"
	"github.com/campusverein/member-portal/internal/api/middleware"
	"github.com/campusverein/member-portal/internal/core/domain"
	"github.com/campusverein/member-portal/internal/core/ports"
	"github.com/campusverein/member-portal/internal/core/service"
	"github.com/campusverein/member-portal/internal/infrastructure/config"
	portalredis "github.com/campusverein/member-portal/internal/infrastructure/db/redis"
	"github.com/campusverein/member-portal/internal/infrastructure/http/handlers"
	"github.com/campusverein/member-portal/internal/infrastructure/notify"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *sql.DB, rdb *goredis.Client, mdb *mongo.Database, audit ports.AuditSink, accountRepo ports.AccountRepository, userdataRepo ports.UserDataRepository, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	clock := ports.SystemClock{}
	tokens := ports.CryptoTokenSource{}

	sessionStore := portalredis.NewSessionStore(rdb, cfg.Auth.SessionIdleTimeout)
	limiter := portalredis.NewRateLimiter(rdb, cfg.Auth.RateLimitWindow, cfg.Auth.RateLimitThreshold, clock)
	notifier := notify.NewLogNotifier(log)

	sessions := service.NewSessionManager(sessionStore, accountRepo, tokens, clock, cfg.Auth.SessionIdleTimeout, log)
	csrf := service.NewCSRFGuard(tokens, sessionStore)
	auth := service.NewAuthService(accountRepo, sessions, limiter, audit, domain.Role(cfg.Auth.SSODefaultRole), log)
	accounts := service.NewAccountService(accountRepo, userdataRepo, sessions, sessionStore, audit, notifier, clock, log)

	authHandler := handler.NewAuthHandler(auth, sessions, csrf, cfg.Auth.SSOSharedSecret, cfg.Auth.SecureCookies)
	accountHandler := handler.NewAccountHandler(accounts)

	sessionMW := middleware.Session(sessions, sessionStore)
	csrfMW := middleware.CSRF(csrf)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/sso", authHandler.LoginSSO)
	e.POST("/auth/logout", authHandler.Logout, sessionMW, csrfMW)
	e.GET("/auth/session", authHandler.Session, sessionMW)
	e.POST("/auth/csrf", authHandler.RotateCSRF, sessionMW, csrfMW)

	// --- Account lifecycle ---
	accountGroup := e.Group("/accounts", sessionMW, csrfMW)
	accountGroup.POST("", accountHandler.Create, middleware.RequireRole(domain.RoleVorstand))
	accountGroup.PUT("/:id/password", accountHandler.UpdatePassword)
	accountGroup.PUT("/:id/email", accountHandler.UpdateEmail)
	accountGroup.PUT("/:id/role", accountHandler.UpdateRole, middleware.RequireRole(domain.RoleVorstand))
	accountGroup.GET("/:id/export", accountHandler.Export)
	accountGroup.DELETE("/:id", accountHandler.Delete)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb, mdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
