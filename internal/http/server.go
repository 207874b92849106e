package http

import (
	"context"
	stdhttp "net/http"

	"task-service/internal/auth"
	"task-service/internal/config"
	"task-service/internal/http/handler"
	"task-service/internal/http/middleware"
	"task-service/internal/rbac/presets"
	"task-service/pkg/logger"
	"task-service/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "1M"
)

// AccountService is what the HTTP layer needs from the account service.
type AccountService interface {
	handler.Authenticator
	handler.AccountAdministration
}

type ServerDependencies struct {
	Config         *config.Config
	Accounts       AccountService
	Tokens         handler.TokenIssuer
	SigningKey     handler.KeyDescriptor
	AuthMiddleware *auth.Middleware
	AuditLogger    handler.AuditRecorder
	AuditEvents    handler.AuditQuerier
	Metrics        *metrics.Metrics
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if lvl, err := logger.ParseLevel(deps.Config.Server.LogLevel); err == nil {
		e.Logger.SetLevel(lvl)
	}

	// Set custom HTTP error handler
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	// Every later stage, rate limiting included, sees the Principal.
	e.Use(deps.AuthMiddleware.Authenticate())

	rl := deps.Config.RateLimit
	globalRateLimiter := middleware.NewGlobalRateLimiter(rl.GlobalRPS, rl.GlobalBurst)
	e.Use(globalRateLimiter.Middleware())

	// Strict rate limiting for auth endpoints
	strictRateLimiter := middleware.NewStrictRateLimiter(rl.AuthRPS, rl.AuthBurst)

	authHandler := handler.NewAuthHandler(deps.Accounts, deps.Tokens, handler.CookieSettings{
		Name:   deps.Config.JWT.CookieName,
		Secure: deps.Config.JWT.CookieSecure,
	}, deps.AuditLogger)
	usersHandler := handler.NewUsersHandler(deps.Accounts)
	jwksHandler := handler.NewJWKSHandler(deps.SigningKey)
	auditHandler := handler.NewAuditHandler(deps.AuditEvents)

	e.GET("/health", healthCheck)
	e.GET("/.well-known/jwks.json", jwksHandler.KeySet)

	e.POST("/auth/register", authHandler.Register, strictRateLimiter.Middleware())
	e.POST("/auth/login", authHandler.Login, strictRateLimiter.Middleware())
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, auth.RequireAuthenticated())

	staff := []echo.MiddlewareFunc{
		auth.RequireAnyRole(presets.RoleModerator, presets.RoleSuperAdmin),
	}
	roleManagers := []echo.MiddlewareFunc{
		auth.RequireRole(presets.RoleSuperAdmin),
		auth.RequireAuthority(presets.PermUsersManage),
	}

	users := e.Group("/users")
	users.GET("", usersHandler.ListUsers, append(staff, auth.RequireAuthority(presets.PermUsersView))...)
	users.POST("/role", usersHandler.UpdateRole, roleManagers...)

	admin := e.Group("/admin", auth.RequireRole(presets.RoleSuperAdmin))
	admin.GET("/users", usersHandler.ListUsers)
	admin.POST("/users/role", usersHandler.UpdateRole, roleManagers[1:]...)
	if deps.AuditEvents != nil {
		admin.GET("/audit", auditHandler.ListEvents)
	}
	if deps.Metrics != nil {
		admin.GET("/metrics", deps.Metrics.Handler)
	}

	moderator := e.Group("/moderator", staff...)
	moderator.GET("/permissions", usersHandler.MyPermissions)

	return &Server{
		echo: e,
		deps: deps,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
