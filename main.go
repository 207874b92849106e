package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-service/internal/account"
	"task-service/internal/audit"
	"task-service/internal/auth"
	"task-service/internal/config"
	"task-service/internal/http"
	"task-service/internal/rbac"
	"task-service/internal/rbac/presets"
	"task-service/internal/repository/postgres"
	"task-service/pkg/metrics"
	"task-service/pkg/password"

	"github.com/joho/godotenv"
)

const (
	envFilePath      = ".env"
	serverAddrPrefix = ":"
	signalBufferSize = 1
	logOutputFlags   = log.LstdFlags | log.Lshortfile
	startupTimeout   = 30 * time.Second
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(logOutputFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Database connection established")

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	if err := db.Migrate(startupCtx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	accountRepo := postgres.NewAccountRepository(db)
	roleRepo := postgres.NewRoleRepository(db)

	checker, err := rbac.LoadChecker(startupCtx, roleRepo, presets.TaskManagement())
	if err != nil {
		log.Fatalf("Failed to load role model: %v", err)
	}

	log.Printf("Role model loaded with %d roles", len(checker.Roles()))

	signingKey, err := auth.LoadSigningKey(cfg.JWT.Secret, cfg.JWT.KeyID)
	if err != nil {
		log.Fatalf("Failed to load signing key: %v", err)
	}
	if signingKey.Generated() {
		log.Printf("Warning: JWT_SECRET rejected (%s), using a generated signing key; tokens will not survive a restart", signingKey.WeakReason())
	}

	jwtService := auth.NewJWTService(signingKey, cfg.JWT.ExpiryDuration)
	auditLogger := audit.NewLogger(db.Pool)
	accountService := account.NewService(accountRepo, checker, password.NewBcryptVerifier(cfg.Security.BcryptCost), auditLogger)

	if _, err := accountService.EnsureSuperAdmin(startupCtx, cfg.Admin); err != nil {
		log.Fatalf("Failed to initialize admin account: %v", err)
	}

	serverDeps := &http.ServerDependencies{
		Config:         cfg,
		Accounts:       accountService,
		Tokens:         jwtService,
		SigningKey:     signingKey,
		AuthMiddleware: auth.NewMiddleware(jwtService, accountRepo, checker, cfg.JWT.CookieName),
		AuditLogger:    auditLogger,
		AuditEvents:    auditLogger,
		Metrics:        metrics.New(),
	}

	server := http.NewServer(serverDeps)

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
