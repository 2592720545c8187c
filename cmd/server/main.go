// @title         login-app API
// @version       1.0
// @description   User registration and login with a read-only proxy to CRM account records.
// @BasePath      /api
// @schemes       http
// @host          localhost:3000
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token. Accepted as "Bearer <JWT>" or "<JWT>".
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/RitwikMitra19/login-app/docs"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	swagger "github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"

	// internal imports
	"github.com/RitwikMitra19/login-app/api/http"
	"github.com/RitwikMitra19/login-app/api/http/handlers"
	"github.com/RitwikMitra19/login-app/pkg/accounts"
	"github.com/RitwikMitra19/login-app/pkg/auth"
	"github.com/RitwikMitra19/login-app/pkg/config"
	"github.com/RitwikMitra19/login-app/pkg/crm"
	"github.com/RitwikMitra19/login-app/pkg/crm/salesforce"
	"github.com/RitwikMitra19/login-app/pkg/health"
	"github.com/RitwikMitra19/login-app/pkg/health/checkers"
	"github.com/RitwikMitra19/login-app/pkg/logging"
	"github.com/RitwikMitra19/login-app/pkg/metrics"
	pgrepo "github.com/RitwikMitra19/login-app/pkg/repository/postgres"
	"github.com/RitwikMitra19/login-app/pkg/security/jwt"
	"github.com/RitwikMitra19/login-app/pkg/storage/postgres"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration from env/.env
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL and bring the schema up to date
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, postgres.Options{MaxConns: int32(cfg.DB.MaxConns)})
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	m := metrics.New()

	// Wire dependencies (Clean Architecture)
	userRepo := pgrepo.NewUserRepository(pool)
	jwtGen := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL())
	jwtVerifier := jwt.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	authUC := auth.NewAuthService(userRepo, auth.NewBcryptHasher(cfg.BcryptCost), jwtGen, jwtVerifier)
	authHandler := handlers.NewAuthHandler(authUC, logger, m)

	readinessChecks := []health.Checker{checkers.NewPostgresChecker(pool)}

	// CRM session cache: redis when configured, process memory otherwise
	var sessions crm.SessionStore = crm.NewMemoryStore()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		sessions = crm.NewRedisStore(rdb)
		readinessChecks = append(readinessChecks, checkers.NewRedisChecker(rdb))
	}

	sfClient := salesforce.New(salesforce.Config{
		LoginURL:      cfg.Salesforce.LoginURL,
		Username:      cfg.Salesforce.Username,
		Password:      cfg.Salesforce.Password,
		SecurityToken: cfg.Salesforce.SecurityToken,
		APIVersion:    cfg.Salesforce.APIVersion,
		SessionTTL:    cfg.SalesforceSessionTTL(),
		HTTPTimeout:   cfg.SalesforceTimeout(),
	}, sessions, m, logger)
	accountsUC := accounts.NewService(sfClient, cfg.SalesforceTimeout())
	accountsHandler := handlers.NewAccountsHandler(accountsUC, logger)

	// Health service: compose checkers
	healthHandler := handlers.NewHealthHandler(health.NewService(readinessChecks...), logger)

	// JWT auth middleware for protected routes
	authMW := jwt.NewAuthMiddleware(authUC, logger)

	app := http.NewApp(logger, cfg.FrontendURL)
	http.Register(app, authHandler, healthHandler, accountsHandler, authMW)

	// Swagger UI and metrics
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	return nil
}
