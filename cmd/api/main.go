// Package main is the entrypoint for the Commons API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/commons/commons/internal/auth"
	"github.com/commons/commons/internal/config"
	"github.com/commons/commons/internal/database"
	"github.com/commons/commons/internal/events"
	"github.com/commons/commons/internal/handler"
	"github.com/commons/commons/internal/idgen"
	"github.com/commons/commons/internal/metrics"
	"github.com/commons/commons/internal/middleware"
	"github.com/commons/commons/internal/server"
	"github.com/commons/commons/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := initLogger(cfg)

	if cfg.AutoMigrate {
		applied, err := database.MigrateUp(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("migrate: %s", sanitizeError(err, cfg.DatabaseURL))
		}
		logger.Info("migrations applied", "count", applied)
	}

	store, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return errors.New("open store")
	}
	logger.Info("connected to database")

	recorder := metrics.NewInMemory()

	var publisher events.Publisher = events.Noop{}
	var redisCheck handler.HealthChecker
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = store.Close()
			return fmt.Errorf("parse redis url: %s", sanitizeError(err, cfg.RedisURL))
		}
		redisClient = redis.NewClient(opts)
		redisPublisher := events.NewRedisPublisher(redisClient, logger)
		publisher = redisPublisher
		redisCheck = redisPublisher
		logger.Info("event publishing enabled", slog.String("redis_url", redactURL(cfg.RedisURL)))
	} else {
		logger.Info("event publishing disabled")
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("init tokens: %w", err)
	}

	opts := service.Options{
		Logger:       logger,
		Metrics:      recorder,
		Events:       publisher,
		IDs:          idgen.NewULID(),
		StoreTimeout: cfg.StoreTimeout,
	}
	roles := service.NewRoleService(store, opts)
	communities := service.NewCommunityService(store, roles, opts)
	members := service.NewMemberService(store, opts)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	router := handler.NewRouter(handler.RouterConfig{
		Logger:        logger,
		Verifier:      tokens,
		CORS:          cors,
		MaxBodySize:   cfg.MaxRequestBodySize,
		IsDevelopment: cfg.IsDevelopment(),
		Health:        handler.NewHealthHandler(store, redisCheck),
		Metrics:       handler.NewMetricsHandler(recorder),
		Roles:         handler.NewRoleHandler(roles, logger),
		Communities:   handler.NewCommunityHandler(communities, logger),
		Members:       handler.NewMemberHandler(members, logger),
	})

	srv := server.New(router, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Closed last.
	srv.OnShutdown("store", func(context.Context) error { return store.Close() })
	if redisClient != nil {
		srv.OnShutdown("redis", func(context.Context) error { return redisClient.Close() })
	}

	srv.OnPreflight("store", store.Ping)
	srv.OnPreflight("default roles", func(ctx context.Context) error {
		created, err := roles.EnsureDefaultRoles(ctx)
		if err != nil {
			return err
		}
		logger.Info("default roles ensured", "created", len(created))
		return nil
	})

	backend, _ := database.Backend(cfg.DatabaseURL)
	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"store", backend,
	)

	return srv.Run()
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "commons")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL drops the password from a connection URL. sqlite:// paths pass through.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}
	q := parsed.Query()
	if q.Has("password") {
		q.Set("password", "redacted")
		parsed.RawQuery = q.Encode()
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
