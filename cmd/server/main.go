package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"intentrelay.app/relay/common/id"
	"intentrelay.app/relay/common/logger"
	"intentrelay.app/relay/common/otel"
	"intentrelay.app/relay/core/config"
	"intentrelay.app/relay/core/db"
	"intentrelay.app/relay/internal/http/middleware"
	httprouter "intentrelay.app/relay/internal/http/router"
	"intentrelay.app/relay/internal/queue"
	"intentrelay.app/relay/internal/service"
	"intentrelay.app/relay/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "intent relay starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	redisOpts, err := redis.ParseURL(cfg.Pipeline.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Audit publishing degrades to log-only; intake keeps working without Redis.
	var auditProducer queue.Producer
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.WarnContext(ctx, "redis unavailable, audit events will only be logged", "error", err)
	} else {
		auditProducer = queue.NewRedisProducer(redisClient, cfg.Pipeline.AuditStream, nil)
		slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.AuditStream)
	}

	services := service.NewServices(
		store.NewStores(database.Queries()),
		service.NewTxRunner(database),
		auditProducer,
		cfg,
		&http.Client{Timeout: 10 * time.Second},
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, database)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	// Dispatches outlive their requests; drain them before closing Redis and the pool.
	if err := services.LeadIngest().Wait(shutdownCtx); err != nil {
		slog.WarnContext(shutdownCtx, "in-flight automation dispatches abandoned", "error", err)
	}

	if auditProducer != nil {
		if err := auditProducer.Close(); err != nil {
			slog.ErrorContext(shutdownCtx, "audit producer close error", "error", err)
		}
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, database *db.DB) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery(httprouter.WebhookPanicAcks()))
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		TraceHeaderName:        cfg.Pipeline.TraceHeaderName,
		ExtensionWebhookSecret: cfg.Webhooks.ExtensionSecret,
		PaymentWebhookSecret:   cfg.Webhooks.PaymentSecret,
		Health:                 database,
	})

	return router
}

const banner = `
 _       _             _                 _
(_)_ __ | |_ ___ _ __ | |_   _ __ ___| | __ _ _   _
| | '_ \| __/ _ \ '_ \| __| | '__/ _ \ |/ _` + "`" + ` | | | |
| | | | | ||  __/ | | | |_  | | |  __/ | (_| | |_| |
|_|_| |_|\__\___|_| |_|\__| |_|  \___|_|\__,_|\__, |
                                              |___/  server
`
