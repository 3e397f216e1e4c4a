package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"intentrelay.app/relay/common/id"
	"intentrelay.app/relay/common/logger"
	"intentrelay.app/relay/common/otel"
	"intentrelay.app/relay/core/config"
	"intentrelay.app/relay/core/db"
	"intentrelay.app/relay/internal/queue"
	"intentrelay.app/relay/internal/store"
	"intentrelay.app/relay/internal/worker"
)

const maxAttempts = 5

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "audit worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Pipeline.AuditGroup,
		"consumer_name", cfg.Pipeline.AuditConsumer)

	// Different node ID than the server
	if err := id.Init(2); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Pipeline.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.AuditStream)

	consumer, err := queue.NewRedisConsumer(ctx, redisClient, queue.ConsumerConfig{
		Stream:       cfg.Pipeline.AuditStream,
		Group:        cfg.Pipeline.AuditGroup,
		Consumer:     cfg.Pipeline.AuditConsumer,
		DLQStream:    cfg.Pipeline.AuditDLQStream,
		BatchSize:    50,
		Block:        5 * time.Second,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	stores := store.NewStores(database.Queries())
	w := worker.New(consumer, stores.IngestionEvents(), worker.Config{MaxAttempts: maxAttempts}, nil)

	reclaimer := worker.NewRedisReclaimer(redisClient, worker.RedisReclaimerConfig{
		Stream:    cfg.Pipeline.AuditStream,
		Group:     cfg.Pipeline.AuditGroup,
		Consumer:  cfg.Pipeline.AuditConsumer + "-reclaimer",
		MinIdle:   5 * time.Minute,
		Interval:  time.Minute,
		BatchSize: 50,
	}, consumer, w.ProcessMessage, nil)

	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()

	errCh := make(chan error, 2)
	go func() {
		errCh <- w.Run(runCtx)
	}()
	go func() {
		reclaimer.Run(runCtx)
		errCh <- nil
	}()

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Read blocks for up to Block; cancelling unblocks it so Stop returns promptly.
	stopRun()
	for range 2 {
		select {
		case <-shutdownCtx.Done():
			slog.WarnContext(ctx, "shutdown timeout exceeded")
		case err := <-errCh:
			if err != nil && err != context.Canceled {
				slog.ErrorContext(ctx, "worker error during shutdown", "error", err)
			}
		}
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
 _       _             _                 _
(_)_ __ | |_ ___ _ __ | |_   _ __ ___| | __ _ _   _
| | '_ \| __/ _ \ '_ \| __| | '__/ _ \ |/ _` + "`" + ` | | | |
| | | | | ||  __/ | | | |_  | | |  __/ | (_| | |_| |
|_|_| |_|\__\___|_| |_|\__| |_|  \___|_|\__,_|\__, |
                                              |___/  worker
`
