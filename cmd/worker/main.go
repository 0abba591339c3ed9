package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"misterhr/internal/app"
	"misterhr/internal/config"
	"misterhr/internal/queue"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// The worker drains the batch queue and scores each batch with the same
// agents the HTTP server uses.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Queue.URL == "" {
		log.Fatal("RABBITMQ_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to bootstrap worker: %v", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	go container.Hub.Run()

	container.Logger.Info("worker started",
		zap.String("queue", cfg.Queue.QueueName))

	err = container.Queue.Consume(ctx, func(ctx context.Context, msg queue.BatchMessage) error {
		return container.BatchUC.Process(ctx, msg.BatchID)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		container.Logger.Error("consumer stopped", zap.Error(err))
	}
}
