package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"kasa/internal/amqp"
	"kasa/internal/config"
	"kasa/internal/log"
	"kasa/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(slog.LevelInfo, log.ComponentWorker)
	log.SetDefault(logger)

	cfg := config.Load()
	// The worker only needs the AMQP side of the config; the HTTP and
	// admin settings do not apply here.
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set for the feed worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	feed := worker.NewFeedWorker(cfg.FeedPath)
	logger.Info("Starting feed worker",
		"queue", cfg.AMQPQueue, "feed_path", cfg.FeedPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.ConsumeLedgerEntries(ctx, feed.HandleLedgerEntry); err != nil &&
		!errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Feed worker stopped")
}
