package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

func main() {
	fmt.Println("Starting Portfolio Builder Worker...")

	// Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: cannot load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel)
	defer appLogger.Sync()

	// Kafka Consumer
	consumer, err := event.NewActivityConsumer(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init Kafka consumer", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Worker listening",
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group_id", cfg.Kafka.GroupID),
	)
	if err := consumer.Run(ctx); err != nil {
		appLogger.Error("Worker stopped with error", err)
		return
	}

	counts := consumer.Counts()
	fields := make([]zap.Field, 0, len(counts))
	for eventType, n := range counts {
		fields = append(fields, zap.Int(eventType, n))
	}
	appLogger.Info("Worker stopped", fields...)
}
