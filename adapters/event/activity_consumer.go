package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/internal/application/service"
	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ActivityConsumer reads builder activity events and logs them.
type ActivityConsumer struct {
	reader       messageReader
	logger       logger.Logger
	counts       map[string]int
	retryBackoff time.Duration
}

const defaultRetryBackoff = time.Second

func NewActivityConsumer(cfg config.Config, log logger.Logger) (*ActivityConsumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.Topic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newActivityConsumer(reader, log), nil
}

func newActivityConsumer(reader messageReader, log logger.Logger) *ActivityConsumer {
	return &ActivityConsumer{
		reader:       reader,
		logger:       log,
		counts:       make(map[string]int),
		retryBackoff: defaultRetryBackoff,
	}
}

// Run consumes until ctx is cancelled or the reader is closed. Malformed
// messages are logged and committed so they do not block the partition.
func (c *ActivityConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("kafka reader closed: %w", err)
			}
			c.logger.Error("Failed to read message from Kafka", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryBackoff):
			}
			continue
		}

		if err := c.Handle(msg); err != nil {
			c.logger.Warn("Skipping malformed activity event",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
		}
	}
}

func (c *ActivityConsumer) Handle(msg kafka.Message) error {
	var evt service.ActivityEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return fmt.Errorf("decode activity event: %w", err)
	}
	if evt.Type == "" {
		return errors.New("activity event without type")
	}

	c.counts[evt.Type]++
	fields := []zap.Field{
		zap.String("session_id", evt.SessionID.String()),
		zap.String("event_type", evt.Type),
		zap.Time("occurred_at", evt.OccurredAt),
		zap.Int("seen", c.counts[evt.Type]),
	}
	for k, v := range evt.Detail {
		fields = append(fields, zap.String("detail."+k, v))
	}
	c.logger.Info("Builder activity", fields...)
	return nil
}

func (c *ActivityConsumer) Counts() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

func (c *ActivityConsumer) Close() error {
	return c.reader.Close()
}
