package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/portfolio-builder/internal/application/service"
	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes activity events to the builder topic, keyed by
// session so one session's events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	logger logger.Logger
}

func NewKafkaPublisher(cfg config.Config, log logger.Logger) (*KafkaPublisher, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Error("Kafka delivery failed", err)
			}
		},
	}

	log.Info("Initialize Kafka publisher successfully.")
	return &KafkaPublisher{writer: writer, logger: log}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt service.ActivityEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode activity event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.SessionID.String()),
		Value: payload,
		Time:  evt.OccurredAt,
	})
}

func (p *KafkaPublisher) Close() {
	if p.writer != nil {
		if err := p.writer.Close(); err != nil {
			p.logger.Error("Close Kafka publisher failed", err)
			return
		}
	}
	p.logger.Info("Closed Kafka publisher")
}
