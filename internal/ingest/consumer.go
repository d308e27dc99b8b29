package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"airwatch/internal/config"
	"airwatch/internal/logging"
	"airwatch/internal/metrics"
	"airwatch/internal/models"
	"airwatch/internal/readings"
)

const readBackoff = 5 * time.Second

// Evaluator re-runs threshold evaluation after a new reading lands.
type Evaluator interface {
	RecalculateAll(ctx context.Context) error
}

// Broadcaster pushes the raw reading to live subscribers.
type Broadcaster interface {
	SendReading(r models.Reading)
}

// Consumer reads sensor CSV payloads off Kafka and drives the
// ingestion pipeline: parse, cache, broadcast, re-evaluate.
type Consumer struct {
	reader    *kafka.Reader
	cache     *readings.Cache
	evaluator Evaluator
	broadcast Broadcaster
	logger    *logging.Logger
}

func NewConsumer(cfg config.KafkaConfig, cache *readings.Cache, evaluator Evaluator, broadcast Broadcaster, logger *logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{cfg.Broker},
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    1e6,
		MaxWait:     time.Second,
		StartOffset: kafka.LastOffset,
		Dialer: &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
		},
	})
	return &Consumer{
		reader:    reader,
		cache:     cache,
		evaluator: evaluator,
		broadcast: broadcast,
		logger:    logger,
	}
}

// Run consumes until ctx is cancelled. Malformed payloads are counted
// and skipped; read errors back off and retry so a broker restart does
// not kill ingestion.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Infof("Sensor consumer started (topic=%s)", c.reader.Config().Topic)
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.logger.Infof("Sensor consumer stopped")
				return
			}
			c.logger.Errorf("Failed to read sensor message: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(readBackoff):
			}
			continue
		}

		c.handle(ctx, string(msg.Value))
	}
}

func (c *Consumer) handle(ctx context.Context, payload string) {
	r, err := ParseReading(payload)
	if err != nil {
		metrics.ReadingsRejected.WithLabelValues("parse").Inc()
		c.logger.Errorf("Rejected sensor payload %q: %v", payload, err)
		return
	}
	metrics.ReadingsIngested.Inc()

	c.cache.Set(r)
	c.broadcast.SendReading(r)

	if err := c.evaluator.RecalculateAll(ctx); err != nil {
		c.logger.Errorf("Evaluation after ingestion failed: %v", err)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
