package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-data-etl-service/internal/config"
	"github.com/couchcryptid/quake-data-etl-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces normalized quake records to a Kafka topic.
// It implements pipeline.BatchExporter.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// ExportBatch serializes and publishes records in a single WriteMessages call.
func (w *Writer) ExportBatch(ctx context.Context, records []domain.NormalizedRecord, analyzedAt time.Time) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], analyzedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	w.logger.Debug("writing records", "topic", w.writer.Topic, "count", len(msgs))
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a NormalizedRecord into a Kafka message keyed
// by its deterministic ID, so partitions stay stable across re-exports.
func serializeToMessage(record domain.NormalizedRecord, analyzedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize quake record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(record.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "bucket", Value: []byte(record.Bucket)},
			{Key: "analyzed_at", Value: []byte(analyzedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
