package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/rain-gauge-etl/internal/config"
	"github.com/couchcryptid/rain-gauge-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes each reading to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured readings topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Load publishes result as a single message keyed by station and date, so
// reruns for the same day land on the same partition.
func (w *Writer) Load(ctx context.Context, result domain.Result) error {
	msg, err := serializeToMessage(result)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish reading: %w", err)
	}
	w.logger.Debug("reading published", "topic", w.writer.Topic, "key", string(msg.Key))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage encodes a Result as a Kafka message whose value is
// byte-identical to the output file.
func serializeToMessage(result domain.Result) (kafkago.Message, error) {
	data, err := result.Reading.Encode()
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize rain reading: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey(result)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station", Value: []byte(result.Station)},
			{Key: "source_url", Value: []byte(result.SourceURL)},
			{Key: "extracted_at", Value: []byte(result.ExtractedAt.Format(time.RFC3339))},
		},
	}, nil
}

func messageKey(result domain.Result) string {
	return result.Station + "|" + result.Reading.Date
}
