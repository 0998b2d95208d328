package kafka

import (
	"context"
	"log/slog"
	"sort"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/lidarlab/ceilo-ingest/internal/config"
	"github.com/lidarlab/ceilo-ingest/internal/pipeline"
)

// Writer produces screened-profile products to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		// Products carry full backscatter matrices; allow big messages
		// to batch poorly rather than fail.
		BatchSize: 4,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes multiple products to the sink topic in a single
// WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, events []pipeline.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	return w.writer.WriteMessages(ctx, toMessages(events)...)
}

// toMessages maps output events onto Kafka messages. Header order is sorted
// so message bytes are reproducible.
func toMessages(events []pipeline.OutputEvent) []kafkago.Message {
	msgs := make([]kafkago.Message, len(events))
	for i, event := range events {
		keys := make([]string, 0, len(event.Headers))
		for k := range event.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		headers := make([]kafkago.Header, 0, len(keys))
		for _, k := range keys {
			headers = append(headers, kafkago.Header{Key: k, Value: []byte(event.Headers[k])})
		}
		msgs[i] = kafkago.Message{
			Key:     event.Key,
			Value:   event.Value,
			Headers: headers,
		}
	}
	return msgs
}

func (w *Writer) Close() error {
	return w.writer.Close()
}
