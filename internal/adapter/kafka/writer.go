// Package kafka mirrors rendered alerts to a Kafka topic for downstream
// consumers.
package kafka

import (
	"context"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Writer implements poller.Notifier by producing each alert message to the
// configured topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the alert topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Send publishes one alert to the topic.
func (w *Writer) Send(ctx context.Context, text string) error {
	return w.writer.WriteMessages(ctx, alertMessage(text, time.Now()))
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// alertMessage wraps a rendered alert in a Kafka message. Alerts are
// unkeyed: ordering across events does not matter to consumers, and
// unkeyed messages balance across partitions.
func alertMessage(text string, at time.Time) kafkago.Message {
	return kafkago.Message{
		Value: []byte(text),
		Time:  at,
		Headers: []kafkago.Header{
			{Key: "content_type", Value: []byte("text/plain; charset=utf-8")},
		},
	}
}
