package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// notificationEvent is the payload consumed by the downstream mail relay.
type notificationEvent struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sentAt"`
}

// KafkaMailer publishes messages to a topic for an external mail relay.
type KafkaMailer struct {
	writer messageWriter
	topic  string
	from   string
}

// NewKafkaMailer constructs a producer writing to topic.
func NewKafkaMailer(brokers []string, topic, from string) *KafkaMailer {
	return &KafkaMailer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		topic: topic,
		from:  from,
	}
}

// Send publishes the message keyed by recipient so per-recipient ordering is preserved.
func (m *KafkaMailer) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(notificationEvent{
		From:    m.from,
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := m.writer.WriteMessages(ctx, kafka.Message{
		Topic: m.topic,
		Key:   []byte(msg.To),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (m *KafkaMailer) Close() error {
	return m.writer.Close()
}
