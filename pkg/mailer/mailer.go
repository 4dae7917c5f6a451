// Package mailer delivers outbound notifications to an external sink.
package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/makeup-api/pkg/config"
)

// Message is a single plain-text notification.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer attempts delivery of a message. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

// New builds the mailer selected by cfg.Driver.
func New(cfg config.NotificationConfig, logger *zap.Logger) (Mailer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case config.NotifyDriverSendgrid:
		if cfg.SendgridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid driver requires SENDGRID_API_KEY")
		}
		return NewSendgridMailer(cfg.SendgridAPIKey, cfg.FromName, cfg.FromEmail), nil
	case config.NotifyDriverKafka:
		if len(cfg.KafkaBrokers) == 0 || cfg.KafkaTopic == "" {
			return nil, fmt.Errorf("kafka driver requires KAFKA_BROKERS and KAFKA_NOTIFY_TOPIC")
		}
		return NewKafkaMailer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.FromEmail), nil
	case config.NotifyDriverLog, "":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unsupported notification driver %q", cfg.Driver)
	}
}
