package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification is one outbound message to a customer or operator
type Notification struct {
	Topic      string    `json:"topic"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	CustomerID uuid.UUID `json:"customer_id,omitempty"`
}

// Sink delivers notifications. Implementations may send SMS, email or
// push messages; the log sink is the default for environments without
// a delivery channel.
type Sink interface {
	Send(ctx context.Context, n Notification) error
}

// LogSink writes notifications to the structured log
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a new LogSink
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Send logs the notification
func (s *LogSink) Send(_ context.Context, n Notification) error {
	s.logger.Info("notification",
		zap.String("topic", n.Topic),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body),
		zap.String("customer_id", n.CustomerID.String()),
	)
	return nil
}
