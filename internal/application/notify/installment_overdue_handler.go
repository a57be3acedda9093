package notify

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/booking"
	"github.com/estate/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InstallmentOverdueHandler reminds a customer about a missed installment
type InstallmentOverdueHandler struct {
	sink   Sink
	logger *zap.Logger
}

// NewInstallmentOverdueHandler creates a new handler for overdue events
func NewInstallmentOverdueHandler(sink Sink, logger *zap.Logger) *InstallmentOverdueHandler {
	return &InstallmentOverdueHandler{sink: sink, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *InstallmentOverdueHandler) EventTypes() []string {
	return []string{booking.EventTypeInstallmentOverdue}
}

// Handle sends an overdue reminder
func (h *InstallmentOverdueHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	overdue, ok := event.(*booking.InstallmentOverdueEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", booking.EventTypeInstallmentOverdue),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			booking.EventTypeInstallmentOverdue, event.EventType())
	}

	return h.sink.Send(ctx, Notification{
		Topic:      "installment.overdue",
		Subject:    fmt.Sprintf("Installment %d is overdue", overdue.Sequence),
		Body:       fmt.Sprintf("Installment %d of %s was due on %s and is now overdue.", overdue.Sequence, overdue.Amount.StringFixed(2), overdue.DueDate.Format("2006-01-02")),
		CustomerID: overdue.CustomerID,
	})
}
