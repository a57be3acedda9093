package notify

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/booking"
	"github.com/estate/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BookingSettledHandler congratulates a customer when an installment
// settles and when the whole schedule clears
type BookingSettledHandler struct {
	sink   Sink
	logger *zap.Logger
}

// NewBookingSettledHandler creates a new handler for settlement events
func NewBookingSettledHandler(sink Sink, logger *zap.Logger) *BookingSettledHandler {
	return &BookingSettledHandler{sink: sink, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *BookingSettledHandler) EventTypes() []string {
	return []string{
		booking.EventTypeInstallmentSettled,
		booking.EventTypeAllInstallmentsSettled,
	}
}

// Handle sends a settlement notice
func (h *BookingSettledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *booking.InstallmentSettledEvent:
		return h.sink.Send(ctx, Notification{
			Topic:      "installment.settled",
			Subject:    fmt.Sprintf("Installment %d paid", e.Sequence),
			Body:       fmt.Sprintf("Installment %d is fully paid. Thank you.", e.Sequence),
			CustomerID: e.CustomerID,
		})
	case *booking.AllInstallmentsSettledEvent:
		return h.sink.Send(ctx, Notification{
			Topic:      "booking.completed",
			Subject:    fmt.Sprintf("Booking %s fully paid", e.BookingNumber),
			Body:       fmt.Sprintf("All installments of booking %s are settled. Total paid %s. The plot is now yours.", e.BookingNumber, e.TotalPaid.StringFixed(2)),
			CustomerID: e.CustomerID,
		})
	default:
		h.logger.Error("unexpected event type", zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}
