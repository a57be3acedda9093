package notify

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/booking"
	"github.com/estate/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BookingCreatedHandler notifies the customer when their booking is confirmed
type BookingCreatedHandler struct {
	sink   Sink
	logger *zap.Logger
}

// NewBookingCreatedHandler creates a new handler for booking created events
func NewBookingCreatedHandler(sink Sink, logger *zap.Logger) *BookingCreatedHandler {
	return &BookingCreatedHandler{sink: sink, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *BookingCreatedHandler) EventTypes() []string {
	return []string{booking.EventTypeBookingCreated}
}

// Handle sends a booking confirmation
func (h *BookingCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*booking.BookingCreatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", booking.EventTypeBookingCreated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			booking.EventTypeBookingCreated, event.EventType())
	}

	return h.sink.Send(ctx, Notification{
		Topic:      "booking.created",
		Subject:    fmt.Sprintf("Booking %s confirmed", created.BookingNumber),
		Body:       fmt.Sprintf("Your booking %s is confirmed. Total %s, remaining balance %s.", created.BookingNumber, created.TotalAmount.StringFixed(2), created.RemainingBalance.StringFixed(2)),
		CustomerID: created.CustomerID,
	})
}
