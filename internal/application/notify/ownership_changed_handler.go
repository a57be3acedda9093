package notify

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/estate"
	"github.com/estate/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OwnershipChangedHandler informs the new owner when a plot changes hands,
// whether through a resell or a direct transfer
type OwnershipChangedHandler struct {
	sink   Sink
	logger *zap.Logger
}

// NewOwnershipChangedHandler creates a new handler for ownership change events
func NewOwnershipChangedHandler(sink Sink, logger *zap.Logger) *OwnershipChangedHandler {
	return &OwnershipChangedHandler{sink: sink, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OwnershipChangedHandler) EventTypes() []string {
	return []string{estate.EventTypePlotResold, estate.EventTypePlotTransferred}
}

// Handle sends an ownership change notice to the new owner
func (h *OwnershipChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *estate.PlotResoldEvent:
		return h.sink.Send(ctx, Notification{
			Topic:      "ownership.resold",
			Subject:    fmt.Sprintf("Plot %s is now yours", e.PlotNumber),
			Body:       fmt.Sprintf("Plot %s has been resold to you by its previous owner.", e.PlotNumber),
			CustomerID: e.NewCustomerID,
		})
	case *estate.PlotTransferredEvent:
		return h.sink.Send(ctx, Notification{
			Topic:      "ownership.transferred",
			Subject:    fmt.Sprintf("Plot %s has been transferred to you", e.PlotNumber),
			Body:       fmt.Sprintf("Ownership of plot %s has been transferred to your account.", e.PlotNumber),
			CustomerID: e.NewOwnerID,
		})
	default:
		h.logger.Error("unexpected event type",
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}
