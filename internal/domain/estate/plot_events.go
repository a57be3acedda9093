package estate

import (
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePlot = "Plot"

// Event type constants
const (
	EventTypePlotRegistered  = "PlotRegistered"
	EventTypePlotReserved    = "PlotReserved"
	EventTypePlotSold        = "PlotSold"
	EventTypePlotResold      = "PlotResold"
	EventTypePlotTransferred = "PlotTransferred"
)

// PlotRegisteredEvent is raised when a new plot enters the inventory
type PlotRegisteredEvent struct {
	shared.BaseDomainEvent
	PlotID     uuid.UUID       `json:"plot_id"`
	PlotNumber string          `json:"plot_number"`
	Block      string          `json:"block"`
	Price      decimal.Decimal `json:"price"`
}

// EventType returns the event type name
func (e *PlotRegisteredEvent) EventType() string {
	return EventTypePlotRegistered
}

// NewPlotRegisteredEvent creates a new PlotRegisteredEvent
func NewPlotRegisteredEvent(p *Plot) *PlotRegisteredEvent {
	return &PlotRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlotRegistered, AggregateTypePlot, p.ID, p.SocietyID),
		PlotID:          p.ID,
		PlotNumber:      p.PlotNumber,
		Block:           p.Block,
		Price:           p.Price,
	}
}

// PlotReservedEvent is raised when a plot is booked for a customer
type PlotReservedEvent struct {
	shared.BaseDomainEvent
	PlotID     uuid.UUID `json:"plot_id"`
	PlotNumber string    `json:"plot_number"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// EventType returns the event type name
func (e *PlotReservedEvent) EventType() string {
	return EventTypePlotReserved
}

// NewPlotReservedEvent creates a new PlotReservedEvent
func NewPlotReservedEvent(p *Plot, customerID uuid.UUID) *PlotReservedEvent {
	return &PlotReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlotReserved, AggregateTypePlot, p.ID, p.SocietyID),
		PlotID:          p.ID,
		PlotNumber:      p.PlotNumber,
		CustomerID:      customerID,
	}
}

// PlotSoldEvent is raised when a plot sale completes
type PlotSoldEvent struct {
	shared.BaseDomainEvent
	PlotID     uuid.UUID       `json:"plot_id"`
	PlotNumber string          `json:"plot_number"`
	CustomerID uuid.UUID       `json:"customer_id"`
	BookingID  uuid.UUID       `json:"booking_id"`
	SaleAmount decimal.Decimal `json:"sale_amount"`
}

// EventType returns the event type name
func (e *PlotSoldEvent) EventType() string {
	return EventTypePlotSold
}

// NewPlotSoldEvent creates a new PlotSoldEvent
func NewPlotSoldEvent(p *Plot, customerID, bookingID uuid.UUID, saleAmount decimal.Decimal) *PlotSoldEvent {
	return &PlotSoldEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlotSold, AggregateTypePlot, p.ID, p.SocietyID),
		PlotID:          p.ID,
		PlotNumber:      p.PlotNumber,
		CustomerID:      customerID,
		BookingID:       bookingID,
		SaleAmount:      saleAmount,
	}
}

// PlotResoldEvent is raised when a plot moves to a new owner via resell
type PlotResoldEvent struct {
	shared.BaseDomainEvent
	PlotID             uuid.UUID `json:"plot_id"`
	PlotNumber         string    `json:"plot_number"`
	PreviousCustomerID uuid.UUID `json:"previous_customer_id"`
	NewCustomerID      uuid.UUID `json:"new_customer_id"`
}

// EventType returns the event type name
func (e *PlotResoldEvent) EventType() string {
	return EventTypePlotResold
}

// NewPlotResoldEvent creates a new PlotResoldEvent
func NewPlotResoldEvent(p *Plot, previousCustomerID, newCustomerID uuid.UUID) *PlotResoldEvent {
	return &PlotResoldEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypePlotResold, AggregateTypePlot, p.ID, p.SocietyID),
		PlotID:             p.ID,
		PlotNumber:         p.PlotNumber,
		PreviousCustomerID: previousCustomerID,
		NewCustomerID:      newCustomerID,
	}
}

// PlotTransferredEvent is raised when plot ownership is transferred
type PlotTransferredEvent struct {
	shared.BaseDomainEvent
	PlotID     uuid.UUID `json:"plot_id"`
	PlotNumber string    `json:"plot_number"`
	NewOwnerID uuid.UUID `json:"new_owner_id"`
}

// EventType returns the event type name
func (e *PlotTransferredEvent) EventType() string {
	return EventTypePlotTransferred
}

// NewPlotTransferredEvent creates a new PlotTransferredEvent
func NewPlotTransferredEvent(p *Plot, newOwnerID uuid.UUID) *PlotTransferredEvent {
	return &PlotTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlotTransferred, AggregateTypePlot, p.ID, p.SocietyID),
		PlotID:          p.ID,
		PlotNumber:      p.PlotNumber,
		NewOwnerID:      newOwnerID,
	}
}
