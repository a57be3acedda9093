package partner

import (
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constant
const EventTypeCustomerRegistered = "CustomerRegistered"

// CustomerRegisteredEvent is raised when a customer profile is created
type CustomerRegisteredEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	CNIC       string    `json:"cnic"`
}

// EventType returns the event type name
func (e *CustomerRegisteredEvent) EventType() string {
	return EventTypeCustomerRegistered
}

// NewCustomerRegisteredEvent creates a new CustomerRegisteredEvent
func NewCustomerRegisteredEvent(c *Customer) *CustomerRegisteredEvent {
	return &CustomerRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerRegistered, AggregateTypeCustomer, c.ID, uuid.Nil),
		CustomerID:      c.ID,
		Name:            c.Name,
		CNIC:            c.Contact.CNIC(),
	}
}
