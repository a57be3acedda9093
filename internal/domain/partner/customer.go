package partner

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// UUIDList is a set-like list of IDs stored as JSONB.
// Appends are idempotent; order of first insertion is preserved.
type UUIDList []uuid.UUID

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *UUIDList) Scan(value interface{}) error {
	if value == nil {
		*l = UUIDList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan UUIDList: unsupported type")
	}

	if len(bytes) == 0 {
		*l = UUIDList{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Contains reports membership
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Append adds the ID if absent and reports whether the list changed
func (l *UUIDList) Append(id uuid.UUID) bool {
	if l.Contains(id) {
		return false
	}
	*l = append(*l, id)
	return true
}

// Remove drops the ID if present and reports whether the list changed
func (l *UUIDList) Remove(id uuid.UUID) bool {
	for i, v := range *l {
		if v == id {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

// Customer represents a plot buyer aggregate root.
// A customer can hold plots across several societies; both memberships
// are tracked here so listings never need a join fan-out.
type Customer struct {
	shared.BaseAggregateRoot
	Name       string              `json:"name"`
	Contact    valueobject.Contact `json:"contact"`
	SocietyIDs UUIDList            `json:"society_ids"`
	PlotIDs    UUIDList            `json:"plot_ids"`
}

// NewCustomer creates a new customer profile
func NewCustomer(name string, contact valueobject.Contact) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 100 characters")
	}
	if contact.IsZero() {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Customer contact details are required")
	}

	c := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Contact:           contact,
		SocietyIDs:        UUIDList{},
		PlotIDs:           UUIDList{},
	}

	c.AddDomainEvent(NewCustomerRegisteredEvent(c))

	return c, nil
}

// JoinSociety records membership in a society. Idempotent.
func (c *Customer) JoinSociety(societyID uuid.UUID) error {
	if societyID == uuid.Nil {
		return shared.NewDomainError("INVALID_SOCIETY", "Society ID cannot be empty")
	}
	if c.SocietyIDs.Append(societyID) {
		c.UpdatedAt = time.Now()
		c.IncrementVersion()
	}
	return nil
}

// AddPlot records plot ownership. Idempotent.
func (c *Customer) AddPlot(plotID uuid.UUID) error {
	if plotID == uuid.Nil {
		return shared.NewDomainError("INVALID_PLOT", "Plot ID cannot be empty")
	}
	if c.PlotIDs.Append(plotID) {
		c.UpdatedAt = time.Now()
		c.IncrementVersion()
	}
	return nil
}

// RemovePlot drops plot ownership, used when a plot is resold away
func (c *Customer) RemovePlot(plotID uuid.UUID) {
	if c.PlotIDs.Remove(plotID) {
		c.UpdatedAt = time.Now()
		c.IncrementVersion()
	}
}

// UpdateContact replaces the contact details
func (c *Customer) UpdateContact(contact valueobject.Contact) error {
	if contact.IsZero() {
		return shared.NewDomainError("INVALID_CONTACT", "Customer contact details are required")
	}
	c.Contact = contact
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Rename changes the customer name
func (c *Customer) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// OwnsPlot reports whether the customer holds the plot
func (c *Customer) OwnsPlot(plotID uuid.UUID) bool {
	return c.PlotIDs.Contains(plotID)
}
