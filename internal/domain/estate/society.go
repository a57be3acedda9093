package estate

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
)

// Society represents a housing society aggregate root.
// Societies partition the whole system: plots, bookings and ledger
// entries all carry the ID of exactly one society.
type Society struct {
	shared.BaseAggregateRoot
	Name     string `json:"name"`
	Location string `json:"location"`
}

// NewSociety creates a new housing society
func NewSociety(name, location string) (*Society, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Society name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Society name cannot exceed 100 characters")
	}

	return &Society{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Location:          location,
	}, nil
}

// Rename changes the society name
func (s *Society) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Society name cannot be empty")
	}
	s.Name = name
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Relocate updates the society location
func (s *Society) Relocate(location string) {
	s.Location = location
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
