package partner

import (
	"context"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByCNIC finds a customer by national identity number
	FindByCNIC(ctx context.Context, cnic string) (*Customer, error)

	// FindBySociety finds customers holding membership in a society
	FindBySociety(ctx context.Context, societyID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// FindAll finds customers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, c *Customer) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, c *Customer) error

	// Delete soft deletes a customer
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
