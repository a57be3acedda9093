package estate

import (
	"context"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PlotFilter defines filtering options for plot queries
type PlotFilter struct {
	shared.Filter
	SocietyID    *uuid.UUID    // Filter by society
	Block        *string       // Filter by block
	Status       *PlotStatus   // Filter by sale status
	BookingState *BookingState // Filter by booking state
	Category     *PlotCategory // Filter by category
	PlotType     *PlotType     // Filter by zoning
	CustomerID   *uuid.UUID    // Filter by owner
}

// PlotRepository defines the interface for plot persistence
type PlotRepository interface {
	// FindByID finds a plot by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Plot, error)

	// FindByNumber finds a plot by its number within a society
	FindByNumber(ctx context.Context, societyID uuid.UUID, plotNumber string) (*Plot, error)

	// FindAll finds plots matching the filter
	FindAll(ctx context.Context, filter PlotFilter) ([]Plot, error)

	// FindByCustomer finds all plots owned by a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Plot, error)

	// Save creates or updates a plot
	Save(ctx context.Context, plot *Plot) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, plot *Plot) error

	// ReserveAtomically claims the plot for a booking with a conditional
	// update on the booking state. Exactly one of two concurrent callers
	// succeeds; the loser gets a conflict error.
	ReserveAtomically(ctx context.Context, plot *Plot) error

	// Delete soft deletes a plot
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts plots matching the filter
	Count(ctx context.Context, filter PlotFilter) (int64, error)
}

// SocietyRepository defines the interface for society persistence
type SocietyRepository interface {
	// FindByID finds a society by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Society, error)

	// FindByName finds a society by its unique name
	FindByName(ctx context.Context, name string) (*Society, error)

	// FindAll finds societies matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Society, error)

	// Save creates or updates a society
	Save(ctx context.Context, society *Society) error

	// Delete soft deletes a society and cascades over its plots
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts societies
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
