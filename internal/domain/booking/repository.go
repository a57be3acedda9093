package booking

import (
	"context"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BookingFilter defines filtering options for booking queries
type BookingFilter struct {
	shared.Filter
	SocietyID  *uuid.UUID     // Filter by society
	PlotID     *uuid.UUID     // Filter by plot
	CustomerID *uuid.UUID     // Filter by customer
	Status     *BookingStatus // Filter by status
	FromDate   *time.Time     // Filter by booking date range start
	ToDate     *time.Time     // Filter by booking date range end
	Mode       *PaymentMode   // Filter by payment mode
}

// BookingRepository defines the interface for booking persistence
type BookingRepository interface {
	// FindByID finds a booking by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber finds a booking by its booking number
	FindByNumber(ctx context.Context, bookingNumber string) (*Booking, error)

	// FindActiveByPlot finds the Booked booking for a plot, if any
	FindActiveByPlot(ctx context.Context, plotID uuid.UUID) (*Booking, error)

	// FindAll finds bookings matching the filter
	FindAll(ctx context.Context, filter BookingFilter) ([]Booking, error)

	// Save creates or updates a booking
	Save(ctx context.Context, b *Booking) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, b *Booking) error

	// Count counts bookings matching the filter
	Count(ctx context.Context, filter BookingFilter) (int64, error)

	// NextBookingNumber atomically draws the next booking number from the
	// per-society sequence
	NextBookingNumber(ctx context.Context, societyID uuid.UUID) (string, error)
}

// InstallmentFilter defines filtering options for installment queries
type InstallmentFilter struct {
	shared.Filter
	SocietyID  *uuid.UUID         // Filter by society
	BookingID  *uuid.UUID         // Filter by booking
	CustomerID *uuid.UUID         // Filter by customer
	PlotID     *uuid.UUID         // Filter by plot
	Status     *InstallmentStatus // Filter by status
	DueBefore  *time.Time         // Filter by due date upper bound
}

// InstallmentRepository defines the interface for installment persistence
type InstallmentRepository interface {
	// FindByID finds an installment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Installment, error)

	// FindByBooking finds all installments of a booking ordered by sequence
	FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]Installment, error)

	// FindOpenByBooking finds the unsettled installments of a booking
	// ordered by sequence. Used by the overflow cascade.
	FindOpenByBooking(ctx context.Context, bookingID uuid.UUID) ([]Installment, error)

	// FindByCustomer finds installments for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter InstallmentFilter) ([]Installment, error)

	// FindByPlot finds installments for a plot
	FindByPlot(ctx context.Context, plotID uuid.UUID, filter InstallmentFilter) ([]Installment, error)

	// FindDueForSweep finds the installments an overdue sweep reports:
	// due before the cutoff and unpaid, whether still Pending or
	// already flagged Overdue
	FindDueForSweep(ctx context.Context, cutoff time.Time, plotID *uuid.UUID) ([]Installment, error)

	// FindPendingByPlotAndCustomer finds the untouched installments a
	// resell moves to the new owner
	FindPendingByPlotAndCustomer(ctx context.Context, plotID, customerID uuid.UUID) ([]Installment, error)

	// SaveAll persists a batch of installments
	SaveAll(ctx context.Context, installments []*Installment) error

	// Save creates or updates an installment
	Save(ctx context.Context, inst *Installment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, inst *Installment) error

	// CountOpenByBooking counts unsettled installments of a booking
	CountOpenByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error)

	// Count counts installments matching the filter
	Count(ctx context.Context, filter InstallmentFilter) (int64, error)
}
