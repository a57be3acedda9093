package finance

import (
	"context"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilter defines filtering options for ledger queries
type TransactionFilter struct {
	shared.Filter
	SocietyID  *uuid.UUID       // Filter by society
	CustomerID *uuid.UUID       // Filter by customer
	PlotID     *uuid.UUID       // Filter by plot
	BookingID  *uuid.UUID       // Filter by booking
	TypeCode   *string          // Filter by transaction type code
	Direction  *Direction       // Filter by direction
	FromDate   *time.Time       // Filter by transaction date range start
	ToDate     *time.Time       // Filter by transaction date range end
	MinAmount  *decimal.Decimal // Filter by minimum amount
}

// LedgerSummary aggregates ledger totals per direction
type LedgerSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
	Count        int64           `json:"count"`
}

// TransactionRepository defines the interface for the append-only ledger.
// There is deliberately no update or delete.
type TransactionRepository interface {
	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialTransaction, error)

	// FindAll finds transactions matching the filter
	FindAll(ctx context.Context, filter TransactionFilter) ([]FinancialTransaction, error)

	// FindByBooking finds all transactions attributed to a booking
	FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]FinancialTransaction, error)

	// Save appends a transaction to the ledger
	Save(ctx context.Context, t *FinancialTransaction) error

	// Summarize computes income/expense totals for the filter
	Summarize(ctx context.Context, filter TransactionFilter) (*LedgerSummary, error)

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter TransactionFilter) (int64, error)
}

// ResellRepository defines the interface for resell record persistence
type ResellRepository interface {
	// FindByID finds a resell record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PlotResell, error)

	// FindByPlot finds all resells of a plot
	FindByPlot(ctx context.Context, plotID uuid.UUID) ([]PlotResell, error)

	// FindAll finds resell records
	FindAll(ctx context.Context, filter shared.Filter) ([]PlotResell, error)

	// ExistsForPair reports whether the plot was already resold to the customer
	ExistsForPair(ctx context.Context, plotID, newCustomerID uuid.UUID) (bool, error)

	// Save creates a resell record
	Save(ctx context.Context, r *PlotResell) error
}

// TransferRepository defines the interface for transfer record persistence
type TransferRepository interface {
	// FindByID finds a transfer record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*TransferPlot, error)

	// FindByPlot finds all transfers of a plot
	FindByPlot(ctx context.Context, plotID uuid.UUID) ([]TransferPlot, error)

	// FindAll finds transfer records
	FindAll(ctx context.Context, filter shared.Filter) ([]TransferPlot, error)

	// ExistsForPair reports whether the plot was already transferred to the owner
	ExistsForPair(ctx context.Context, plotID, newOwnerID uuid.UUID) (bool, error)

	// Save creates a transfer record
	Save(ctx context.Context, t *TransferPlot) error
}
