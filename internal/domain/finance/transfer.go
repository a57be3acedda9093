package finance

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPreviousOwner is recorded when a transfer has no named
// previous owner, e.g. plots transferred out of society stock.
const DefaultPreviousOwner = "Admin"

// TransferPlot records one ownership transfer of a plot.
// The pair (plot, new owner) is unique.
type TransferPlot struct {
	shared.SocietyAggregateRoot
	PlotID        uuid.UUID       `json:"plot_id"`
	PreviousOwner string          `json:"previous_owner"`
	NewOwnerID    uuid.UUID       `json:"new_owner_id"`
	TransferFee   decimal.Decimal `json:"transfer_fee"`
	TransferDate  time.Time       `json:"transfer_date"`
}

// NewTransferPlot creates a transfer record
func NewTransferPlot(
	societyID uuid.UUID,
	plotID uuid.UUID,
	previousOwner string,
	newOwnerID uuid.UUID,
	fee valueobject.Money,
) (*TransferPlot, error) {
	if societyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOCIETY", "Society ID cannot be empty")
	}
	if plotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLOT", "Plot ID cannot be empty")
	}
	if newOwnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "New owner ID cannot be empty")
	}
	if fee.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transfer fee cannot be negative")
	}

	if previousOwner == "" {
		previousOwner = DefaultPreviousOwner
	}

	return &TransferPlot{
		SocietyAggregateRoot: shared.NewSocietyAggregateRoot(societyID),
		PlotID:               plotID,
		PreviousOwner:        previousOwner,
		NewOwnerID:           newOwnerID,
		TransferFee:          fee.Amount(),
		TransferDate:         time.Now(),
	}, nil
}

// GetFeeMoney returns the transfer fee as Money
func (t *TransferPlot) GetFeeMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(t.TransferFee)
}
