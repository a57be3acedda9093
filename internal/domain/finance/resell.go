package finance

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlotResell records one resale of a plot between customers.
// The pair (plot, new customer) is unique: the same buyer cannot be
// recorded twice for the same plot.
type PlotResell struct {
	shared.SocietyAggregateRoot
	PlotID             uuid.UUID       `json:"plot_id"`
	PreviousCustomerID uuid.UUID       `json:"previous_customer_id"`
	NewCustomerID      uuid.UUID       `json:"new_customer_id"`
	ResellFee          decimal.Decimal `json:"resell_fee"`
	ResellDate         time.Time       `json:"resell_date"`
	Description        string          `json:"description"`
}

// NewPlotResell creates a resell record
func NewPlotResell(
	societyID uuid.UUID,
	plotID uuid.UUID,
	previousCustomerID uuid.UUID,
	newCustomerID uuid.UUID,
	fee valueobject.Money,
	description string,
) (*PlotResell, error) {
	if societyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOCIETY", "Society ID cannot be empty")
	}
	if plotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLOT", "Plot ID cannot be empty")
	}
	if previousCustomerID == uuid.Nil || newCustomerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Both customers are required for a resell")
	}
	if previousCustomerID == newCustomerID {
		return nil, shared.NewDomainError("SAME_PARTY", "Previous and new owner must differ")
	}
	if fee.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Resell fee cannot be negative")
	}

	return &PlotResell{
		SocietyAggregateRoot: shared.NewSocietyAggregateRoot(societyID),
		PlotID:               plotID,
		PreviousCustomerID:   previousCustomerID,
		NewCustomerID:        newCustomerID,
		ResellFee:            fee.Amount(),
		ResellDate:           time.Now(),
		Description:          description,
	}, nil
}

// GetFeeMoney returns the resell fee as Money
func (r *PlotResell) GetFeeMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(r.ResellFee)
}
