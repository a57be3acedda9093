package ownership

import (
	"time"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResellRequest represents a plot changing hands between two customers
type ResellRequest struct {
	PlotID             uuid.UUID       `json:"plot_id" binding:"required"`
	PreviousCustomerID uuid.UUID       `json:"previous_customer_id" binding:"required"`
	NewCustomerID      uuid.UUID       `json:"new_customer_id" binding:"required"`
	Fee                decimal.Decimal `json:"fee"`
	PaymentMethod      string          `json:"payment_method"`
	Description        string          `json:"description"`
}

// ResellResponse represents a recorded resell
type ResellResponse struct {
	ID                 uuid.UUID       `json:"id"`
	SocietyID          uuid.UUID       `json:"society_id"`
	PlotID             uuid.UUID       `json:"plot_id"`
	PreviousCustomerID uuid.UUID       `json:"previous_customer_id"`
	NewCustomerID      uuid.UUID       `json:"new_customer_id"`
	ResellFee          decimal.Decimal `json:"resell_fee"`
	ResellDate         time.Time       `json:"resell_date"`
	Description        string          `json:"description,omitempty"`
	MovedInstallments  int             `json:"moved_installments"`
}

// TransferRequest represents an administrative ownership transfer
type TransferRequest struct {
	PlotID        uuid.UUID       `json:"plot_id" binding:"required"`
	PreviousOwner string          `json:"previous_owner"`
	NewOwnerID    uuid.UUID       `json:"new_owner_id" binding:"required"`
	Fee           decimal.Decimal `json:"fee"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
}

// TransferResponse represents a recorded transfer
type TransferResponse struct {
	ID            uuid.UUID       `json:"id"`
	SocietyID     uuid.UUID       `json:"society_id"`
	PlotID        uuid.UUID       `json:"plot_id"`
	PreviousOwner string          `json:"previous_owner"`
	NewOwnerID    uuid.UUID       `json:"new_owner_id"`
	TransferFee   decimal.Decimal `json:"transfer_fee"`
	TransferDate  time.Time       `json:"transfer_date"`
}

// ToResellResponse converts a resell record to a response DTO
func ToResellResponse(r *finance.PlotResell, movedInstallments int) ResellResponse {
	return ResellResponse{
		ID:                 r.ID,
		SocietyID:          r.SocietyID,
		PlotID:             r.PlotID,
		PreviousCustomerID: r.PreviousCustomerID,
		NewCustomerID:      r.NewCustomerID,
		ResellFee:          r.ResellFee,
		ResellDate:         r.ResellDate,
		Description:        r.Description,
		MovedInstallments:  movedInstallments,
	}
}

// ToTransferResponse converts a transfer record to a response DTO
func ToTransferResponse(t *finance.TransferPlot) TransferResponse {
	return TransferResponse{
		ID:            t.ID,
		SocietyID:     t.SocietyID,
		PlotID:        t.PlotID,
		PreviousOwner: t.PreviousOwner,
		NewOwnerID:    t.NewOwnerID,
		TransferFee:   t.TransferFee,
		TransferDate:  t.TransferDate,
	}
}
