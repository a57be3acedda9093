package ledger

import (
	"time"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApplyPaymentRequest represents an installment payment against a booking
type ApplyPaymentRequest struct {
	BookingID     uuid.UUID       `json:"booking_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	ReceiptNo     string          `json:"receipt_no"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
}

// ApplyInstallmentPaymentRequest targets a payment at one named
// installment. The installment ID comes from the URL path, not the body.
type ApplyInstallmentPaymentRequest struct {
	InstallmentID uuid.UUID       `json:"-"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	ReceiptNo     string          `json:"receipt_no"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
}

// InstallmentApplication reports how much of a payment one installment absorbed
type InstallmentApplication struct {
	InstallmentID uuid.UUID       `json:"installment_id"`
	Sequence      int             `json:"sequence"`
	Applied       decimal.Decimal `json:"applied"`
	Remaining     decimal.Decimal `json:"remaining"`
	Status        string          `json:"status"`
}

// PaymentResult is the outcome of an applied payment
type PaymentResult struct {
	BookingID        uuid.UUID                `json:"booking_id"`
	AppliedAmount    decimal.Decimal          `json:"applied_amount"`
	UnappliedAmount  decimal.Decimal          `json:"unapplied_amount"`
	Applications     []InstallmentApplication `json:"applications"`
	BookingCompleted bool                     `json:"booking_completed"`
}

// RecordTransactionRequest represents a direct ledger entry outside the
// installment flow (salaries, office expenses, scholarships)
type RecordTransactionRequest struct {
	SocietyID     uuid.UUID       `json:"society_id" binding:"required"`
	CustomerID    *uuid.UUID      `json:"customer_id"`
	PlotID        *uuid.UUID      `json:"plot_id"`
	BookingID     *uuid.UUID      `json:"booking_id"`
	EmployeeID    *uuid.UUID      `json:"employee_id"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Type          string          `json:"type" binding:"required"`
	Direction     string          `json:"direction" binding:"required,oneof=Income Expense"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
	ReceiptNo     string          `json:"receipt_no"`
}

// TransactionResponse represents one ledger row returned to clients
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	SocietyID       uuid.UUID       `json:"society_id"`
	CustomerID      *uuid.UUID      `json:"customer_id,omitempty"`
	PlotID          *uuid.UUID      `json:"plot_id,omitempty"`
	BookingID       *uuid.UUID      `json:"booking_id,omitempty"`
	EmployeeID      *uuid.UUID      `json:"employee_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"`
	Direction       string          `json:"direction"`
	PaymentMethod   string          `json:"payment_method"`
	Status          string          `json:"status"`
	TransactionDate time.Time       `json:"transaction_date"`
	Description     string          `json:"description,omitempty"`
	ReceiptNo       string          `json:"receipt_no,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OverdueInstallment is one overdue schedule entry reported by a sweep
type OverdueInstallment struct {
	InstallmentID uuid.UUID       `json:"installment_id"`
	BookingID     uuid.UUID       `json:"booking_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	PlotID        uuid.UUID       `json:"plot_id"`
	Sequence      int             `json:"sequence"`
	DueDate       time.Time       `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// SweepResult reports the outcome of an overdue sweep. Installments
// holds the full overdue set, not just the newly flagged rows, so two
// sweeps with no time advance report the same set.
type SweepResult struct {
	SweptCount   int                  `json:"swept_count"`
	Cutoff       time.Time            `json:"cutoff"`
	PlotID       *uuid.UUID           `json:"plot_id,omitempty"`
	Installments []OverdueInstallment `json:"installments"`
}

// ToTransactionResponse converts a ledger row to a response DTO
func ToTransactionResponse(t *finance.FinancialTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		SocietyID:       t.SocietyID,
		CustomerID:      t.CustomerID,
		PlotID:          t.PlotID,
		BookingID:       t.BookingID,
		EmployeeID:      t.EmployeeID,
		Amount:          t.Amount,
		Type:            t.Type.String(),
		Direction:       t.Direction.String(),
		PaymentMethod:   t.PaymentMethod,
		Status:          t.Status,
		TransactionDate: t.TransactionDate,
		Description:     t.Description,
		ReceiptNo:       t.ReceiptNo,
		CreatedAt:       t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of ledger rows
func ToTransactionResponses(transactions []finance.FinancialTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(transactions))
	for idx := range transactions {
		responses = append(responses, ToTransactionResponse(&transactions[idx]))
	}
	return responses
}
