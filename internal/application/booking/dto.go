package booking

import (
	"time"

	"github.com/estate/backend/internal/domain/booking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBookingRequest represents a request to book a plot
type CreateBookingRequest struct {
	PlotID           uuid.UUID       `json:"plot_id" binding:"required"`
	CustomerID       uuid.UUID       `json:"customer_id" binding:"required"`
	TotalAmount      decimal.Decimal `json:"total_amount" binding:"required"`
	InitialPayment   decimal.Decimal `json:"initial_payment"`
	InstallmentYears int             `json:"installment_years"`
	PaymentMode      string          `json:"payment_mode" binding:"required,oneof=Full Installment"`
	PaymentMethod    string          `json:"payment_method"`
	Description      string          `json:"description"`
}

// BookingResponse represents booking data returned to clients
type BookingResponse struct {
	ID               uuid.UUID       `json:"id"`
	BookingNumber    string          `json:"booking_number"`
	SocietyID        uuid.UUID       `json:"society_id"`
	PlotID           uuid.UUID       `json:"plot_id"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	BookingDate      time.Time       `json:"booking_date"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InitialPayment   decimal.Decimal `json:"initial_payment"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	InstallmentYears int             `json:"installment_years"`
	PaymentMode      string          `json:"payment_mode"`
	Status           string          `json:"status"`
	Version          int             `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// InstallmentResponse represents installment data returned to clients
type InstallmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	BookingID       uuid.UUID       `json:"booking_id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	PlotID          uuid.UUID       `json:"plot_id"`
	Sequence        int             `json:"sequence"`
	DueDate         time.Time       `json:"due_date"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
	ReceiptNo       string          `json:"receipt_no,omitempty"`
	PaymentDate     *time.Time      `json:"payment_date,omitempty"`
}

// CreateBookingResult bundles the created booking with its schedule
type CreateBookingResult struct {
	Booking      BookingResponse       `json:"booking"`
	Installments []InstallmentResponse `json:"installments"`
}

// PlotBalanceResponse reports what is still owed against a plot
type PlotBalanceResponse struct {
	PlotID           uuid.UUID       `json:"plot_id"`
	BookingID        uuid.UUID       `json:"booking_id"`
	BookingNumber    string          `json:"booking_number"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	OpenInstallments int64           `json:"open_installments"`
	NextDueDate      *time.Time      `json:"next_due_date,omitempty"`
}

// ToBookingResponse converts a booking aggregate to a response DTO
func ToBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:               b.ID,
		BookingNumber:    b.BookingNumber,
		SocietyID:        b.SocietyID,
		PlotID:           b.PlotID,
		CustomerID:       b.CustomerID,
		BookingDate:      b.BookingDate,
		TotalAmount:      b.TotalAmount,
		InitialPayment:   b.InitialPayment,
		RemainingBalance: b.RemainingBalance,
		TotalPaid:        b.TotalPaid,
		InstallmentYears: b.InstallmentYears,
		PaymentMode:      b.PaymentMode.String(),
		Status:           b.Status.String(),
		Version:          b.Version,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// ToInstallmentResponse converts an installment aggregate to a response DTO
func ToInstallmentResponse(i *booking.Installment) InstallmentResponse {
	return InstallmentResponse{
		ID:              i.ID,
		BookingID:       i.BookingID,
		CustomerID:      i.CustomerID,
		PlotID:          i.PlotID,
		Sequence:        i.Sequence,
		DueDate:         i.DueDate,
		Amount:          i.Amount,
		PaidAmount:      i.PaidAmount,
		RemainingAmount: i.RemainingAmount,
		Status:          i.Status.String(),
		ReceiptNo:       i.ReceiptNo,
		PaymentDate:     i.PaymentDate,
	}
}

// ToInstallmentResponses converts a slice of installments
func ToInstallmentResponses(installments []booking.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, 0, len(installments))
	for idx := range installments {
		responses = append(responses, ToInstallmentResponse(&installments[idx]))
	}
	return responses
}
