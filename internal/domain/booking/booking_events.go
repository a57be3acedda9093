package booking

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeBooking     = "Booking"
	AggregateTypeInstallment = "Installment"
)

// Event type constants
const (
	EventTypeBookingCreated            = "BookingCreated"
	EventTypeAllInstallmentsSettled    = "AllInstallmentsSettled"
	EventTypeInstallmentPaymentApplied = "InstallmentPaymentApplied"
	EventTypeInstallmentSettled        = "InstallmentSettled"
	EventTypeInstallmentOverdue        = "InstallmentOverdue"
)

// BookingCreatedEvent is raised when a booking is created
type BookingCreatedEvent struct {
	shared.BaseDomainEvent
	BookingID        uuid.UUID       `json:"booking_id"`
	BookingNumber    string          `json:"booking_number"`
	PlotID           uuid.UUID       `json:"plot_id"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InitialPayment   decimal.Decimal `json:"initial_payment"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	PaymentMode      PaymentMode     `json:"payment_mode"`
}

// EventType returns the event type name
func (e *BookingCreatedEvent) EventType() string {
	return EventTypeBookingCreated
}

// NewBookingCreatedEvent creates a new BookingCreatedEvent
func NewBookingCreatedEvent(b *Booking) *BookingCreatedEvent {
	return &BookingCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeBookingCreated, AggregateTypeBooking, b.ID, b.SocietyID),
		BookingID:        b.ID,
		BookingNumber:    b.BookingNumber,
		PlotID:           b.PlotID,
		CustomerID:       b.CustomerID,
		TotalAmount:      b.TotalAmount,
		InitialPayment:   b.InitialPayment,
		RemainingBalance: b.RemainingBalance,
		PaymentMode:      b.PaymentMode,
	}
}

// AllInstallmentsSettledEvent is raised exactly once per booking, when
// the payment that clears the last open installment commits
type AllInstallmentsSettledEvent struct {
	shared.BaseDomainEvent
	BookingID     uuid.UUID       `json:"booking_id"`
	BookingNumber string          `json:"booking_number"`
	PlotID        uuid.UUID       `json:"plot_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
}

// EventType returns the event type name
func (e *AllInstallmentsSettledEvent) EventType() string {
	return EventTypeAllInstallmentsSettled
}

// NewAllInstallmentsSettledEvent creates a new AllInstallmentsSettledEvent
func NewAllInstallmentsSettledEvent(b *Booking) *AllInstallmentsSettledEvent {
	return &AllInstallmentsSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAllInstallmentsSettled, AggregateTypeBooking, b.ID, b.SocietyID),
		BookingID:       b.ID,
		BookingNumber:   b.BookingNumber,
		PlotID:          b.PlotID,
		CustomerID:      b.CustomerID,
		TotalPaid:       b.TotalPaid,
	}
}

// InstallmentPaymentAppliedEvent is raised when a payment covers part of
// an installment without settling it
type InstallmentPaymentAppliedEvent struct {
	shared.BaseDomainEvent
	InstallmentID uuid.UUID       `json:"installment_id"`
	BookingID     uuid.UUID       `json:"booking_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Sequence      int             `json:"sequence"`
	AppliedAmount decimal.Decimal `json:"applied_amount"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// EventType returns the event type name
func (e *InstallmentPaymentAppliedEvent) EventType() string {
	return EventTypeInstallmentPaymentApplied
}

// NewInstallmentPaymentAppliedEvent creates a new InstallmentPaymentAppliedEvent
func NewInstallmentPaymentAppliedEvent(i *Installment, applied decimal.Decimal) *InstallmentPaymentAppliedEvent {
	return &InstallmentPaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInstallmentPaymentApplied, AggregateTypeInstallment, i.ID, i.SocietyID),
		InstallmentID:   i.ID,
		BookingID:       i.BookingID,
		CustomerID:      i.CustomerID,
		Sequence:        i.Sequence,
		AppliedAmount:   applied,
		Remaining:       i.RemainingAmount,
	}
}

// InstallmentSettledEvent is raised when an installment becomes fully paid
type InstallmentSettledEvent struct {
	shared.BaseDomainEvent
	InstallmentID uuid.UUID       `json:"installment_id"`
	BookingID     uuid.UUID       `json:"booking_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Sequence      int             `json:"sequence"`
	AppliedAmount decimal.Decimal `json:"applied_amount"`
	PaymentDate   *time.Time      `json:"payment_date"`
}

// EventType returns the event type name
func (e *InstallmentSettledEvent) EventType() string {
	return EventTypeInstallmentSettled
}

// NewInstallmentSettledEvent creates a new InstallmentSettledEvent
func NewInstallmentSettledEvent(i *Installment, applied decimal.Decimal) *InstallmentSettledEvent {
	return &InstallmentSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInstallmentSettled, AggregateTypeInstallment, i.ID, i.SocietyID),
		InstallmentID:   i.ID,
		BookingID:       i.BookingID,
		CustomerID:      i.CustomerID,
		Sequence:        i.Sequence,
		AppliedAmount:   applied,
		PaymentDate:     i.PaymentDate,
	}
}

// InstallmentOverdueEvent is raised when the sweep marks an installment overdue
type InstallmentOverdueEvent struct {
	shared.BaseDomainEvent
	InstallmentID uuid.UUID       `json:"installment_id"`
	BookingID     uuid.UUID       `json:"booking_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	PlotID        uuid.UUID       `json:"plot_id"`
	Sequence      int             `json:"sequence"`
	DueDate       time.Time       `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *InstallmentOverdueEvent) EventType() string {
	return EventTypeInstallmentOverdue
}

// NewInstallmentOverdueEvent creates a new InstallmentOverdueEvent
func NewInstallmentOverdueEvent(i *Installment) *InstallmentOverdueEvent {
	return &InstallmentOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInstallmentOverdue, AggregateTypeInstallment, i.ID, i.SocietyID),
		InstallmentID:   i.ID,
		BookingID:       i.BookingID,
		CustomerID:      i.CustomerID,
		PlotID:          i.PlotID,
		Sequence:        i.Sequence,
		DueDate:         i.DueDate,
		Amount:          i.Amount,
	}
}
