package booking

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentStatus represents the status of an installment
type InstallmentStatus string

const (
	InstallmentStatusPending       InstallmentStatus = "Pending"       // Nothing paid yet
	InstallmentStatusPartiallyPaid InstallmentStatus = "PartiallyPaid" // Some amount paid, balance open
	InstallmentStatusCompleted     InstallmentStatus = "Completed"     // Fully paid
	InstallmentStatusOverdue       InstallmentStatus = "Overdue"       // Past due date with nothing paid
)

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentStatusPending, InstallmentStatusPartiallyPaid,
		InstallmentStatusCompleted, InstallmentStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// CanApplyPayment returns true if payments can be applied in this status.
// Overdue behaves like Pending for payment application.
func (s InstallmentStatus) CanApplyPayment() bool {
	return s == InstallmentStatusPending || s == InstallmentStatusPartiallyPaid || s == InstallmentStatusOverdue
}

// Installment represents one scheduled payment of a booking.
// Invariant: PaidAmount + RemainingAmount == Amount at all times.
type Installment struct {
	shared.SocietyAggregateRoot
	BookingID       uuid.UUID         `json:"booking_id"`
	CustomerID      uuid.UUID         `json:"customer_id"`
	PlotID          uuid.UUID         `json:"plot_id"`
	Sequence        int               `json:"sequence"`
	DueDate         time.Time         `json:"due_date"`
	Amount          decimal.Decimal   `json:"amount"`
	PaidAmount      decimal.Decimal   `json:"paid_amount"`
	RemainingAmount decimal.Decimal   `json:"remaining_amount"`
	Status          InstallmentStatus `json:"status"`
	ReceiptNo       string            `json:"receipt_no"`
	PaymentDate     *time.Time        `json:"payment_date"`
}

// NewInstallment creates a pending installment
func NewInstallment(
	societyID uuid.UUID,
	bookingID uuid.UUID,
	customerID uuid.UUID,
	plotID uuid.UUID,
	sequence int,
	dueDate time.Time,
	amount valueobject.Money,
) (*Installment, error) {
	if bookingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BOOKING", "Booking ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if plotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLOT", "Plot ID cannot be empty")
	}
	if sequence <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Installment sequence must be positive")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Installment amount must be positive")
	}

	return &Installment{
		SocietyAggregateRoot: shared.NewSocietyAggregateRoot(societyID),
		BookingID:            bookingID,
		CustomerID:           customerID,
		PlotID:               plotID,
		Sequence:             sequence,
		DueDate:              dueDate,
		Amount:               amount.Amount(),
		PaidAmount:           decimal.Zero,
		RemainingAmount:      amount.Amount(),
		Status:               InstallmentStatusPending,
	}, nil
}

// ApplyAmount applies a payment against the open balance and returns the
// unconsumed overflow. The caller decides what to do with the overflow
// (cascade to the next installment or hand it back).
func (i *Installment) ApplyAmount(amount valueobject.Money, receiptNo string) (valueobject.Money, error) {
	if !i.Status.CanApplyPayment() {
		return valueobject.ZeroPKR(), shared.NewDomainError("ALREADY_SETTLED", fmt.Sprintf("Installment %d is already fully paid", i.Sequence))
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return valueobject.ZeroPKR(), shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
	}

	applied := amount.Amount()
	if applied.GreaterThan(i.RemainingAmount) {
		applied = i.RemainingAmount
	}
	overflow := amount.Amount().Sub(applied)

	now := time.Now()
	i.PaidAmount = i.PaidAmount.Add(applied)
	i.RemainingAmount = i.Amount.Sub(i.PaidAmount)
	if receiptNo != "" {
		i.ReceiptNo = receiptNo
	}

	if i.RemainingAmount.IsZero() {
		i.Status = InstallmentStatusCompleted
		i.PaymentDate = &now
		i.AddDomainEvent(NewInstallmentSettledEvent(i, applied))
	} else {
		i.Status = InstallmentStatusPartiallyPaid
		i.AddDomainEvent(NewInstallmentPaymentAppliedEvent(i, applied))
	}

	i.UpdatedAt = now
	i.IncrementVersion()

	return valueobject.NewMoneyPKR(overflow), nil
}

// AppliedPortion returns how much of the given amount this installment
// would absorb without mutating anything.
func (i *Installment) AppliedPortion(amount valueobject.Money) valueobject.Money {
	if !i.Status.CanApplyPayment() {
		return valueobject.ZeroPKR()
	}
	if amount.Amount().GreaterThan(i.RemainingAmount) {
		return valueobject.NewMoneyPKR(i.RemainingAmount)
	}
	return amount
}

// MarkOverdue flags an unpaid installment past its due date.
// Returns false when the installment was already overdue or is not
// eligible, so repeated sweeps are idempotent.
func (i *Installment) MarkOverdue(now time.Time) bool {
	if i.Status != InstallmentStatusPending {
		return false
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !i.DueDate.Before(startOfDay) {
		return false
	}

	i.Status = InstallmentStatusOverdue
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInstallmentOverdueEvent(i))

	return true
}

// OverrideStatus applies an administrative status change. Marking an
// installment Completed while a balance is open is rejected; amounts
// only move through ApplyAmount.
func (i *Installment) OverrideStatus(status InstallmentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid installment status: %s", status))
	}
	if status == InstallmentStatusCompleted && i.RemainingAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Installment %d still has %s outstanding", i.Sequence, i.RemainingAmount.StringFixed(2)))
	}
	if i.Status == InstallmentStatusCompleted && status != InstallmentStatusCompleted {
		return shared.NewDomainError("INVALID_TRANSITION", "A settled installment cannot be reopened")
	}

	i.Status = status
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// ReassignCustomer moves an open installment to a new customer during a
// resell. Only untouched installments move; partially paid ones stay
// with the money that paid them.
func (i *Installment) ReassignCustomer(customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if i.Status != InstallmentStatusPending && i.Status != InstallmentStatusOverdue {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Installment %d in %s status cannot be reassigned", i.Sequence, i.Status))
	}

	i.CustomerID = customerID
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Helper methods

// GetAmountMoney returns the scheduled amount as Money
func (i *Installment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(i.Amount)
}

// GetPaidAmountMoney returns the paid amount as Money
func (i *Installment) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(i.PaidAmount)
}

// GetRemainingAmountMoney returns the open balance as Money
func (i *Installment) GetRemainingAmountMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(i.RemainingAmount)
}

// IsSettled returns true if the installment is fully paid
func (i *Installment) IsSettled() bool {
	return i.Status == InstallmentStatusCompleted
}

// IsBalanced verifies the paid/remaining invariant
func (i *Installment) IsBalanced() bool {
	return i.PaidAmount.Add(i.RemainingAmount).Equal(i.Amount)
}
