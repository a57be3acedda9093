package booking

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMode represents how a booking is paid
type PaymentMode string

const (
	PaymentModeFull        PaymentMode = "Full"        // Whole price up front
	PaymentModeInstallment PaymentMode = "Installment" // Initial payment plus a monthly plan
)

// IsValid checks if the payment mode is valid
func (m PaymentMode) IsValid() bool {
	return m == PaymentModeFull || m == PaymentModeInstallment
}

// String returns the string representation of PaymentMode
func (m PaymentMode) String() string {
	return string(m)
}

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "Booked"    // Active installment plan
	BookingStatusSold      BookingStatus = "Sold"      // Paid in full at creation
	BookingStatusCompleted BookingStatus = "Completed" // Installment plan paid off
	BookingStatusTransfer  BookingStatus = "Transfer"  // Ownership transferred away
)

// IsValid checks if the status is a valid BookingStatus
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusBooked, BookingStatusSold, BookingStatusCompleted, BookingStatusTransfer:
		return true
	}
	return false
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusSold || s == BookingStatusCompleted || s == BookingStatusTransfer
}

// Booking represents a plot booking aggregate root.
// A booking never reverts: there is no transition back to an unbooked
// plot, and financial fields only accumulate.
type Booking struct {
	shared.SocietyAggregateRoot
	BookingNumber    string          `json:"booking_number"`
	PlotID           uuid.UUID       `json:"plot_id"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	BookingDate      time.Time       `json:"booking_date"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InitialPayment   decimal.Decimal `json:"initial_payment"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	InstallmentYears int             `json:"installment_years"`
	PaymentMode      PaymentMode     `json:"payment_mode"`
	Status           BookingStatus   `json:"status"`
}

// NewBooking creates a new booking.
// Full mode settles immediately: the remaining balance is zero and the
// status is Sold. Installment mode requires the initial payment to be
// strictly below the total and a positive term in years.
func NewBooking(
	societyID uuid.UUID,
	bookingNumber string,
	plotID uuid.UUID,
	customerID uuid.UUID,
	totalAmount valueobject.Money,
	initialPayment valueobject.Money,
	installmentYears int,
	mode PaymentMode,
) (*Booking, error) {
	if societyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOCIETY", "Society ID cannot be empty")
	}
	if bookingNumber == "" {
		return nil, shared.NewDomainError("INVALID_BOOKING_NUMBER", "Booking number cannot be empty")
	}
	if plotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLOT", "Plot ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid payment mode: %s", mode))
	}
	if totalAmount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Total amount must be positive")
	}
	if initialPayment.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Initial payment cannot be negative")
	}

	b := &Booking{
		SocietyAggregateRoot: shared.NewSocietyAggregateRoot(societyID),
		BookingNumber:        bookingNumber,
		PlotID:               plotID,
		CustomerID:           customerID,
		BookingDate:          time.Now(),
		TotalAmount:          totalAmount.Amount(),
		InitialPayment:       initialPayment.Amount(),
		PaymentMode:          mode,
	}

	switch mode {
	case PaymentModeFull:
		b.RemainingBalance = decimal.Zero
		b.TotalPaid = totalAmount.Amount()
		b.Status = BookingStatusSold
	case PaymentModeInstallment:
		if initialPayment.Amount().GreaterThanOrEqual(totalAmount.Amount()) {
			return nil, shared.NewDomainError("INVALID_PAYMENT", "Initial payment must be below the total for an installment booking")
		}
		if installmentYears <= 0 {
			return nil, shared.NewDomainError("INVALID_TERM", "Installment term must be a positive number of years")
		}
		b.RemainingBalance = totalAmount.Amount().Sub(initialPayment.Amount())
		b.TotalPaid = initialPayment.Amount()
		b.InstallmentYears = installmentYears
		b.Status = BookingStatusBooked
	}

	b.AddDomainEvent(NewBookingCreatedEvent(b))

	return b, nil
}

// RegisterPayment accumulates an applied payment into the running total
func (b *Booking) RegisterPayment(amount valueobject.Money) error {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
	}
	if b.Status != BookingStatusBooked {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot register payment on booking in %s status", b.Status))
	}

	b.TotalPaid = b.TotalPaid.Add(amount.Amount())
	b.RemainingBalance = b.RemainingBalance.Sub(amount.Amount())
	if b.RemainingBalance.IsNegative() {
		b.RemainingBalance = decimal.Zero
	}
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// MarkCompleted closes the booking once every installment is settled
func (b *Booking) MarkCompleted() error {
	if b.Status != BookingStatusBooked {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Booking in %s status cannot be completed", b.Status))
	}

	b.Status = BookingStatusCompleted
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewAllInstallmentsSettledEvent(b))

	return nil
}

// ReassignCustomer moves an active booking to a new customer during a
// resell. Settled history keeps the paying customer; only the booking
// head changes hands.
func (b *Booking) ReassignCustomer(customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if b.Status != BookingStatusBooked {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Booking in %s status cannot be reassigned", b.Status))
	}

	b.CustomerID = customerID
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// MarkTransferred records that the booked plot moved to a new owner
func (b *Booking) MarkTransferred() error {
	if b.Status != BookingStatusBooked {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Booking in %s status cannot be transferred", b.Status))
	}

	b.Status = BookingStatusTransfer
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Helper methods

// GetTotalAmountMoney returns the total amount as Money
func (b *Booking) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(b.TotalAmount)
}

// GetRemainingBalanceMoney returns the remaining balance as Money
func (b *Booking) GetRemainingBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(b.RemainingBalance)
}

// GetTotalPaidMoney returns the accumulated payments as Money
func (b *Booking) GetTotalPaidMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(b.TotalPaid)
}

// IsActive returns true if installments can still be paid against the booking
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusBooked
}
