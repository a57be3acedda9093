package finance

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is a closed set of ledger transaction kinds. Unknown
// labels coming from outside the set collapse into Other with the raw
// label preserved, so reports never see a free-form type column.
type TransactionType struct {
	code  string
	label string // only set for Other
}

var (
	TransactionTypeFullPayment        = TransactionType{code: "Full Payment"}
	TransactionTypePartialPayment     = TransactionType{code: "Partial Payment"}
	TransactionTypeInstallmentPayment = TransactionType{code: "Installment Payment"}
	TransactionTypeResellPayment      = TransactionType{code: "Resell Payment"}
	TransactionTypeTransferFee        = TransactionType{code: "Transfer Fee"}
	TransactionTypeSalaryPayment      = TransactionType{code: "Salary Payment"}
	TransactionTypeExpensePayment     = TransactionType{code: "Expense Payment"}
	TransactionTypeScholarship        = TransactionType{code: "Scholarship"}
)

// OtherTransactionType creates the escape-hatch variant with a label
func OtherTransactionType(label string) TransactionType {
	return TransactionType{code: "Other", label: label}
}

// ParseTransactionType maps a stored string onto the closed set
func ParseTransactionType(s string) TransactionType {
	switch s {
	case "Full Payment":
		return TransactionTypeFullPayment
	case "Partial Payment":
		return TransactionTypePartialPayment
	case "Installment Payment":
		return TransactionTypeInstallmentPayment
	case "Resell Payment":
		return TransactionTypeResellPayment
	case "Transfer Fee":
		return TransactionTypeTransferFee
	case "Salary Payment":
		return TransactionTypeSalaryPayment
	case "Expense Payment":
		return TransactionTypeExpensePayment
	case "Scholarship":
		return TransactionTypeScholarship
	default:
		return OtherTransactionType(s)
	}
}

// Code returns the canonical type code
func (t TransactionType) Code() string {
	return t.code
}

// IsOther returns true for the escape-hatch variant
func (t TransactionType) IsOther() bool {
	return t.code == "Other"
}

// Label returns the raw label of an Other type, empty otherwise
func (t TransactionType) Label() string {
	return t.label
}

// IsZero returns true for an unset type
func (t TransactionType) IsZero() bool {
	return t.code == ""
}

// String returns the display form
func (t TransactionType) String() string {
	if t.IsOther() && t.label != "" {
		return fmt.Sprintf("Other (%s)", t.label)
	}
	return t.code
}

// Value implements driver.Valuer. Other stores its raw label so a
// round trip reconstructs the same variant.
func (t TransactionType) Value() (driver.Value, error) {
	if t.IsOther() && t.label != "" {
		return t.label, nil
	}
	return t.code, nil
}

// Scan implements sql.Scanner
func (t *TransactionType) Scan(value any) error {
	if value == nil {
		*t = TransactionType{}
		return nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into TransactionType", value)
	}
	*t = ParseTransactionType(s)
	return nil
}

// MarshalJSON implements json.Marshaler
func (t TransactionType) MarshalJSON() ([]byte, error) {
	v, _ := t.Value()
	return []byte(fmt.Sprintf("%q", v)), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (t *TransactionType) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	*t = ParseTransactionType(s)
	return nil
}

// Direction represents which way money moves
type Direction string

const (
	DirectionIncome  Direction = "Income"
	DirectionExpense Direction = "Expense"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// Default values for payment records
const (
	DefaultPaymentMethod    = "Bank Transfer"
	DefaultTransactionState = "Completed"
)

// FinancialTransaction is one append-only row of the society ledger.
// Rows are never updated or deleted after creation; corrections are
// new rows in the opposite direction.
type FinancialTransaction struct {
	shared.SocietyAggregateRoot
	CustomerID      *uuid.UUID      `json:"customer_id"`
	PlotID          *uuid.UUID      `json:"plot_id"`
	BookingID       *uuid.UUID      `json:"booking_id"`
	EmployeeID      *uuid.UUID      `json:"employee_id"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	Direction       Direction       `json:"direction"`
	PaymentMethod   string          `json:"payment_method"`
	Status          string          `json:"status"`
	TransactionDate time.Time       `json:"transaction_date"`
	Description     string          `json:"description"`
	ReceiptNo       string          `json:"receipt_no"`
}

// TransactionRecord collects the inputs for one ledger row
type TransactionRecord struct {
	SocietyID     uuid.UUID
	CustomerID    *uuid.UUID
	PlotID        *uuid.UUID
	BookingID     *uuid.UUID
	EmployeeID    *uuid.UUID
	Amount        valueobject.Money
	Type          TransactionType
	Direction     Direction
	PaymentMethod string
	Description   string
	ReceiptNo     string
}

// NewFinancialTransaction creates a ledger row. The amount must be
// strictly positive; callers drop zero and negative amounts before
// reaching the ledger.
func NewFinancialTransaction(rec TransactionRecord) (*FinancialTransaction, error) {
	if rec.SocietyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOCIETY", "Society ID cannot be empty")
	}
	if rec.Amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction amount must be positive")
	}
	if rec.Type.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction type is required")
	}
	if !rec.Direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid transaction direction: %s", rec.Direction))
	}

	method := rec.PaymentMethod
	if method == "" {
		method = DefaultPaymentMethod
	}

	tx := &FinancialTransaction{
		SocietyAggregateRoot: shared.NewSocietyAggregateRoot(rec.SocietyID),
		CustomerID:           rec.CustomerID,
		PlotID:               rec.PlotID,
		BookingID:            rec.BookingID,
		EmployeeID:           rec.EmployeeID,
		Amount:               rec.Amount.Amount(),
		Type:                 rec.Type,
		Direction:            rec.Direction,
		PaymentMethod:        method,
		Status:               DefaultTransactionState,
		TransactionDate:      time.Now(),
		Description:          rec.Description,
		ReceiptNo:            rec.ReceiptNo,
	}

	tx.AddDomainEvent(NewTransactionRecordedEvent(tx))

	return tx, nil
}

// GetAmountMoney returns the amount as Money
func (t *FinancialTransaction) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(t.Amount)
}

// IsIncome returns true for income rows
func (t *FinancialTransaction) IsIncome() bool {
	return t.Direction == DirectionIncome
}
