package finance

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeTransaction = "FinancialTransaction"

// Event type constant
const EventTypeTransactionRecorded = "TransactionRecorded"

// TransactionRecordedEvent is raised when a ledger row is created
type TransactionRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionID   uuid.UUID       `json:"transaction_id"`
	CustomerID      *uuid.UUID      `json:"customer_id,omitempty"`
	PlotID          *uuid.UUID      `json:"plot_id,omitempty"`
	BookingID       *uuid.UUID      `json:"booking_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	TypeCode        string          `json:"type_code"`
	Direction       Direction       `json:"direction"`
	TransactionDate time.Time       `json:"transaction_date"`
	ReceiptNo       string          `json:"receipt_no,omitempty"`
}

// EventType returns the event type name
func (e *TransactionRecordedEvent) EventType() string {
	return EventTypeTransactionRecorded
}

// NewTransactionRecordedEvent creates a new TransactionRecordedEvent
func NewTransactionRecordedEvent(t *FinancialTransaction) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionRecorded, AggregateTypeTransaction, t.ID, t.SocietyID),
		TransactionID:   t.ID,
		CustomerID:      t.CustomerID,
		PlotID:          t.PlotID,
		BookingID:       t.BookingID,
		Amount:          t.Amount,
		TypeCode:        t.Type.Code(),
		Direction:       t.Direction,
		TransactionDate: t.TransactionDate,
		ReceiptNo:       t.ReceiptNo,
	}
}
