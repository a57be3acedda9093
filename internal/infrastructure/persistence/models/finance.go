package models

import (
	"time"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionModel is the persistence model for the FinancialTransaction
// domain entity. Rows are append-only: the repository never updates or
// deletes them.
type TransactionModel struct {
	SocietyAggregateModel
	CustomerID      *uuid.UUID              `gorm:"type:uuid;index"`
	PlotID          *uuid.UUID              `gorm:"type:uuid;index"`
	BookingID       *uuid.UUID              `gorm:"type:uuid;index"`
	EmployeeID      *uuid.UUID              `gorm:"type:uuid;index"`
	Amount          decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Type            finance.TransactionType `gorm:"type:varchar(40);not null;index"`
	Direction       finance.Direction       `gorm:"type:varchar(10);not null;index"`
	PaymentMethod   string                  `gorm:"type:varchar(30)"`
	Status          string                  `gorm:"type:varchar(20);not null;default:'completed'"`
	TransactionDate time.Time               `gorm:"not null;index"`
	Description     string                  `gorm:"type:text"`
	ReceiptNo       string                  `gorm:"type:varchar(50);index"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "financial_transactions"
}

// ToDomain converts the persistence model to a domain FinancialTransaction entity.
func (m *TransactionModel) ToDomain() *finance.FinancialTransaction {
	t := &finance.FinancialTransaction{
		CustomerID:      m.CustomerID,
		PlotID:          m.PlotID,
		BookingID:       m.BookingID,
		EmployeeID:      m.EmployeeID,
		Amount:          m.Amount,
		Type:            m.Type,
		Direction:       m.Direction,
		PaymentMethod:   m.PaymentMethod,
		Status:          m.Status,
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		ReceiptNo:       m.ReceiptNo,
	}
	m.PopulateSocietyAggregateRoot(&t.SocietyAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain FinancialTransaction entity.
func (m *TransactionModel) FromDomain(t *finance.FinancialTransaction) {
	m.FromDomainSocietyAggregateRoot(t.SocietyAggregateRoot)
	m.CustomerID = t.CustomerID
	m.PlotID = t.PlotID
	m.BookingID = t.BookingID
	m.EmployeeID = t.EmployeeID
	m.Amount = t.Amount
	m.Type = t.Type
	m.Direction = t.Direction
	m.PaymentMethod = t.PaymentMethod
	m.Status = t.Status
	m.TransactionDate = t.TransactionDate
	m.Description = t.Description
	m.ReceiptNo = t.ReceiptNo
}

// TransactionModelFromDomain creates a new persistence model from a domain FinancialTransaction entity.
func TransactionModelFromDomain(t *finance.FinancialTransaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}

// ResellModel is the persistence model for the PlotResell domain entity.
type ResellModel struct {
	SocietyAggregateModel
	PlotID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	PreviousCustomerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	NewCustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ResellFee          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ResellDate         time.Time       `gorm:"not null;index"`
	Description        string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ResellModel) TableName() string {
	return "plot_resells"
}

// ToDomain converts the persistence model to a domain PlotResell entity.
func (m *ResellModel) ToDomain() *finance.PlotResell {
	r := &finance.PlotResell{
		PlotID:             m.PlotID,
		PreviousCustomerID: m.PreviousCustomerID,
		NewCustomerID:      m.NewCustomerID,
		ResellFee:          m.ResellFee,
		ResellDate:         m.ResellDate,
		Description:        m.Description,
	}
	m.PopulateSocietyAggregateRoot(&r.SocietyAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain PlotResell entity.
func (m *ResellModel) FromDomain(r *finance.PlotResell) {
	m.FromDomainSocietyAggregateRoot(r.SocietyAggregateRoot)
	m.PlotID = r.PlotID
	m.PreviousCustomerID = r.PreviousCustomerID
	m.NewCustomerID = r.NewCustomerID
	m.ResellFee = r.ResellFee
	m.ResellDate = r.ResellDate
	m.Description = r.Description
}

// ResellModelFromDomain creates a new persistence model from a domain PlotResell entity.
func ResellModelFromDomain(r *finance.PlotResell) *ResellModel {
	m := &ResellModel{}
	m.FromDomain(r)
	return m
}

// TransferModel is the persistence model for the TransferPlot domain entity.
type TransferModel struct {
	SocietyAggregateModel
	PlotID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PreviousOwner string          `gorm:"type:varchar(200);not null"`
	NewOwnerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransferFee   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TransferDate  time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TransferModel) TableName() string {
	return "transfer_plots"
}

// ToDomain converts the persistence model to a domain TransferPlot entity.
func (m *TransferModel) ToDomain() *finance.TransferPlot {
	t := &finance.TransferPlot{
		PlotID:        m.PlotID,
		PreviousOwner: m.PreviousOwner,
		NewOwnerID:    m.NewOwnerID,
		TransferFee:   m.TransferFee,
		TransferDate:  m.TransferDate,
	}
	m.PopulateSocietyAggregateRoot(&t.SocietyAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain TransferPlot entity.
func (m *TransferModel) FromDomain(t *finance.TransferPlot) {
	m.FromDomainSocietyAggregateRoot(t.SocietyAggregateRoot)
	m.PlotID = t.PlotID
	m.PreviousOwner = t.PreviousOwner
	m.NewOwnerID = t.NewOwnerID
	m.TransferFee = t.TransferFee
	m.TransferDate = t.TransferDate
}

// TransferModelFromDomain creates a new persistence model from a domain TransferPlot entity.
func TransferModelFromDomain(t *finance.TransferPlot) *TransferModel {
	m := &TransferModel{}
	m.FromDomain(t)
	return m
}
