package models

import (
	"time"

	"github.com/estate/backend/internal/domain/booking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingModel is the persistence model for the Booking domain entity.
type BookingModel struct {
	SocietyAggregateModel
	BookingNumber    string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_booking_number"`
	PlotID           uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	BookingDate      time.Time             `gorm:"not null;index"`
	TotalAmount      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	InitialPayment   decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingBalance decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TotalPaid        decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	InstallmentYears int                   `gorm:"not null;default:0"`
	PaymentMode      booking.PaymentMode   `gorm:"type:varchar(20);not null"`
	Status           booking.BookingStatus `gorm:"type:varchar(20);not null;default:'Booked';index"`
}

// TableName returns the table name for GORM
func (BookingModel) TableName() string {
	return "bookings"
}

// ToDomain converts the persistence model to a domain Booking entity.
func (m *BookingModel) ToDomain() *booking.Booking {
	b := &booking.Booking{
		BookingNumber:    m.BookingNumber,
		PlotID:           m.PlotID,
		CustomerID:       m.CustomerID,
		BookingDate:      m.BookingDate,
		TotalAmount:      m.TotalAmount,
		InitialPayment:   m.InitialPayment,
		RemainingBalance: m.RemainingBalance,
		TotalPaid:        m.TotalPaid,
		InstallmentYears: m.InstallmentYears,
		PaymentMode:      m.PaymentMode,
		Status:           m.Status,
	}
	m.PopulateSocietyAggregateRoot(&b.SocietyAggregateRoot)
	return b
}

// FromDomain populates the persistence model from a domain Booking entity.
func (m *BookingModel) FromDomain(b *booking.Booking) {
	m.FromDomainSocietyAggregateRoot(b.SocietyAggregateRoot)
	m.BookingNumber = b.BookingNumber
	m.PlotID = b.PlotID
	m.CustomerID = b.CustomerID
	m.BookingDate = b.BookingDate
	m.TotalAmount = b.TotalAmount
	m.InitialPayment = b.InitialPayment
	m.RemainingBalance = b.RemainingBalance
	m.TotalPaid = b.TotalPaid
	m.InstallmentYears = b.InstallmentYears
	m.PaymentMode = b.PaymentMode
	m.Status = b.Status
}

// BookingModelFromDomain creates a new persistence model from a domain Booking entity.
func BookingModelFromDomain(b *booking.Booking) *BookingModel {
	m := &BookingModel{}
	m.FromDomain(b)
	return m
}

// InstallmentModel is the persistence model for the Installment domain entity.
type InstallmentModel struct {
	SocietyAggregateModel
	BookingID       uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_installment_booking_seq,priority:1"`
	CustomerID      uuid.UUID                 `gorm:"type:uuid;not null;index"`
	PlotID          uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Sequence        int                       `gorm:"not null;uniqueIndex:idx_installment_booking_seq,priority:2"`
	DueDate         time.Time                 `gorm:"not null;index"`
	Amount          decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount      decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingAmount decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	Status          booking.InstallmentStatus `gorm:"type:varchar(20);not null;default:'Pending';index"`
	ReceiptNo       string                    `gorm:"type:varchar(50)"`
	PaymentDate     *time.Time                `gorm:""`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment entity.
func (m *InstallmentModel) ToDomain() *booking.Installment {
	inst := &booking.Installment{
		BookingID:       m.BookingID,
		CustomerID:      m.CustomerID,
		PlotID:          m.PlotID,
		Sequence:        m.Sequence,
		DueDate:         m.DueDate,
		Amount:          m.Amount,
		PaidAmount:      m.PaidAmount,
		RemainingAmount: m.RemainingAmount,
		Status:          m.Status,
		ReceiptNo:       m.ReceiptNo,
		PaymentDate:     m.PaymentDate,
	}
	m.PopulateSocietyAggregateRoot(&inst.SocietyAggregateRoot)
	return inst
}

// FromDomain populates the persistence model from a domain Installment entity.
func (m *InstallmentModel) FromDomain(inst *booking.Installment) {
	m.FromDomainSocietyAggregateRoot(inst.SocietyAggregateRoot)
	m.BookingID = inst.BookingID
	m.CustomerID = inst.CustomerID
	m.PlotID = inst.PlotID
	m.Sequence = inst.Sequence
	m.DueDate = inst.DueDate
	m.Amount = inst.Amount
	m.PaidAmount = inst.PaidAmount
	m.RemainingAmount = inst.RemainingAmount
	m.Status = inst.Status
	m.ReceiptNo = inst.ReceiptNo
	m.PaymentDate = inst.PaymentDate
}

// InstallmentModelFromDomain creates a new persistence model from a domain Installment entity.
func InstallmentModelFromDomain(inst *booking.Installment) *InstallmentModel {
	m := &InstallmentModel{}
	m.FromDomain(inst)
	return m
}

// BookingSequenceModel backs the per-society booking number counter.
// Numbers are drawn with an atomic upsert so concurrent bookings never
// observe the same value.
type BookingSequenceModel struct {
	SocietyID uuid.UUID `gorm:"type:uuid;primary_key"`
	NextValue int64     `gorm:"not null;default:1"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BookingSequenceModel) TableName() string {
	return "booking_sequences"
}
