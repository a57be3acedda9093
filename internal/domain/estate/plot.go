package estate

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlotStatus represents the sale status of a plot
type PlotStatus string

const (
	PlotStatusAvailable PlotStatus = "Available" // On the market, no owner
	PlotStatusReserved  PlotStatus = "Reserved"  // Booked on installments, not fully paid
	PlotStatusSold      PlotStatus = "Sold"      // Fully paid
	PlotStatusTransfer  PlotStatus = "Transfer"  // Ownership moved outside a sale
)

// IsValid checks if the status is a valid PlotStatus
func (s PlotStatus) IsValid() bool {
	switch s {
	case PlotStatusAvailable, PlotStatusReserved, PlotStatusSold, PlotStatusTransfer:
		return true
	}
	return false
}

// String returns the string representation of PlotStatus
func (s PlotStatus) String() string {
	return string(s)
}

// BookingState represents the booking occupancy of a plot.
// It moves independently of the sale status: a plot can be Hold without
// any owner, and a Sold plot stays Booked until transferred.
type BookingState string

const (
	BookingStateAvailable BookingState = "Available"
	BookingStateBooked    BookingState = "Booked"
	BookingStateHold      BookingState = "Hold"
	BookingStateTransfer  BookingState = "Transfer"
)

// IsValid checks if the state is a valid BookingState
func (s BookingState) IsValid() bool {
	switch s {
	case BookingStateAvailable, BookingStateBooked, BookingStateHold, BookingStateTransfer:
		return true
	}
	return false
}

// String returns the string representation of BookingState
func (s BookingState) String() string {
	return string(s)
}

// PlotCategory represents the location category of a plot
type PlotCategory string

const (
	PlotCategoryGeneral   PlotCategory = "General"
	PlotCategoryParkFace  PlotCategory = "ParkFace"
	PlotCategoryCorner    PlotCategory = "Corner"
	PlotCategoryBoulevard PlotCategory = "Boulevard"
)

// IsValid checks if the category is valid
func (c PlotCategory) IsValid() bool {
	switch c {
	case PlotCategoryGeneral, PlotCategoryParkFace, PlotCategoryCorner, PlotCategoryBoulevard:
		return true
	}
	return false
}

// PlotType represents the zoning of a plot
type PlotType string

const (
	PlotTypeResidential PlotType = "Residential"
	PlotTypeCommercial  PlotType = "Commercial"
)

// IsValid checks if the plot type is valid
func (t PlotType) IsValid() bool {
	return t == PlotTypeResidential || t == PlotTypeCommercial
}

// SaleRecord is one entry in a plot's sale history.
// It is a value object within the Plot aggregate, stored as JSONB.
type SaleRecord struct {
	BookingID  uuid.UUID       `json:"booking_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	SaleDate   time.Time       `json:"sale_date"`
	SaleAmount decimal.Decimal `json:"sale_amount"`
}

// SaleHistory is an ordered log of sale records implementing GORM
// Scanner/Valuer for JSONB storage. Entries are append-only.
type SaleHistory []SaleRecord

// Value implements driver.Valuer interface for GORM to store as JSONB
func (h SaleHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (h *SaleHistory) Scan(value interface{}) error {
	if value == nil {
		*h = SaleHistory{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan SaleHistory: unsupported type")
	}

	if len(bytes) == 0 {
		*h = SaleHistory{}
		return nil
	}

	return json.Unmarshal(bytes, h)
}

// Plot represents a plot aggregate root.
// It owns the sale and booking state machines; all ownership changes go
// through its methods so illegal transitions cannot be persisted.
type Plot struct {
	shared.SocietyAggregateRoot
	PlotNumber    string               `json:"plot_number"`
	Block         string               `json:"block"`
	Size          valueobject.PlotSize `json:"size"`
	Category      PlotCategory         `json:"category"`
	PlotType      PlotType             `json:"plot_type"`
	Status        PlotStatus           `json:"status"`
	BookingState  BookingState         `json:"booking_state"`
	CustomerID    *uuid.UUID           `json:"customer_id"`
	Price         decimal.Decimal      `json:"price"`
	SaleHistory   SaleHistory          `json:"sale_history"`
	AvailableFrom *time.Time           `json:"available_from"`
}

// NewPlot creates a new plot in the Available state
func NewPlot(
	societyID uuid.UUID,
	plotNumber string,
	block string,
	size valueobject.PlotSize,
	category PlotCategory,
	plotType PlotType,
	price valueobject.Money,
) (*Plot, error) {
	if societyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOCIETY", "Society ID cannot be empty")
	}
	if plotNumber == "" {
		return nil, shared.NewDomainError("INVALID_PLOT_NUMBER", "Plot number cannot be empty")
	}
	if len(plotNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_PLOT_NUMBER", "Plot number cannot exceed 50 characters")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Invalid plot category: %s", category))
	}
	if !plotType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLOT_TYPE", fmt.Sprintf("Invalid plot type: %s", plotType))
	}
	if price.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PRICE", "Plot price must be positive")
	}

	p := &Plot{
		SocietyAggregateRoot: shared.NewSocietyAggregateRoot(societyID),
		PlotNumber:           plotNumber,
		Block:                block,
		Size:                 size,
		Category:             category,
		PlotType:             plotType,
		Status:               PlotStatusAvailable,
		BookingState:         BookingStateAvailable,
		Price:                price.Amount(),
		SaleHistory:          SaleHistory{},
	}

	p.AddDomainEvent(NewPlotRegisteredEvent(p))

	return p, nil
}

// Reserve books the plot for a customer. Only an Available plot can be
// reserved; a second caller gets a conflict.
func (p *Plot) Reserve(customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if p.BookingState != BookingStateAvailable {
		return shared.NewDomainError("CONFLICT", fmt.Sprintf("Plot %s is already %s", p.PlotNumber, p.BookingState))
	}

	p.Status = PlotStatusReserved
	p.BookingState = BookingStateBooked
	p.CustomerID = &customerID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPlotReservedEvent(p, customerID))

	return nil
}

// MarkSold completes the sale. Valid from Reserved (installment plan paid
// off) or straight after Reserve in the same transaction (full payment).
func (p *Plot) MarkSold(customerID, bookingID uuid.UUID, saleAmount valueobject.Money) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if p.Status != PlotStatusReserved {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Plot %s cannot move from %s to Sold", p.PlotNumber, p.Status))
	}
	if p.CustomerID == nil || *p.CustomerID != customerID {
		return shared.NewDomainError("INVALID_CUSTOMER", "Plot is reserved for a different customer")
	}

	p.Status = PlotStatusSold
	p.SaleHistory = append(p.SaleHistory, SaleRecord{
		BookingID:  bookingID,
		CustomerID: customerID,
		SaleDate:   time.Now(),
		SaleAmount: saleAmount.Amount(),
	})
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPlotSoldEvent(p, customerID, bookingID, saleAmount.Amount()))

	return nil
}

// ReassignOwner moves the plot to a new customer during a resell.
// The plot ends up Sold regardless of how far the previous owner's
// installment plan had progressed.
func (p *Plot) ReassignOwner(previousCustomerID, newCustomerID uuid.UUID) error {
	if newCustomerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "New customer ID cannot be empty")
	}
	if p.CustomerID == nil || *p.CustomerID != previousCustomerID {
		return shared.NewDomainError("INVALID_CUSTOMER", "Plot is not owned by the given previous customer")
	}
	if p.Status != PlotStatusReserved && p.Status != PlotStatusSold {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Plot %s in status %s cannot be resold", p.PlotNumber, p.Status))
	}

	p.Status = PlotStatusSold
	p.CustomerID = &newCustomerID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPlotResoldEvent(p, previousCustomerID, newCustomerID))

	return nil
}

// MarkTransferred records an ownership transfer. Requires an active
// booking on the plot.
func (p *Plot) MarkTransferred(newOwnerID uuid.UUID) error {
	if newOwnerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "New owner ID cannot be empty")
	}
	if p.BookingState != BookingStateBooked {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Plot %s must be Booked to transfer, got %s", p.PlotNumber, p.BookingState))
	}

	p.Status = PlotStatusTransfer
	p.BookingState = BookingStateTransfer
	p.CustomerID = &newOwnerID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPlotTransferredEvent(p, newOwnerID))

	return nil
}

// Hold takes an unbooked plot off the market
func (p *Plot) Hold() error {
	if p.BookingState != BookingStateAvailable {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Plot %s in booking state %s cannot be held", p.PlotNumber, p.BookingState))
	}

	p.BookingState = BookingStateHold
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ReleaseHold puts a held plot back on the market
func (p *Plot) ReleaseHold() error {
	if p.BookingState != BookingStateHold {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Plot %s in booking state %s is not held", p.PlotNumber, p.BookingState))
	}

	p.BookingState = BookingStateAvailable
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UpdatePrice changes the asking price of an unsold plot
func (p *Plot) UpdatePrice(price valueobject.Money) error {
	if price.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRICE", "Plot price must be positive")
	}
	if p.Status == PlotStatusSold || p.Status == PlotStatusTransfer {
		return shared.NewDomainError("INVALID_STATE", "Cannot reprice a plot that already has an owner")
	}

	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Helper methods

// GetPriceMoney returns the price as Money
func (p *Plot) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyPKR(p.Price)
}

// IsAvailable returns true if the plot can be booked
func (p *Plot) IsAvailable() bool {
	return p.BookingState == BookingStateAvailable
}

// IsSold returns true if the plot is fully paid
func (p *Plot) IsSold() bool {
	return p.Status == PlotStatusSold
}

// LastSale returns the most recent sale record, or nil if never sold
func (p *Plot) LastSale() *SaleRecord {
	if len(p.SaleHistory) == 0 {
		return nil
	}
	return &p.SaleHistory[len(p.SaleHistory)-1]
}
