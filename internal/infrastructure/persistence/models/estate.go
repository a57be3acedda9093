package models

import (
	"time"

	"github.com/estate/backend/internal/domain/estate"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SocietyModel is the persistence model for the Society domain entity.
type SocietyModel struct {
	AggregateModel
	Name     string `gorm:"type:varchar(200);not null;uniqueIndex:idx_society_name"`
	Location string `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (SocietyModel) TableName() string {
	return "societies"
}

// ToDomain converts the persistence model to a domain Society entity.
func (m *SocietyModel) ToDomain() *estate.Society {
	s := &estate.Society{
		Name:     m.Name,
		Location: m.Location,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Society entity.
func (m *SocietyModel) FromDomain(s *estate.Society) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Name = s.Name
	m.Location = s.Location
}

// SocietyModelFromDomain creates a new persistence model from a domain Society entity.
func SocietyModelFromDomain(s *estate.Society) *SocietyModel {
	m := &SocietyModel{}
	m.FromDomain(s)
	return m
}

// PlotModel is the persistence model for the Plot domain entity.
type PlotModel struct {
	SocietyAggregateModel
	PlotNumber    string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_plot_society_number,priority:2"`
	Block         string               `gorm:"type:varchar(50);index"`
	Size          valueobject.PlotSize `gorm:"type:varchar(50)"`
	Category      estate.PlotCategory  `gorm:"type:varchar(20);not null;default:'General'"`
	PlotType      estate.PlotType      `gorm:"type:varchar(20);not null;default:'Residential'"`
	Status        estate.PlotStatus    `gorm:"type:varchar(20);not null;default:'Available';index"`
	BookingState  estate.BookingState  `gorm:"type:varchar(20);not null;default:'Available';index"`
	CustomerID    *uuid.UUID           `gorm:"type:uuid;index"`
	Price         decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	SaleHistory   estate.SaleHistory   `gorm:"type:jsonb"`
	AvailableFrom *time.Time           `gorm:""`
}

// TableName returns the table name for GORM
func (PlotModel) TableName() string {
	return "plots"
}

// ToDomain converts the persistence model to a domain Plot entity.
func (m *PlotModel) ToDomain() *estate.Plot {
	p := &estate.Plot{
		PlotNumber:    m.PlotNumber,
		Block:         m.Block,
		Size:          m.Size,
		Category:      m.Category,
		PlotType:      m.PlotType,
		Status:        m.Status,
		BookingState:  m.BookingState,
		CustomerID:    m.CustomerID,
		Price:         m.Price,
		SaleHistory:   m.SaleHistory,
		AvailableFrom: m.AvailableFrom,
	}
	m.PopulateSocietyAggregateRoot(&p.SocietyAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Plot entity.
func (m *PlotModel) FromDomain(p *estate.Plot) {
	m.FromDomainSocietyAggregateRoot(p.SocietyAggregateRoot)
	m.PlotNumber = p.PlotNumber
	m.Block = p.Block
	m.Size = p.Size
	m.Category = p.Category
	m.PlotType = p.PlotType
	m.Status = p.Status
	m.BookingState = p.BookingState
	m.CustomerID = p.CustomerID
	m.Price = p.Price
	m.SaleHistory = p.SaleHistory
	m.AvailableFrom = p.AvailableFrom
}

// PlotModelFromDomain creates a new persistence model from a domain Plot entity.
func PlotModelFromDomain(p *estate.Plot) *PlotModel {
	m := &PlotModel{}
	m.FromDomain(p)
	return m
}
