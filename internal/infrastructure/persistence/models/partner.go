package models

import (
	"github.com/estate/backend/internal/domain/partner"
	"github.com/estate/backend/internal/domain/shared/valueobject"
)

// CustomerModel is the persistence model for the Customer domain entity.
// Contact is stored as a JSONB document; the CNIC is denormalized into
// its own indexed column for uniqueness lookups.
type CustomerModel struct {
	AggregateModel
	Name       string              `gorm:"type:varchar(200);not null;index"`
	Contact    valueobject.Contact `gorm:"type:jsonb"`
	CNIC       string              `gorm:"type:varchar(20);index"`
	SocietyIDs partner.UUIDList    `gorm:"type:jsonb"`
	PlotIDs    partner.UUIDList    `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	c := &partner.Customer{
		Name:       m.Name,
		Contact:    m.Contact,
		SocietyIDs: m.SocietyIDs,
		PlotIDs:    m.PlotIDs,
	}
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Contact = c.Contact
	m.CNIC = c.Contact.CNIC()
	m.SocietyIDs = c.SocietyIDs
	m.PlotIDs = c.PlotIDs
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
