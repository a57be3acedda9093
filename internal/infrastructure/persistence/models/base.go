package models

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// PopulateAggregateRoot populates a domain BaseAggregateRoot from persistence model
func (m *AggregateModel) PopulateAggregateRoot(a *shared.BaseAggregateRoot) {
	a.BaseEntity.ID = m.ID
	a.BaseEntity.CreatedAt = m.CreatedAt
	a.BaseEntity.UpdatedAt = m.UpdatedAt
	a.Version = m.Version
}

// SocietyAggregateModel provides common persistence fields for society-scoped
// aggregate roots. It extends AggregateModel with the owning society ID.
type SocietyAggregateModel struct {
	AggregateModel
	SocietyID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainSocietyAggregateRoot populates SocietyAggregateModel from domain SocietyAggregateRoot
func (m *SocietyAggregateModel) FromDomainSocietyAggregateRoot(s shared.SocietyAggregateRoot) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SocietyID = s.SocietyID
}

// PopulateSocietyAggregateRoot populates a domain SocietyAggregateRoot from persistence model
func (m *SocietyAggregateModel) PopulateSocietyAggregateRoot(s *shared.SocietyAggregateRoot) {
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	s.SocietyID = m.SocietyID
}
