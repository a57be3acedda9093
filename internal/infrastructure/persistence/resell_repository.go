package persistence

import (
	"context"
	"errors"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormResellRepository implements ResellRepository using GORM
type GormResellRepository struct {
	db *gorm.DB
}

// NewGormResellRepository creates a new GormResellRepository
func NewGormResellRepository(db *gorm.DB) *GormResellRepository {
	return &GormResellRepository{db: db}
}

func (r *GormResellRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a resell record by its ID
func (r *GormResellRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.PlotResell, error) {
	var model models.ResellModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPlot finds all resell records of a plot, newest first
func (r *GormResellRepository) FindByPlot(ctx context.Context, plotID uuid.UUID) ([]finance.PlotResell, error) {
	var resellModels []models.ResellModel
	if err := r.conn(ctx).
		Where("plot_id = ?", plotID).
		Order("resell_date DESC").
		Find(&resellModels).Error; err != nil {
		return nil, err
	}

	resells := make([]finance.PlotResell, len(resellModels))
	for i, model := range resellModels {
		resells[i] = *model.ToDomain()
	}
	return resells, nil
}

// FindAll finds all resell records matching the filter
func (r *GormResellRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.PlotResell, error) {
	var resellModels []models.ResellModel
	query := r.conn(ctx).Model(&models.ResellModel{})

	for key, value := range filter.Filters {
		switch key {
		case "society_id":
			query = query.Where("society_id = ?", value)
		case "plot_id":
			query = query.Where("plot_id = ?", value)
		case "new_customer_id":
			query = query.Where("new_customer_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("resell_date DESC")

	if err := query.Find(&resellModels).Error; err != nil {
		return nil, err
	}

	resells := make([]finance.PlotResell, len(resellModels))
	for i, model := range resellModels {
		resells[i] = *model.ToDomain()
	}
	return resells, nil
}

// ExistsForPair reports whether a resell from the plot to the given
// customer was already recorded. Backs the duplicate-resell guard.
func (r *GormResellRepository) ExistsForPair(ctx context.Context, plotID, newCustomerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&models.ResellModel{}).
		Where("plot_id = ? AND new_customer_id = ?", plotID, newCustomerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save appends a resell record
func (r *GormResellRepository) Save(ctx context.Context, resell *finance.PlotResell) error {
	model := models.ResellModelFromDomain(resell)
	return r.conn(ctx).Create(model).Error
}

// Ensure GormResellRepository implements ResellRepository
var _ finance.ResellRepository = (*GormResellRepository)(nil)
