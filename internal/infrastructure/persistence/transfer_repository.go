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

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

func (r *GormTransferRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a transfer record by its ID
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.TransferPlot, error) {
	var model models.TransferModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPlot finds all transfer records of a plot, newest first
func (r *GormTransferRepository) FindByPlot(ctx context.Context, plotID uuid.UUID) ([]finance.TransferPlot, error) {
	var transferModels []models.TransferModel
	if err := r.conn(ctx).
		Where("plot_id = ?", plotID).
		Order("transfer_date DESC").
		Find(&transferModels).Error; err != nil {
		return nil, err
	}

	transfers := make([]finance.TransferPlot, len(transferModels))
	for i, model := range transferModels {
		transfers[i] = *model.ToDomain()
	}
	return transfers, nil
}

// FindAll finds all transfer records matching the filter
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.TransferPlot, error) {
	var transferModels []models.TransferModel
	query := r.conn(ctx).Model(&models.TransferModel{})

	for key, value := range filter.Filters {
		switch key {
		case "society_id":
			query = query.Where("society_id = ?", value)
		case "plot_id":
			query = query.Where("plot_id = ?", value)
		case "new_owner_id":
			query = query.Where("new_owner_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("transfer_date DESC")

	if err := query.Find(&transferModels).Error; err != nil {
		return nil, err
	}

	transfers := make([]finance.TransferPlot, len(transferModels))
	for i, model := range transferModels {
		transfers[i] = *model.ToDomain()
	}
	return transfers, nil
}

// ExistsForPair reports whether a transfer of the plot to the given
// owner was already recorded. Backs the duplicate-transfer guard.
func (r *GormTransferRepository) ExistsForPair(ctx context.Context, plotID, newOwnerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&models.TransferModel{}).
		Where("plot_id = ? AND new_owner_id = ?", plotID, newOwnerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save appends a transfer record
func (r *GormTransferRepository) Save(ctx context.Context, transfer *finance.TransferPlot) error {
	model := models.TransferModelFromDomain(transfer)
	return r.conn(ctx).Create(model).Error
}

// Ensure GormTransferRepository implements TransferRepository
var _ finance.TransferRepository = (*GormTransferRepository)(nil)
