package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/estate/backend/internal/domain/estate"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSocietyRepository implements SocietyRepository using GORM
type GormSocietyRepository struct {
	db *gorm.DB
}

// NewGormSocietyRepository creates a new GormSocietyRepository
func NewGormSocietyRepository(db *gorm.DB) *GormSocietyRepository {
	return &GormSocietyRepository{db: db}
}

func (r *GormSocietyRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a society by its ID
func (r *GormSocietyRepository) FindByID(ctx context.Context, id uuid.UUID) (*estate.Society, error) {
	var model models.SocietyModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a society by its exact name
func (r *GormSocietyRepository) FindByName(ctx context.Context, name string) (*estate.Society, error) {
	var model models.SocietyModel
	if err := r.conn(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all societies matching the filter
func (r *GormSocietyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]estate.Society, error) {
	var societyModels []models.SocietyModel
	query := r.applyFilter(r.conn(ctx).Model(&models.SocietyModel{}), filter)

	if err := query.Find(&societyModels).Error; err != nil {
		return nil, err
	}

	societies := make([]estate.Society, len(societyModels))
	for i, model := range societyModels {
		societies[i] = *model.ToDomain()
	}
	return societies, nil
}

// Save creates or updates a society
func (r *GormSocietyRepository) Save(ctx context.Context, society *estate.Society) error {
	model := models.SocietyModelFromDomain(society)
	return r.conn(ctx).Save(model).Error
}

// Delete deletes a society
func (r *GormSocietyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&models.SocietyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts societies matching the filter
func (r *GormSocietyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&models.SocietyModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetActiveSocietyIDs returns the IDs of all societies. Backs the
// periodic per-society gauge collection in telemetry.
func (r *GormSocietyRepository) GetActiveSocietyIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.conn(ctx).
		Model(&models.SocietyModel{}).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// applyFilter applies filter options including pagination
func (r *GormSocietyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, SocietySortFields, "name")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSocietyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("name ILIKE ? OR location ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "location":
			query = query.Where("location = ?", value)
		}
	}

	return query
}

// Ensure GormSocietyRepository implements SocietyRepository
var _ estate.SocietyRepository = (*GormSocietyRepository)(nil)
