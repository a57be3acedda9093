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

// GormPlotRepository implements PlotRepository using GORM
type GormPlotRepository struct {
	db *gorm.DB
}

// NewGormPlotRepository creates a new GormPlotRepository
func NewGormPlotRepository(db *gorm.DB) *GormPlotRepository {
	return &GormPlotRepository{db: db}
}

func (r *GormPlotRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a plot by its ID
func (r *GormPlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*estate.Plot, error) {
	var model models.PlotModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a plot by its number within a society
func (r *GormPlotRepository) FindByNumber(ctx context.Context, societyID uuid.UUID, plotNumber string) (*estate.Plot, error) {
	var model models.PlotModel
	if err := r.conn(ctx).
		Where("society_id = ? AND plot_number = ?", societyID, plotNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all plots matching the filter
func (r *GormPlotRepository) FindAll(ctx context.Context, filter estate.PlotFilter) ([]estate.Plot, error) {
	var plotModels []models.PlotModel
	query := r.applyFilter(r.conn(ctx).Model(&models.PlotModel{}), filter)

	if err := query.Find(&plotModels).Error; err != nil {
		return nil, err
	}

	plots := make([]estate.Plot, len(plotModels))
	for i, model := range plotModels {
		plots[i] = *model.ToDomain()
	}
	return plots, nil
}

// FindByCustomer finds all plots currently held by a customer
func (r *GormPlotRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]estate.Plot, error) {
	var plotModels []models.PlotModel
	if err := r.conn(ctx).
		Where("customer_id = ?", customerID).
		Order("plot_number ASC").
		Find(&plotModels).Error; err != nil {
		return nil, err
	}

	plots := make([]estate.Plot, len(plotModels))
	for i, model := range plotModels {
		plots[i] = *model.ToDomain()
	}
	return plots, nil
}

// Save creates or updates a plot
func (r *GormPlotRepository) Save(ctx context.Context, plot *estate.Plot) error {
	model := models.PlotModelFromDomain(plot)
	return r.conn(ctx).Save(model).Error
}

// SaveWithLock saves a plot with optimistic locking (version check)
// Returns error if the version has changed (concurrent modification)
func (r *GormPlotRepository) SaveWithLock(ctx context.Context, plot *estate.Plot) error {
	model := models.PlotModelFromDomain(plot)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", plot.ID, plot.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The plot record has been modified by another transaction")
	}
	return nil
}

// ReserveAtomically persists a freshly reserved plot with a conditional
// update on the booking state. Of two concurrent reservations for the
// same plot exactly one row update succeeds; the loser gets ErrConflict.
func (r *GormPlotRepository) ReserveAtomically(ctx context.Context, plot *estate.Plot) error {
	model := models.PlotModelFromDomain(plot)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND booking_state = ? AND version = ?",
			plot.ID, estate.BookingStateAvailable, plot.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConflict
	}
	return nil
}

// Delete deletes a plot
func (r *GormPlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&models.PlotModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts plots matching the filter
func (r *GormPlotRepository) Count(ctx context.Context, filter estate.PlotFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&models.PlotModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination
func (r *GormPlotRepository) applyFilter(query *gorm.DB, filter estate.PlotFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, PlotSortFields, "plot_number")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("block ASC, plot_number ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPlotRepository) applyFilterWithoutPagination(query *gorm.DB, filter estate.PlotFilter) *gorm.DB {
	if filter.SocietyID != nil {
		query = query.Where("society_id = ?", *filter.SocietyID)
	}
	if filter.Block != nil {
		query = query.Where("block = ?", *filter.Block)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.BookingState != nil {
		query = query.Where("booking_state = ?", *filter.BookingState)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.PlotType != nil {
		query = query.Where("plot_type = ?", *filter.PlotType)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}

	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("plot_number ILIKE ? OR block ILIKE ?", searchPattern, searchPattern)
	}

	return query
}

// Ensure GormPlotRepository implements PlotRepository
var _ estate.PlotRepository = (*GormPlotRepository)(nil)
