package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/estate/backend/internal/domain/booking"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// openInstallmentStatuses are the statuses that still carry an unpaid
// balance and take part in the overpayment cascade.
var openInstallmentStatuses = []booking.InstallmentStatus{
	booking.InstallmentStatusPending,
	booking.InstallmentStatusPartiallyPaid,
	booking.InstallmentStatusOverdue,
}

// GormInstallmentRepository implements InstallmentRepository using GORM
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentRepository creates a new GormInstallmentRepository
func NewGormInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

func (r *GormInstallmentRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds an installment by its ID
func (r *GormInstallmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Installment, error) {
	var model models.InstallmentModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBooking finds all installments of a booking ordered by sequence
func (r *GormInstallmentRepository) FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]booking.Installment, error) {
	var installmentModels []models.InstallmentModel
	if err := r.conn(ctx).
		Where("booking_id = ?", bookingID).
		Order("sequence ASC").
		Find(&installmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainInstallments(installmentModels), nil
}

// FindOpenByBooking finds the unpaid installments of a booking ordered
// by sequence. The payment cascade walks this list front to back.
func (r *GormInstallmentRepository) FindOpenByBooking(ctx context.Context, bookingID uuid.UUID) ([]booking.Installment, error) {
	var installmentModels []models.InstallmentModel
	if err := r.conn(ctx).
		Where("booking_id = ? AND status IN ?", bookingID, openInstallmentStatuses).
		Order("sequence ASC").
		Find(&installmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainInstallments(installmentModels), nil
}

// FindByCustomer finds installments for a customer matching the filter
func (r *GormInstallmentRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter booking.InstallmentFilter) ([]booking.Installment, error) {
	var installmentModels []models.InstallmentModel
	query := r.applyFilter(
		r.conn(ctx).Model(&models.InstallmentModel{}).Where("customer_id = ?", customerID),
		filter,
	)

	if err := query.Find(&installmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainInstallments(installmentModels), nil
}

// FindByPlot finds installments for a plot matching the filter
func (r *GormInstallmentRepository) FindByPlot(ctx context.Context, plotID uuid.UUID, filter booking.InstallmentFilter) ([]booking.Installment, error) {
	var installmentModels []models.InstallmentModel
	query := r.applyFilter(
		r.conn(ctx).Model(&models.InstallmentModel{}).Where("plot_id = ?", plotID),
		filter,
	)

	if err := query.Find(&installmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainInstallments(installmentModels), nil
}

// FindDueForSweep finds unpaid installments due strictly before the
// cutoff, both the ones a sweep must still flag and the ones already
// flagged. A nil plotID spans all societies; a concrete one restricts
// the result to that plot.
func (r *GormInstallmentRepository) FindDueForSweep(ctx context.Context, cutoff time.Time, plotID *uuid.UUID) ([]booking.Installment, error) {
	sweepStatuses := []booking.InstallmentStatus{
		booking.InstallmentStatusPending,
		booking.InstallmentStatusOverdue,
	}
	query := r.conn(ctx).
		Where("status IN ? AND due_date < ?", sweepStatuses, cutoff)
	if plotID != nil {
		query = query.Where("plot_id = ?", *plotID)
	}

	var installmentModels []models.InstallmentModel
	if err := query.Order("due_date ASC, sequence ASC").Find(&installmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainInstallments(installmentModels), nil
}

// FindPendingByPlotAndCustomer finds the open installments a customer
// still owes on a plot, ordered by sequence
func (r *GormInstallmentRepository) FindPendingByPlotAndCustomer(ctx context.Context, plotID, customerID uuid.UUID) ([]booking.Installment, error) {
	var installmentModels []models.InstallmentModel
	if err := r.conn(ctx).
		Where("plot_id = ? AND customer_id = ? AND status IN ?", plotID, customerID, openInstallmentStatuses).
		Order("sequence ASC").
		Find(&installmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainInstallments(installmentModels), nil
}

// SaveAll persists a batch of installments in one statement
func (r *GormInstallmentRepository) SaveAll(ctx context.Context, installments []*booking.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	installmentModels := make([]*models.InstallmentModel, len(installments))
	for i, inst := range installments {
		installmentModels[i] = models.InstallmentModelFromDomain(inst)
	}
	return r.conn(ctx).Save(installmentModels).Error
}

// Save creates or updates an installment
func (r *GormInstallmentRepository) Save(ctx context.Context, inst *booking.Installment) error {
	model := models.InstallmentModelFromDomain(inst)
	return r.conn(ctx).Save(model).Error
}

// SaveWithLock saves an installment with optimistic locking (version check)
// Returns error if the version has changed (concurrent modification)
func (r *GormInstallmentRepository) SaveWithLock(ctx context.Context, inst *booking.Installment) error {
	model := models.InstallmentModelFromDomain(inst)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", inst.ID, inst.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The installment record has been modified by another transaction")
	}
	return nil
}

// CountOpenByBooking counts the unpaid installments of a booking
func (r *GormInstallmentRepository) CountOpenByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&models.InstallmentModel{}).
		Where("booking_id = ? AND status IN ?", bookingID, openInstallmentStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts installments matching the filter
func (r *GormInstallmentRepository) Count(ctx context.Context, filter booking.InstallmentFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&models.InstallmentModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetOverdueCount counts the overdue installments of a society. Backs
// the periodic gauge collection in telemetry.
func (r *GormInstallmentRepository) GetOverdueCount(ctx context.Context, societyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&models.InstallmentModel{}).
		Where("society_id = ? AND status = ?", societyID, booking.InstallmentStatusOverdue).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetOpenCount counts the pending or partially paid installments of a society
func (r *GormInstallmentRepository) GetOpenCount(ctx context.Context, societyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&models.InstallmentModel{}).
		Where("society_id = ? AND status IN ?", societyID,
			[]booking.InstallmentStatus{booking.InstallmentStatusPending, booking.InstallmentStatusPartiallyPaid}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination
func (r *GormInstallmentRepository) applyFilter(query *gorm.DB, filter booking.InstallmentFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, InstallmentSortFields, "due_date")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("due_date ASC, sequence ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInstallmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter booking.InstallmentFilter) *gorm.DB {
	if filter.SocietyID != nil {
		query = query.Where("society_id = ?", *filter.SocietyID)
	}
	if filter.BookingID != nil {
		query = query.Where("booking_id = ?", *filter.BookingID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.PlotID != nil {
		query = query.Where("plot_id = ?", *filter.PlotID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date < ?", *filter.DueBefore)
	}

	return query
}

// toDomainInstallments maps persistence models to domain entities
func toDomainInstallments(installmentModels []models.InstallmentModel) []booking.Installment {
	installments := make([]booking.Installment, len(installmentModels))
	for i, model := range installmentModels {
		installments[i] = *model.ToDomain()
	}
	return installments
}

// Ensure GormInstallmentRepository implements InstallmentRepository
var _ booking.InstallmentRepository = (*GormInstallmentRepository)(nil)
