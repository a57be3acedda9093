package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/estate/backend/internal/domain/booking"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBookingRepository implements BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a booking by its ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var model models.BookingModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a booking by its booking number
func (r *GormBookingRepository) FindByNumber(ctx context.Context, bookingNumber string) (*booking.Booking, error) {
	var model models.BookingModel
	if err := r.conn(ctx).First(&model, "booking_number = ?", bookingNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByPlot finds the non-terminal booking for a plot, if any.
// A plot has at most one booking outside the terminal states.
func (r *GormBookingRepository) FindActiveByPlot(ctx context.Context, plotID uuid.UUID) (*booking.Booking, error) {
	var model models.BookingModel
	if err := r.conn(ctx).
		Where("plot_id = ? AND status NOT IN ?", plotID, []booking.BookingStatus{
			booking.BookingStatusSold,
			booking.BookingStatusCompleted,
			booking.BookingStatusTransfer,
		}).
		Order("booking_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all bookings matching the filter
func (r *GormBookingRepository) FindAll(ctx context.Context, filter booking.BookingFilter) ([]booking.Booking, error) {
	var bookingModels []models.BookingModel
	query := r.applyFilter(r.conn(ctx).Model(&models.BookingModel{}), filter)

	if err := query.Find(&bookingModels).Error; err != nil {
		return nil, err
	}

	bookings := make([]booking.Booking, len(bookingModels))
	for i, model := range bookingModels {
		bookings[i] = *model.ToDomain()
	}
	return bookings, nil
}

// Save creates or updates a booking
func (r *GormBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	model := models.BookingModelFromDomain(b)
	return r.conn(ctx).Save(model).Error
}

// SaveWithLock saves a booking with optimistic locking (version check)
// Returns error if the version has changed (concurrent modification)
func (r *GormBookingRepository) SaveWithLock(ctx context.Context, b *booking.Booking) error {
	model := models.BookingModelFromDomain(b)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", b.ID, b.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The booking record has been modified by another transaction")
	}
	return nil
}

// Count counts bookings matching the filter
func (r *GormBookingRepository) Count(ctx context.Context, filter booking.BookingFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&models.BookingModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextBookingNumber draws the next booking number for a society from an
// atomic per-society counter. The upsert increments and returns the
// counter in one statement, so concurrent callers never see duplicates.
func (r *GormBookingRepository) NextBookingNumber(ctx context.Context, societyID uuid.UUID) (string, error) {
	var next int64
	err := r.conn(ctx).Raw(`
		INSERT INTO booking_sequences (society_id, next_value, updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (society_id)
		DO UPDATE SET next_value = booking_sequences.next_value + 1, updated_at = NOW()
		RETURNING next_value`, societyID).Scan(&next).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("BK-%06d", next), nil
}

// applyFilter applies filter options including pagination
func (r *GormBookingRepository) applyFilter(query *gorm.DB, filter booking.BookingFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, BookingSortFields, "booking_date")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("booking_date DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBookingRepository) applyFilterWithoutPagination(query *gorm.DB, filter booking.BookingFilter) *gorm.DB {
	if filter.SocietyID != nil {
		query = query.Where("society_id = ?", *filter.SocietyID)
	}
	if filter.PlotID != nil {
		query = query.Where("plot_id = ?", *filter.PlotID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Mode != nil {
		query = query.Where("payment_mode = ?", *filter.Mode)
	}
	if filter.FromDate != nil {
		query = query.Where("booking_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("booking_date <= ?", *filter.ToDate)
	}

	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("booking_number ILIKE ?", searchPattern)
	}

	return query
}

// Ensure GormBookingRepository implements BookingRepository
var _ booking.BookingRepository = (*GormBookingRepository)(nil)
