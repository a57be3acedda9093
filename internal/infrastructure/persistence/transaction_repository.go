package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM.
// The ledger is append-only: rows are inserted and read, never updated
// or deleted.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

func (r *GormTransactionRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinancialTransaction, error) {
	var model models.TransactionModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all transactions matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter finance.TransactionFilter) ([]finance.FinancialTransaction, error) {
	var transactionModels []models.TransactionModel
	query := r.applyFilter(r.conn(ctx).Model(&models.TransactionModel{}), filter)

	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]finance.FinancialTransaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// FindByBooking finds all ledger rows of a booking in insertion order
func (r *GormTransactionRepository) FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]finance.FinancialTransaction, error) {
	var transactionModels []models.TransactionModel
	if err := r.conn(ctx).
		Where("booking_id = ?", bookingID).
		Order("transaction_date ASC, created_at ASC").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]finance.FinancialTransaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// Save appends a transaction to the ledger. Existing rows are never
// overwritten, so this is always an insert.
func (r *GormTransactionRepository) Save(ctx context.Context, t *finance.FinancialTransaction) error {
	model := models.TransactionModelFromDomain(t)
	return r.conn(ctx).Create(model).Error
}

// Summarize computes income and expense totals over the filtered rows
func (r *GormTransactionRepository) Summarize(ctx context.Context, filter finance.TransactionFilter) (*finance.LedgerSummary, error) {
	var row struct {
		TotalIncome  decimal.Decimal
		TotalExpense decimal.Decimal
		Count        int64
	}

	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&models.TransactionModel{}), filter)
	if err := query.
		Select(
			"COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE 0 END), 0) AS total_income, "+
				"COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE 0 END), 0) AS total_expense, "+
				"COUNT(*) AS count",
			finance.DirectionIncome, finance.DirectionExpense,
		).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	return &finance.LedgerSummary{
		TotalIncome:  row.TotalIncome,
		TotalExpense: row.TotalExpense,
		Net:          row.TotalIncome.Sub(row.TotalExpense),
		Count:        row.Count,
	}, nil
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter finance.TransactionFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&models.TransactionModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter finance.TransactionFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "transaction_date")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("transaction_date DESC, created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter finance.TransactionFilter) *gorm.DB {
	if filter.SocietyID != nil {
		query = query.Where("society_id = ?", *filter.SocietyID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.PlotID != nil {
		query = query.Where("plot_id = ?", *filter.PlotID)
	}
	if filter.BookingID != nil {
		query = query.Where("booking_id = ?", *filter.BookingID)
	}
	if filter.TypeCode != nil {
		query = query.Where("type = ?", *filter.TypeCode)
	}
	if filter.Direction != nil {
		query = query.Where("direction = ?", *filter.Direction)
	}
	if filter.FromDate != nil {
		query = query.Where("transaction_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("transaction_date <= ?", *filter.ToDate)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}

	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("description ILIKE ? OR receipt_no ILIKE ?", searchPattern, searchPattern)
	}

	return query
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)
