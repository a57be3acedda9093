package handler

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/booking"
	"github.com/estate/backend/internal/domain/estate"
	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// dateLayout is the accepted format for date range query parameters
const dateLayout = "2006-01-02"

// listQuery captures the common pagination and ordering query parameters
type listQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string `form:"search"`
}

func (q listQuery) toFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		filter.OrderDir = q.OrderDir
	}
	filter.Search = q.Search
	return filter
}

// parseOptionalUUID parses an optional uuid query value
func parseOptionalUUID(value, name string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &id, nil
}

// parseOptionalDate parses an optional YYYY-MM-DD query value
func parseOptionalDate(value, name string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &t, nil
}

// plotListQuery captures plot list query parameters
type plotListQuery struct {
	listQuery
	SocietyID    string `form:"society_id"`
	Block        string `form:"block"`
	Status       string `form:"status"`
	BookingState string `form:"booking_state"`
	Category     string `form:"category"`
	PlotType     string `form:"plot_type"`
	CustomerID   string `form:"customer_id"`
}

func (q plotListQuery) toFilter() (estate.PlotFilter, error) {
	filter := estate.PlotFilter{Filter: q.listQuery.toFilter()}

	societyID, err := parseOptionalUUID(q.SocietyID, "society_id")
	if err != nil {
		return filter, err
	}
	filter.SocietyID = societyID

	customerID, err := parseOptionalUUID(q.CustomerID, "customer_id")
	if err != nil {
		return filter, err
	}
	filter.CustomerID = customerID

	if q.Block != "" {
		block := q.Block
		filter.Block = &block
	}
	if q.Status != "" {
		status := estate.PlotStatus(q.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("invalid status: %s", q.Status)
		}
		filter.Status = &status
	}
	if q.BookingState != "" {
		state := estate.BookingState(q.BookingState)
		if !state.IsValid() {
			return filter, fmt.Errorf("invalid booking_state: %s", q.BookingState)
		}
		filter.BookingState = &state
	}
	if q.Category != "" {
		category := estate.PlotCategory(q.Category)
		if !category.IsValid() {
			return filter, fmt.Errorf("invalid category: %s", q.Category)
		}
		filter.Category = &category
	}
	if q.PlotType != "" {
		plotType := estate.PlotType(q.PlotType)
		if !plotType.IsValid() {
			return filter, fmt.Errorf("invalid plot_type: %s", q.PlotType)
		}
		filter.PlotType = &plotType
	}
	return filter, nil
}

// bookingListQuery captures booking list query parameters
type bookingListQuery struct {
	listQuery
	SocietyID  string `form:"society_id"`
	PlotID     string `form:"plot_id"`
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	Mode       string `form:"payment_mode"`
	FromDate   string `form:"from_date"`
	ToDate     string `form:"to_date"`
}

func (q bookingListQuery) toFilter() (booking.BookingFilter, error) {
	filter := booking.BookingFilter{Filter: q.listQuery.toFilter()}

	societyID, err := parseOptionalUUID(q.SocietyID, "society_id")
	if err != nil {
		return filter, err
	}
	filter.SocietyID = societyID

	plotID, err := parseOptionalUUID(q.PlotID, "plot_id")
	if err != nil {
		return filter, err
	}
	filter.PlotID = plotID

	customerID, err := parseOptionalUUID(q.CustomerID, "customer_id")
	if err != nil {
		return filter, err
	}
	filter.CustomerID = customerID

	if q.Status != "" {
		status := booking.BookingStatus(q.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("invalid status: %s", q.Status)
		}
		filter.Status = &status
	}
	if q.Mode != "" {
		mode := booking.PaymentMode(q.Mode)
		if !mode.IsValid() {
			return filter, fmt.Errorf("invalid payment_mode: %s", q.Mode)
		}
		filter.Mode = &mode
	}

	fromDate, err := parseOptionalDate(q.FromDate, "from_date")
	if err != nil {
		return filter, err
	}
	filter.FromDate = fromDate

	toDate, err := parseOptionalDate(q.ToDate, "to_date")
	if err != nil {
		return filter, err
	}
	filter.ToDate = toDate

	return filter, nil
}

// installmentListQuery captures installment list query parameters
type installmentListQuery struct {
	listQuery
	Status    string `form:"status"`
	DueBefore string `form:"due_before"`
}

func (q installmentListQuery) toFilter() (booking.InstallmentFilter, error) {
	filter := booking.InstallmentFilter{Filter: q.listQuery.toFilter()}

	if q.Status != "" {
		status := booking.InstallmentStatus(q.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("invalid status: %s", q.Status)
		}
		filter.Status = &status
	}

	dueBefore, err := parseOptionalDate(q.DueBefore, "due_before")
	if err != nil {
		return filter, err
	}
	filter.DueBefore = dueBefore

	return filter, nil
}

// transactionListQuery captures ledger list query parameters
type transactionListQuery struct {
	listQuery
	SocietyID  string `form:"society_id"`
	CustomerID string `form:"customer_id"`
	PlotID     string `form:"plot_id"`
	BookingID  string `form:"booking_id"`
	Type       string `form:"type"`
	Direction  string `form:"direction"`
	FromDate   string `form:"from_date"`
	ToDate     string `form:"to_date"`
	MinAmount  string `form:"min_amount"`
}

func (q transactionListQuery) toFilter() (finance.TransactionFilter, error) {
	filter := finance.TransactionFilter{Filter: q.listQuery.toFilter()}

	societyID, err := parseOptionalUUID(q.SocietyID, "society_id")
	if err != nil {
		return filter, err
	}
	filter.SocietyID = societyID

	customerID, err := parseOptionalUUID(q.CustomerID, "customer_id")
	if err != nil {
		return filter, err
	}
	filter.CustomerID = customerID

	plotID, err := parseOptionalUUID(q.PlotID, "plot_id")
	if err != nil {
		return filter, err
	}
	filter.PlotID = plotID

	bookingID, err := parseOptionalUUID(q.BookingID, "booking_id")
	if err != nil {
		return filter, err
	}
	filter.BookingID = bookingID

	if q.Type != "" {
		typeCode := q.Type
		filter.TypeCode = &typeCode
	}
	if q.Direction != "" {
		direction := finance.Direction(q.Direction)
		if !direction.IsValid() {
			return filter, fmt.Errorf("invalid direction: %s", q.Direction)
		}
		filter.Direction = &direction
	}

	fromDate, err := parseOptionalDate(q.FromDate, "from_date")
	if err != nil {
		return filter, err
	}
	filter.FromDate = fromDate

	toDate, err := parseOptionalDate(q.ToDate, "to_date")
	if err != nil {
		return filter, err
	}
	filter.ToDate = toDate

	if q.MinAmount != "" {
		amount, err := decimal.NewFromString(q.MinAmount)
		if err != nil {
			return filter, fmt.Errorf("invalid min_amount: %w", err)
		}
		filter.MinAmount = &amount
	}

	return filter, nil
}
