// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the plot sale ledger.
// It tracks booking creation, payment activity, and installment health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	bookingCreatedTotal *Counter
	bookingAmountTotal  *Counter
	paymentTotal        *Counter
	paymentAmountTotal  *Counter

	// Gauge metrics (point-in-time values)
	overdueInstallmentCount *Gauge
	openInstallmentCount    *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	installmentProvider InstallmentMetricsProvider
}

// InstallmentMetricsProvider provides installment data for periodic metrics
// collection. This interface allows the telemetry layer to query schedule
// state without depending on the booking domain directly.
type InstallmentMetricsProvider interface {
	// GetOverdueCount returns the number of overdue installments for a society
	GetOverdueCount(ctx context.Context, societyID uuid.UUID) (int64, error)

	// GetOpenCount returns the number of pending or partially paid installments for a society
	GetOpenCount(ctx context.Context, societyID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter               metric.Meter
	Logger              *zap.Logger
	CollectInterval     time.Duration // Default: 5 minutes
	InstallmentProvider InstallmentMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:               cfg.Meter,
		logger:              logger,
		stopChan:            make(chan struct{}),
		installmentProvider: cfg.InstallmentProvider,
	}

	// Initialize counter metrics
	var err error

	// Booking metrics
	bm.bookingCreatedTotal, err = NewCounter(
		cfg.Meter,
		"estate_booking_created_total",
		"Total number of bookings created",
		"{bookings}",
	)
	if err != nil {
		return nil, err
	}

	bm.bookingAmountTotal, err = NewCounter(
		cfg.Meter,
		"estate_booking_amount_total",
		"Total booked sale amount in paisa",
		"{paisa}",
	)
	if err != nil {
		return nil, err
	}

	// Payment metrics
	bm.paymentTotal, err = NewCounter(
		cfg.Meter,
		"estate_payment_total",
		"Total number of ledger transactions recorded",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	bm.paymentAmountTotal, err = NewCounter(
		cfg.Meter,
		"estate_payment_amount_total",
		"Total transaction amount in paisa",
		"{paisa}",
	)
	if err != nil {
		return nil, err
	}

	// Installment gauge metrics
	bm.overdueInstallmentCount, err = NewGauge(
		cfg.Meter,
		"estate_installment_overdue_count",
		"Number of installments currently overdue",
		"{installments}",
	)
	if err != nil {
		return nil, err
	}

	bm.openInstallmentCount, err = NewGauge(
		cfg.Meter,
		"estate_installment_open_count",
		"Number of pending or partially paid installments",
		"{installments}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Booking Metrics
// =============================================================================

// RecordBookingCreated records a booking creation event.
// This should be called from the application layer when a booking is created.
func (bm *BusinessMetrics) RecordBookingCreated(ctx context.Context, societyID uuid.UUID, paymentMode string) {
	bm.bookingCreatedTotal.Inc(ctx,
		AttrSocietyID.String(societyID.String()),
		AttrPaymentMode.String(paymentMode),
	)
}

// RecordBookingAmount records the booked sale amount.
// Amount should be in the smallest currency unit (paisa).
func (bm *BusinessMetrics) RecordBookingAmount(ctx context.Context, societyID uuid.UUID, paymentMode string, amountPaisa int64) {
	bm.bookingAmountTotal.Add(ctx, amountPaisa,
		AttrSocietyID.String(societyID.String()),
		AttrPaymentMode.String(paymentMode),
	)
}

// RecordBookingWithAmount is a convenience method that records both booking count and amount.
func (bm *BusinessMetrics) RecordBookingWithAmount(ctx context.Context, societyID uuid.UUID, paymentMode string, amount decimal.Decimal) {
	bm.RecordBookingCreated(ctx, societyID, paymentMode)

	// Convert to paisa (multiply by 100)
	amountPaisa := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordBookingAmount(ctx, societyID, paymentMode, amountPaisa)
}

// =============================================================================
// Payment Metrics
// =============================================================================

// RecordTransaction records a ledger transaction.
// Direction is "income" or "expense"; transactionType is the ledger type code.
func (bm *BusinessMetrics) RecordTransaction(ctx context.Context, societyID uuid.UUID, transactionType, direction string, amount decimal.Decimal) {
	bm.paymentTotal.Inc(ctx,
		AttrSocietyID.String(societyID.String()),
		AttrTransactionType.String(transactionType),
		AttrDirection.String(direction),
	)

	amountPaisa := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.paymentAmountTotal.Add(ctx, amountPaisa,
		AttrSocietyID.String(societyID.String()),
		AttrTransactionType.String(transactionType),
		AttrDirection.String(direction),
	)
}

// =============================================================================
// Installment Metrics
// =============================================================================

// RecordOverdueCount records the number of overdue installments for a society.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOverdueCount(ctx context.Context, societyID uuid.UUID, count int64) {
	bm.overdueInstallmentCount.Record(ctx, count,
		AttrSocietyID.String(societyID.String()),
	)
}

// RecordOpenCount records the number of pending or partially paid installments.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOpenCount(ctx context.Context, societyID uuid.UUID, count int64) {
	bm.openInstallmentCount.Record(ctx, count,
		AttrSocietyID.String(societyID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// SocietyProvider provides society IDs for periodic metrics collection.
type SocietyProvider interface {
	GetActiveSocietyIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects installment metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, societyProvider SocietyProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, societyProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, societyProvider SocietyProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectInstallmentMetrics(ctx, societyProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectInstallmentMetrics(ctx, societyProvider)
		}
	}
}

// collectInstallmentMetrics collects installment gauge metrics for all societies.
func (bm *BusinessMetrics) collectInstallmentMetrics(ctx context.Context, societyProvider SocietyProvider) {
	if bm.installmentProvider == nil {
		bm.logger.Debug("No installment provider configured, skipping installment metrics collection")
		return
	}

	societyIDs, err := societyProvider.GetActiveSocietyIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get society IDs for metrics collection", zap.Error(err))
		return
	}

	for _, societyID := range societyIDs {
		bm.collectSocietyInstallmentMetrics(ctx, societyID)
	}
}

// collectSocietyInstallmentMetrics collects installment metrics for a single society.
func (bm *BusinessMetrics) collectSocietyInstallmentMetrics(ctx context.Context, societyID uuid.UUID) {
	overdueCount, err := bm.installmentProvider.GetOverdueCount(ctx, societyID)
	if err != nil {
		bm.logger.Warn("Failed to get overdue installment count for society",
			zap.String("society_id", societyID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOverdueCount(ctx, societyID, overdueCount)
	}

	openCount, err := bm.installmentProvider.GetOpenCount(ctx, societyID)
	if err != nil {
		bm.logger.Warn("Failed to get open installment count for society",
			zap.String("society_id", societyID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOpenCount(ctx, societyID, openCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
