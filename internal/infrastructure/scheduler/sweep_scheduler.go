// Package scheduler runs the daily overdue installment sweep on a
// cron-like schedule.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/estate/backend/internal/application/ledger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// cronTickerInterval is the interval at which the scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// Sweeper marks past-due installments as overdue. A nil plot ID sweeps
// the whole book.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time, plotID *uuid.UUID) (*ledger.SweepResult, error)
}

// SweepSchedulerConfig holds configuration for the cron-based sweep scheduler
type SweepSchedulerConfig struct {
	// Enabled indicates if the sweep scheduler is enabled
	Enabled bool
	// CronHour is the hour (0-23) to run the daily sweep
	CronHour int
	// CronMinute is the minute (0-59) to run the daily sweep
	CronMinute int
	// DailyCronSchedule is the cron expression (parsed to extract hour/minute)
	DailyCronSchedule string
	// JobTimeout is the maximum time a single sweep can run
	JobTimeout time.Duration
}

// DefaultSweepSchedulerConfig returns default sweep scheduler configuration
// Defaults to running at 1:00 AM daily
func DefaultSweepSchedulerConfig() SweepSchedulerConfig {
	return SweepSchedulerConfig{
		Enabled:           true,
		CronHour:          1,
		CronMinute:        0,
		DailyCronSchedule: "0 1 * * *",
		JobTimeout:        10 * time.Minute,
	}
}

// ParseCronSchedule parses a cron expression "minute hour * * *" to extract hour and minute
// Returns defaults (1:00) if parsing fails or expression is empty
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	// Default values
	hour = 1
	minute = 0

	if cronExpr == "" {
		return hour, minute, nil
	}

	parts := strings.Fields(cronExpr)

	if len(parts) < 2 {
		return hour, minute, nil
	}

	// Parse minute
	if parts[0] != "*" {
		if val, parseErr := parseIntOrDefault(parts[0], 0); parseErr == nil {
			minute = val
		}
	}

	// Parse hour
	if parts[1] != "*" {
		if val, parseErr := parseIntOrDefault(parts[1], 1); parseErr == nil {
			hour = val
		}
	}

	// Validate ranges
	if minute < 0 || minute > 59 {
		return 1, 0, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return 1, 0, fmt.Errorf("hour must be 0-23, got %d", hour)
	}

	return hour, minute, nil
}

// parseIntOrDefault parses an int string or returns default
func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" || s == "*" {
		return defaultVal, nil
	}
	var val int
	for _, c := range s {
		if c < '0' || c > '9' {
			return defaultVal, ErrInvalidConfig
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// SweepRunRecord represents a record of a sweep execution
type SweepRunRecord struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Status      string     `gorm:"column:status;size:20"`
	SweptCount  int        `gorm:"column:swept_count"`
	Error       string     `gorm:"column:last_error;type:text"`
	StartedAt   *time.Time `gorm:"column:started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (SweepRunRecord) TableName() string {
	return "overdue_sweep_runs"
}

const (
	sweepStatusRunning = "RUNNING"
	sweepStatusSuccess = "SUCCESS"
	sweepStatusFailed  = "FAILED"
)

// SweepRunRepository handles persistence of sweep run records
type SweepRunRepository struct {
	db *gorm.DB
}

// NewSweepRunRepository creates a new SweepRunRepository
func NewSweepRunRepository(db *gorm.DB) *SweepRunRepository {
	return &SweepRunRepository{db: db}
}

// RecordRunStart records the start of a sweep execution
func (r *SweepRunRepository) RecordRunStart(ctx context.Context) (uuid.UUID, error) {
	now := time.Now()
	record := &SweepRunRecord{
		ID:        uuid.New(),
		Status:    sweepStatusRunning,
		StartedAt: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// RecordRunComplete records the completion of a sweep
func (r *SweepRunRepository) RecordRunComplete(ctx context.Context, runID uuid.UUID, sweptCount int, errMsg string) error {
	now := time.Now()
	status := sweepStatusSuccess
	if errMsg != "" {
		status = sweepStatusFailed
	}
	return r.db.WithContext(ctx).
		Model(&SweepRunRecord{}).
		Where("id = ?", runID).
		Updates(map[string]any{
			"status":       status,
			"swept_count":  sweptCount,
			"last_error":   errMsg,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// GetLastRun gets the most recent sweep run record
func (r *SweepRunRepository) GetLastRun(ctx context.Context) (*SweepRunRecord, error) {
	var record SweepRunRecord
	if err := r.db.WithContext(ctx).Order("started_at DESC").First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// SweepScheduler runs the overdue sweep once a day at the configured time.
// It uses a minute ticker rather than a cron library; the last run date
// is tracked so a tick landing twice in the same minute cannot double-run.
type SweepScheduler struct {
	config  SweepSchedulerConfig
	sweeper Sweeper
	runRepo *SweepRunRepository
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	sweeping  bool

	lastRunDate string // Track which date we last ran for
	lastRunAt   *time.Time
	nextRunAt   *time.Time
}

// NewSweepScheduler creates a new cron-based sweep scheduler
func NewSweepScheduler(
	config SweepSchedulerConfig,
	sweeper Sweeper,
	runRepo *SweepRunRepository,
	logger *zap.Logger,
) *SweepScheduler {
	return &SweepScheduler{
		config:  config,
		sweeper: sweeper,
		runRepo: runRepo,
		logger:  logger,
	}
}

// Start starts the sweep scheduler
func (s *SweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Overdue sweep scheduler started",
		zap.Int("cron_hour", s.config.CronHour),
		zap.Int("cron_minute", s.config.CronMinute),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the sweep scheduler
func (s *SweepScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Overdue sweep scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Overdue sweep scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop runs the main cron loop
func (s *SweepScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.checkAndRun(ctx, now)
		}
	}
}

// checkAndRun runs the sweep if the tick matches the configured time
// and the sweep has not already run today.
func (s *SweepScheduler) checkAndRun(ctx context.Context, now time.Time) {
	if !s.shouldRun(now) {
		return
	}

	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	if s.lastRunDate == currentDate {
		s.mu.Unlock()
		return
	}
	s.lastRunDate = currentDate
	s.mu.Unlock()

	s.runSweep(ctx)
	s.calculateNextRunTime()
}

// shouldRun checks if the cron should run at the given time
func (s *SweepScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.config.CronHour && now.Minute() == s.config.CronMinute
}

// calculateNextRunTime calculates the next run time
func (s *SweepScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.CronHour, s.config.CronMinute, 0, 0, now.Location())

	// If we've already passed today's run time, schedule for tomorrow
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runSweep executes the overdue sweep with the configured timeout
func (s *SweepScheduler) runSweep(ctx context.Context) {
	s.mu.Lock()
	if s.sweeping {
		s.mu.Unlock()
		s.logger.Warn("Skipping sweep, previous run still in progress")
		return
	}
	s.sweeping = true
	now := time.Now()
	s.lastRunAt = &now
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sweeping = false
		s.mu.Unlock()
	}()

	s.logger.Info("Starting daily overdue sweep")

	sweepCtx := ctx
	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		sweepCtx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	var runID uuid.UUID
	if s.runRepo != nil {
		var recordErr error
		runID, recordErr = s.runRepo.RecordRunStart(sweepCtx)
		if recordErr != nil {
			s.logger.Warn("Failed to record sweep run start", zap.Error(recordErr))
		}
	}

	result, err := s.sweeper.Sweep(sweepCtx, now, nil)
	if err != nil {
		s.logger.Error("Daily overdue sweep failed", zap.Error(err))
		if s.runRepo != nil && runID != uuid.Nil {
			_ = s.runRepo.RecordRunComplete(sweepCtx, runID, 0, err.Error())
		}
		return
	}

	if s.runRepo != nil && runID != uuid.Nil {
		_ = s.runRepo.RecordRunComplete(sweepCtx, runID, result.SweptCount, "")
	}

	s.logger.Info("Daily overdue sweep finished",
		zap.Int("swept_count", result.SweptCount),
		zap.Time("cutoff", result.Cutoff),
	)
}

// TriggerManualRun triggers a manual run of the overdue sweep
// Note: Uses background context to avoid premature cancellation when HTTP request completes
func (s *SweepScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	if s.sweeping {
		s.mu.Unlock()
		return ErrSweepAlreadyRunning
	}
	s.mu.Unlock()

	go s.runSweep(context.Background())
	return nil
}

// GetStatus returns the current status of the sweep scheduler
func (s *SweepScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":       s.config.Enabled,
		"is_running":    s.isRunning,
		"sweeping":      s.sweeping,
		"cron_hour":     s.config.CronHour,
		"cron_minute":   s.config.CronMinute,
		"cron_schedule": "Daily",
		"last_run_at":   s.lastRunAt,
		"next_run_at":   s.nextRunAt,
	}
}

// GetNextRunAt returns when the next scheduled run will occur
func (s *SweepScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// GetLastRunAt returns when the last run occurred
func (s *SweepScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
