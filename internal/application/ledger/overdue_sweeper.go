package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/booking"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OverdueSweeper flags unpaid installments whose due date has passed.
// The sweep only touches Pending installments, so running it twice on
// the same day marks nothing new and raises no duplicate events.
type OverdueSweeper struct {
	installmentRepo booking.InstallmentRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewOverdueSweeper creates a new OverdueSweeper
func NewOverdueSweeper(
	installmentRepo booking.InstallmentRepository,
	logger *zap.Logger,
) *OverdueSweeper {
	return &OverdueSweeper{
		installmentRepo: installmentRepo,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for overdue notifications
func (s *OverdueSweeper) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Sweep marks installments due before the start of the given day as
// overdue and reports the full overdue set, newly flagged and already
// flagged alike. A nil plotID sweeps every society; a concrete one
// restricts the sweep to that plot, which backs the on-demand overdue
// check. Events fire only for installments that transitioned on this
// run.
func (s *OverdueSweeper) Sweep(ctx context.Context, now time.Time, plotID *uuid.UUID) (*SweepResult, error) {
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	candidates, err := s.installmentRepo.FindDueForSweep(ctx, cutoff, plotID)
	if err != nil {
		return nil, fmt.Errorf("failed to find due installments: %w", err)
	}

	swept := 0
	overdue := make([]OverdueInstallment, 0, len(candidates))
	for idx := range candidates {
		inst := &candidates[idx]
		if inst.MarkOverdue(now) {
			if err := s.installmentRepo.SaveWithLock(ctx, inst); err != nil {
				s.logger.Error("failed to mark installment overdue",
					zap.String("installment_id", inst.ID.String()),
					zap.Int("sequence", inst.Sequence),
					zap.Error(err),
				)
				continue
			}
			swept++

			if s.eventPublisher != nil {
				for _, event := range inst.GetDomainEvents() {
					if err := s.eventPublisher.Publish(ctx, event); err != nil {
						s.logger.Warn("failed to publish overdue event",
							zap.String("installment_id", inst.ID.String()),
							zap.Error(err),
						)
					}
				}
				inst.ClearDomainEvents()
			}
		}

		if inst.Status != booking.InstallmentStatusOverdue {
			continue
		}
		overdue = append(overdue, OverdueInstallment{
			InstallmentID: inst.ID,
			BookingID:     inst.BookingID,
			CustomerID:    inst.CustomerID,
			PlotID:        inst.PlotID,
			Sequence:      inst.Sequence,
			DueDate:       inst.DueDate,
			Amount:        inst.Amount,
			Remaining:     inst.RemainingAmount,
		})
	}

	s.logger.Info("overdue sweep finished",
		zap.Time("cutoff", cutoff),
		zap.Int("candidates", len(candidates)),
		zap.Int("swept", swept),
	)

	return &SweepResult{SweptCount: swept, Cutoff: cutoff, PlotID: plotID, Installments: overdue}, nil
}
