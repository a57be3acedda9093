package ledger

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/booking"
	"github.com/estate/backend/internal/domain/estate"
	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/estate/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService applies payments against installment schedules and
// keeps the append-only transaction ledger
type LedgerService struct {
	bookingRepo     booking.BookingRepository
	installmentRepo booking.InstallmentRepository
	plotRepo        estate.PlotRepository
	ledgerRepo      finance.TransactionRepository
	txRunner        shared.TxRunner
	eventPublisher  shared.EventPublisher
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	bookingRepo booking.BookingRepository,
	installmentRepo booking.InstallmentRepository,
	plotRepo estate.PlotRepository,
	ledgerRepo finance.TransactionRepository,
	txRunner shared.TxRunner,
) *LedgerService {
	return &LedgerService{
		bookingRepo:     bookingRepo,
		installmentRepo: installmentRepo,
		plotRepo:        plotRepo,
		ledgerRepo:      ledgerRepo,
		txRunner:        txRunner,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ApplyPayment applies a payment to a booking's open installments in
// sequence order. A payment larger than the first open installment
// cascades into the next one until it is consumed; whatever exceeds
// the whole schedule is reported back as unapplied. One ledger row is
// appended per touched installment. When the last open installment
// settles, the booking completes and the plot is marked sold.
func (s *LedgerService) ApplyPayment(ctx context.Context, req ApplyPaymentRequest) (*PaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "apply_payment")
	defer span.End()

	telemetry.SetAttributes(span,
		"booking_id", req.BookingID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		err := shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
		telemetry.RecordError(span, err)
		return nil, err
	}

	var (
		result    *PaymentResult
		published []shared.AggregateRoot
	)

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.loadActiveBooking(ctx, req.BookingID)
		if err != nil {
			return err
		}

		open, err := s.installmentRepo.FindOpenByBooking(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("failed to get open installments: %w", err)
		}

		result, published, err = s.applySchedule(ctx, b, open, 0, req.Amount, req.ReceiptNo, req.PaymentMethod, req.Description)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "payment_applied",
		"applied_amount", result.AppliedAmount.String(),
		"unapplied_amount", result.UnappliedAmount.String(),
		"installments_touched", len(result.Applications),
	)

	s.publishEvents(ctx, published...)

	return result, nil
}

// ApplyPaymentToInstallment applies a payment against one named
// installment. Overflow beyond the installment's remaining amount
// cascades into the later open installments of the same booking,
// exactly as a booking-scoped payment would from that point on.
// Earlier open installments are left untouched, so the booking cannot
// complete while any of them carries a balance.
func (s *LedgerService) ApplyPaymentToInstallment(ctx context.Context, req ApplyInstallmentPaymentRequest) (*PaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "apply_installment_payment")
	defer span.End()

	telemetry.SetAttributes(span,
		"installment_id", req.InstallmentID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		err := shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
		telemetry.RecordError(span, err)
		return nil, err
	}

	var (
		result    *PaymentResult
		published []shared.AggregateRoot
	)

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		inst, err := s.installmentRepo.FindByID(ctx, req.InstallmentID)
		if err != nil {
			return fmt.Errorf("failed to get installment: %w", err)
		}
		if inst == nil {
			return shared.NewDomainError("NOT_FOUND", "Installment not found")
		}
		if inst.IsSettled() {
			return shared.NewDomainError("ALREADY_SETTLED", "Installment is already fully paid")
		}

		b, err := s.loadActiveBooking(ctx, inst.BookingID)
		if err != nil {
			return err
		}

		open, err := s.installmentRepo.FindOpenByBooking(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("failed to get open installments: %w", err)
		}

		result, published, err = s.applySchedule(ctx, b, open, inst.Sequence, req.Amount, req.ReceiptNo, req.PaymentMethod, req.Description)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "payment_applied",
		"applied_amount", result.AppliedAmount.String(),
		"unapplied_amount", result.UnappliedAmount.String(),
		"installments_touched", len(result.Applications),
	)

	s.publishEvents(ctx, published...)

	return result, nil
}

// loadActiveBooking fetches a booking and rejects payments against one
// that is not in a paying state.
func (s *LedgerService) loadActiveBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if b == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Booking not found")
	}
	if !b.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Booking in %s status does not accept payments", b.Status))
	}
	return b, nil
}

// applySchedule walks the booking's open installments in sequence order
// and consumes the payment amount, starting at fromSequence. One ledger
// row is appended per installment touched. Must run inside the caller's
// transaction.
func (s *LedgerService) applySchedule(ctx context.Context, b *booking.Booking, open []booking.Installment, fromSequence int, amount decimal.Decimal, receiptNo, paymentMethod, description string) (*PaymentResult, []shared.AggregateRoot, error) {
	var published []shared.AggregateRoot

	remaining := valueobject.NewMoneyPKR(amount)
	applications := make([]InstallmentApplication, 0, len(open))
	allSettled := true

	for idx := range open {
		inst := &open[idx]
		if inst.Sequence < fromSequence || remaining.Amount().LessThanOrEqual(decimal.Zero) {
			allSettled = allSettled && inst.IsSettled()
			continue
		}

		applied := inst.AppliedPortion(remaining)
		overflow, err := inst.ApplyAmount(remaining, receiptNo)
		if err != nil {
			return nil, nil, err
		}
		remaining = overflow

		if err := s.installmentRepo.SaveWithLock(ctx, inst); err != nil {
			return nil, nil, fmt.Errorf("failed to save installment %d: %w", inst.Sequence, err)
		}

		row, err := finance.NewFinancialTransaction(finance.TransactionRecord{
			SocietyID:     b.SocietyID,
			CustomerID:    &inst.CustomerID,
			PlotID:        &inst.PlotID,
			BookingID:     &b.ID,
			Amount:        applied,
			Type:          finance.TransactionTypeInstallmentPayment,
			Direction:     finance.DirectionIncome,
			PaymentMethod: paymentMethod,
			Description:   description,
			ReceiptNo:     receiptNo,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := s.ledgerRepo.Save(ctx, row); err != nil {
			return nil, nil, fmt.Errorf("failed to append ledger row: %w", err)
		}

		applications = append(applications, InstallmentApplication{
			InstallmentID: inst.ID,
			Sequence:      inst.Sequence,
			Applied:       applied.Amount(),
			Remaining:     inst.RemainingAmount,
			Status:        inst.Status.String(),
		})
		published = append(published, inst, row)
		allSettled = allSettled && inst.IsSettled()
	}

	appliedTotal := amount.Sub(remaining.Amount())
	if appliedTotal.GreaterThan(decimal.Zero) {
		if err := b.RegisterPayment(valueobject.NewMoneyPKR(appliedTotal)); err != nil {
			return nil, nil, err
		}
	}

	completed := false
	if len(open) > 0 && allSettled {
		if err := b.MarkCompleted(); err != nil {
			return nil, nil, err
		}
		completed = true

		plot, err := s.plotRepo.FindByID(ctx, b.PlotID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get plot: %w", err)
		}
		if plot == nil {
			return nil, nil, shared.NewDomainError("NOT_FOUND", "Plot not found")
		}
		if err := plot.MarkSold(b.CustomerID, b.ID, b.GetTotalAmountMoney()); err != nil {
			return nil, nil, err
		}
		if err := s.plotRepo.SaveWithLock(ctx, plot); err != nil {
			return nil, nil, fmt.Errorf("failed to save plot: %w", err)
		}
		published = append(published, plot)
	}

	if err := s.bookingRepo.SaveWithLock(ctx, b); err != nil {
		return nil, nil, fmt.Errorf("failed to save booking: %w", err)
	}
	published = append(published, b)

	result := &PaymentResult{
		BookingID:        b.ID,
		AppliedAmount:    appliedTotal,
		UnappliedAmount:  remaining.Amount(),
		Applications:     applications,
		BookingCompleted: completed,
	}
	return result, published, nil
}

// RecordTransaction appends a direct ledger row. Zero and negative
// amounts are silently skipped so bulk imports with blank rows do not
// abort halfway.
func (s *LedgerService) RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*TransactionResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}

	direction := finance.Direction(req.Direction)
	row, err := finance.NewFinancialTransaction(finance.TransactionRecord{
		SocietyID:     req.SocietyID,
		CustomerID:    req.CustomerID,
		PlotID:        req.PlotID,
		BookingID:     req.BookingID,
		EmployeeID:    req.EmployeeID,
		Amount:        valueobject.NewMoneyPKR(req.Amount),
		Type:          finance.ParseTransactionType(req.Type),
		Direction:     direction,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		ReceiptNo:     req.ReceiptNo,
	})
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Save(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to append ledger row: %w", err)
	}

	s.publishEvents(ctx, row)

	response := ToTransactionResponse(row)
	return &response, nil
}

// GetByID returns a ledger row by ID
func (s *LedgerService) GetByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	row, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Transaction not found")
	}
	response := ToTransactionResponse(row)
	return &response, nil
}

// List returns ledger rows matching the filter
func (s *LedgerService) List(ctx context.Context, filter finance.TransactionFilter) ([]TransactionResponse, int64, error) {
	rows, err := s.ledgerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ledgerRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransactionResponses(rows), total, nil
}

// ListByBooking returns the payment history of a booking
func (s *LedgerService) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]TransactionResponse, error) {
	rows, err := s.ledgerRepo.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(rows), nil
}

// Summarize computes income and expense totals for the filter
func (s *LedgerService) Summarize(ctx context.Context, filter finance.TransactionFilter) (*finance.LedgerSummary, error) {
	return s.ledgerRepo.Summarize(ctx, filter)
}

// publishEvents publishes and clears the domain events of the given aggregates
func (s *LedgerService) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, agg := range aggregates {
		for _, event := range agg.GetDomainEvents() {
			// Best effort, the bus logs its own delivery failures
			_ = s.eventPublisher.Publish(ctx, event)
		}
		agg.ClearDomainEvents()
	}
}
