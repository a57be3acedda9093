package ownership

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/booking"
	"github.com/estate/backend/internal/domain/estate"
	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/partner"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/estate/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OwnershipService moves plots between owners, either as a resell
// between two customers or as an administrative transfer
type OwnershipService struct {
	plotRepo        estate.PlotRepository
	bookingRepo     booking.BookingRepository
	installmentRepo booking.InstallmentRepository
	customerRepo    partner.CustomerRepository
	resellRepo      finance.ResellRepository
	transferRepo    finance.TransferRepository
	ledgerRepo      finance.TransactionRepository
	txRunner        shared.TxRunner
	eventPublisher  shared.EventPublisher
}

// NewOwnershipService creates a new OwnershipService
func NewOwnershipService(
	plotRepo estate.PlotRepository,
	bookingRepo booking.BookingRepository,
	installmentRepo booking.InstallmentRepository,
	customerRepo partner.CustomerRepository,
	resellRepo finance.ResellRepository,
	transferRepo finance.TransferRepository,
	ledgerRepo finance.TransactionRepository,
	txRunner shared.TxRunner,
) *OwnershipService {
	return &OwnershipService{
		plotRepo:        plotRepo,
		bookingRepo:     bookingRepo,
		installmentRepo: installmentRepo,
		customerRepo:    customerRepo,
		resellRepo:      resellRepo,
		transferRepo:    transferRepo,
		ledgerRepo:      ledgerRepo,
		txRunner:        txRunner,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OwnershipService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Resell moves a plot from one customer to another. Untouched
// installments follow the new owner; partially paid ones stay with the
// customer whose money paid them. The same buyer cannot be recorded
// twice for the same plot.
func (s *OwnershipService) Resell(ctx context.Context, req ResellRequest) (*ResellResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ownership", "resell")
	defer span.End()

	telemetry.SetAttributes(span,
		"plot_id", req.PlotID.String(),
		"previous_customer_id", req.PreviousCustomerID.String(),
		"new_customer_id", req.NewCustomerID.String(),
	)

	if req.PreviousCustomerID == req.NewCustomerID {
		err := shared.NewDomainError("SAME_PARTY", "Previous and new customer must be different")
		telemetry.RecordError(span, err)
		return nil, err
	}

	var (
		record    *finance.PlotResell
		moved     int
		published []shared.AggregateRoot
	)

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		// The runner may rerun this closure after a rollback
		published = nil

		plot, err := s.plotRepo.FindByID(ctx, req.PlotID)
		if err != nil {
			return fmt.Errorf("failed to get plot: %w", err)
		}
		if plot == nil {
			return shared.NewDomainError("NOT_FOUND", "Plot not found")
		}

		exists, err := s.resellRepo.ExistsForPair(ctx, req.PlotID, req.NewCustomerID)
		if err != nil {
			return fmt.Errorf("failed to check resell history: %w", err)
		}
		if exists {
			return shared.NewDomainError("DUPLICATE", "This plot was already resold to this customer")
		}

		previous, err := s.customerRepo.FindByID(ctx, req.PreviousCustomerID)
		if err != nil {
			return fmt.Errorf("failed to get previous customer: %w", err)
		}
		if previous == nil {
			return shared.NewDomainError("NOT_FOUND", "Previous customer not found")
		}
		next, err := s.customerRepo.FindByID(ctx, req.NewCustomerID)
		if err != nil {
			return fmt.Errorf("failed to get new customer: %w", err)
		}
		if next == nil {
			return shared.NewDomainError("NOT_FOUND", "New customer not found")
		}

		record, err = finance.NewPlotResell(
			plot.SocietyID,
			plot.ID,
			req.PreviousCustomerID,
			req.NewCustomerID,
			valueobject.NewMoneyPKR(req.Fee),
			req.Description,
		)
		if err != nil {
			return err
		}

		if err := plot.ReassignOwner(req.PreviousCustomerID, req.NewCustomerID); err != nil {
			return err
		}
		if err := s.plotRepo.SaveWithLock(ctx, plot); err != nil {
			return fmt.Errorf("failed to save plot: %w", err)
		}

		// Move the open schedule to the buyer
		var activeBookingID *uuid.UUID
		activeBooking, err := s.bookingRepo.FindActiveByPlot(ctx, plot.ID)
		if err != nil {
			return fmt.Errorf("failed to get active booking: %w", err)
		}
		if activeBooking != nil {
			if err := activeBooking.ReassignCustomer(req.NewCustomerID); err != nil {
				return err
			}
			if err := s.bookingRepo.SaveWithLock(ctx, activeBooking); err != nil {
				return fmt.Errorf("failed to save booking: %w", err)
			}
			activeBookingID = &activeBooking.ID
			published = append(published, activeBooking)
		}

		pending, err := s.installmentRepo.FindPendingByPlotAndCustomer(ctx, plot.ID, req.PreviousCustomerID)
		if err != nil {
			return fmt.Errorf("failed to get pending installments: %w", err)
		}
		for idx := range pending {
			if err := pending[idx].ReassignCustomer(req.NewCustomerID); err != nil {
				return err
			}
			if err := s.installmentRepo.SaveWithLock(ctx, &pending[idx]); err != nil {
				return fmt.Errorf("failed to save installment %d: %w", pending[idx].Sequence, err)
			}
		}
		moved = len(pending)

		previous.RemovePlot(plot.ID)
		if err := s.customerRepo.SaveWithLock(ctx, previous); err != nil {
			return fmt.Errorf("failed to save previous customer: %w", err)
		}
		if err := next.JoinSociety(plot.SocietyID); err != nil {
			return err
		}
		if err := next.AddPlot(plot.ID); err != nil {
			return err
		}
		if err := s.customerRepo.SaveWithLock(ctx, next); err != nil {
			return fmt.Errorf("failed to save new customer: %w", err)
		}

		if err := s.resellRepo.Save(ctx, record); err != nil {
			return fmt.Errorf("failed to save resell record: %w", err)
		}

		if req.Fee.GreaterThan(decimal.Zero) {
			row, err := finance.NewFinancialTransaction(finance.TransactionRecord{
				SocietyID:     plot.SocietyID,
				CustomerID:    &req.NewCustomerID,
				PlotID:        &plot.ID,
				BookingID:     activeBookingID,
				Amount:        valueobject.NewMoneyPKR(req.Fee),
				Type:          finance.TransactionTypeResellPayment,
				Direction:     finance.DirectionIncome,
				PaymentMethod: req.PaymentMethod,
				Description:   req.Description,
			})
			if err != nil {
				return err
			}
			if err := s.ledgerRepo.Save(ctx, row); err != nil {
				return fmt.Errorf("failed to append ledger row: %w", err)
			}
			published = append(published, row)
		}

		published = append(published, plot, previous, next)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "plot_resold",
		"resell_id", record.ID.String(),
		"moved_installments", moved,
	)

	s.publishEvents(ctx, published...)

	response := ToResellResponse(record, moved)
	return &response, nil
}

// Transfer reassigns a booked plot to a new owner by administrative
// decision. The plot must carry an active booking; a transfer against
// a plot without one is rejected rather than silently recorded.
func (s *OwnershipService) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ownership", "transfer")
	defer span.End()

	telemetry.SetAttributes(span,
		"plot_id", req.PlotID.String(),
		"new_owner_id", req.NewOwnerID.String(),
	)

	var (
		record    *finance.TransferPlot
		published []shared.AggregateRoot
	)

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		// The runner may rerun this closure after a rollback
		published = nil

		plot, err := s.plotRepo.FindByID(ctx, req.PlotID)
		if err != nil {
			return fmt.Errorf("failed to get plot: %w", err)
		}
		if plot == nil {
			return shared.NewDomainError("NOT_FOUND", "Plot not found")
		}

		activeBooking, err := s.bookingRepo.FindActiveByPlot(ctx, plot.ID)
		if err != nil {
			return fmt.Errorf("failed to get active booking: %w", err)
		}
		if activeBooking == nil {
			return shared.NewDomainError("NOT_FOUND", "No active booking for this plot")
		}

		exists, err := s.transferRepo.ExistsForPair(ctx, req.PlotID, req.NewOwnerID)
		if err != nil {
			return fmt.Errorf("failed to check transfer history: %w", err)
		}
		if exists {
			return shared.NewDomainError("DUPLICATE", "This plot was already transferred to this owner")
		}

		newOwner, err := s.customerRepo.FindByID(ctx, req.NewOwnerID)
		if err != nil {
			return fmt.Errorf("failed to get new owner: %w", err)
		}
		if newOwner == nil {
			return shared.NewDomainError("NOT_FOUND", "New owner not found")
		}

		record, err = finance.NewTransferPlot(
			plot.SocietyID,
			plot.ID,
			req.PreviousOwner,
			req.NewOwnerID,
			valueobject.NewMoneyPKR(req.Fee),
		)
		if err != nil {
			return err
		}

		previousCustomerID := plot.CustomerID

		if err := activeBooking.MarkTransferred(); err != nil {
			return err
		}
		if err := s.bookingRepo.SaveWithLock(ctx, activeBooking); err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}

		if err := plot.MarkTransferred(req.NewOwnerID); err != nil {
			return err
		}
		if err := s.plotRepo.SaveWithLock(ctx, plot); err != nil {
			return fmt.Errorf("failed to save plot: %w", err)
		}

		if previousCustomerID != nil && *previousCustomerID != req.NewOwnerID {
			previous, err := s.customerRepo.FindByID(ctx, *previousCustomerID)
			if err != nil {
				return fmt.Errorf("failed to get previous customer: %w", err)
			}
			if previous != nil {
				previous.RemovePlot(plot.ID)
				if err := s.customerRepo.SaveWithLock(ctx, previous); err != nil {
					return fmt.Errorf("failed to save previous customer: %w", err)
				}
				published = append(published, previous)
			}
		}

		if err := newOwner.JoinSociety(plot.SocietyID); err != nil {
			return err
		}
		if err := newOwner.AddPlot(plot.ID); err != nil {
			return err
		}
		if err := s.customerRepo.SaveWithLock(ctx, newOwner); err != nil {
			return fmt.Errorf("failed to save new owner: %w", err)
		}

		if err := s.transferRepo.Save(ctx, record); err != nil {
			return fmt.Errorf("failed to save transfer record: %w", err)
		}

		// A zero-fee transfer leaves no ledger trace
		if req.Fee.GreaterThan(decimal.Zero) {
			row, err := finance.NewFinancialTransaction(finance.TransactionRecord{
				SocietyID:     plot.SocietyID,
				CustomerID:    &req.NewOwnerID,
				PlotID:        &plot.ID,
				BookingID:     &activeBooking.ID,
				Amount:        valueobject.NewMoneyPKR(req.Fee),
				Type:          finance.TransactionTypeTransferFee,
				Direction:     finance.DirectionIncome,
				PaymentMethod: req.PaymentMethod,
				Description:   req.Description,
			})
			if err != nil {
				return err
			}
			if err := s.ledgerRepo.Save(ctx, row); err != nil {
				return fmt.Errorf("failed to append ledger row: %w", err)
			}
			published = append(published, row)
		}

		published = append(published, plot, activeBooking, newOwner)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "plot_transferred", "transfer_id", record.ID.String())

	s.publishEvents(ctx, published...)

	response := ToTransferResponse(record)
	return &response, nil
}

// ListResells returns the resell history of a plot
func (s *OwnershipService) ListResells(ctx context.Context, plotID uuid.UUID) ([]ResellResponse, error) {
	records, err := s.resellRepo.FindByPlot(ctx, plotID)
	if err != nil {
		return nil, err
	}
	responses := make([]ResellResponse, 0, len(records))
	for idx := range records {
		responses = append(responses, ToResellResponse(&records[idx], 0))
	}
	return responses, nil
}

// ListTransfers returns the transfer history of a plot
func (s *OwnershipService) ListTransfers(ctx context.Context, plotID uuid.UUID) ([]TransferResponse, error) {
	records, err := s.transferRepo.FindByPlot(ctx, plotID)
	if err != nil {
		return nil, err
	}
	responses := make([]TransferResponse, 0, len(records))
	for idx := range records {
		responses = append(responses, ToTransferResponse(&records[idx]))
	}
	return responses, nil
}

// publishEvents publishes and clears the domain events of the given aggregates
func (s *OwnershipService) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
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
