package booking

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

// BookingService handles plot booking operations
type BookingService struct {
	bookingRepo     booking.BookingRepository
	installmentRepo booking.InstallmentRepository
	plotRepo        estate.PlotRepository
	customerRepo    partner.CustomerRepository
	ledgerRepo      finance.TransactionRepository
	txRunner        shared.TxRunner
	eventPublisher  shared.EventPublisher
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo booking.BookingRepository,
	installmentRepo booking.InstallmentRepository,
	plotRepo estate.PlotRepository,
	customerRepo partner.CustomerRepository,
	ledgerRepo finance.TransactionRepository,
	txRunner shared.TxRunner,
) *BookingService {
	return &BookingService{
		bookingRepo:     bookingRepo,
		installmentRepo: installmentRepo,
		plotRepo:        plotRepo,
		customerRepo:    customerRepo,
		ledgerRepo:      ledgerRepo,
		txRunner:        txRunner,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *BookingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateBooking books a plot for a customer. A full-payment booking
// settles immediately and marks the plot sold; an installment booking
// reserves the plot and generates the monthly schedule over the
// remaining balance. Everything commits in one transaction.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "booking", "create_booking")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrCustomerID, req.CustomerID.String(),
		telemetry.SpanAttrAmount, req.TotalAmount.String(),
		"plot_id", req.PlotID.String(),
		"payment_mode", req.PaymentMode,
	)

	mode := booking.PaymentMode(req.PaymentMode)
	if !mode.IsValid() {
		err := shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid payment mode: %s", req.PaymentMode))
		telemetry.RecordError(span, err)
		return nil, err
	}

	var (
		b            *booking.Booking
		plot         *estate.Plot
		customer     *partner.Customer
		installments []*booking.Installment
		ledgerRows   []*finance.FinancialTransaction
	)

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		// The runner may rerun this closure after a rollback
		ledgerRows = nil

		var err error
		plot, err = s.plotRepo.FindByID(ctx, req.PlotID)
		if err != nil {
			return fmt.Errorf("failed to get plot: %w", err)
		}
		if plot == nil {
			return shared.NewDomainError("NOT_FOUND", "Plot not found")
		}

		customer, err = s.customerRepo.FindByID(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("failed to get customer: %w", err)
		}
		if customer == nil {
			return shared.NewDomainError("NOT_FOUND", "Customer not found")
		}

		if err := plot.Reserve(req.CustomerID); err != nil {
			return err
		}
		// Conditional update on the booking state: of two concurrent
		// bookings for the same plot exactly one survives this call.
		if err := s.plotRepo.ReserveAtomically(ctx, plot); err != nil {
			return err
		}

		bookingNumber, err := s.bookingRepo.NextBookingNumber(ctx, plot.SocietyID)
		if err != nil {
			return fmt.Errorf("failed to draw booking number: %w", err)
		}

		b, err = booking.NewBooking(
			plot.SocietyID,
			bookingNumber,
			plot.ID,
			req.CustomerID,
			valueobject.NewMoneyPKR(req.TotalAmount),
			valueobject.NewMoneyPKR(req.InitialPayment),
			req.InstallmentYears,
			mode,
		)
		if err != nil {
			return err
		}

		switch mode {
		case booking.PaymentModeFull:
			if err := plot.MarkSold(req.CustomerID, b.ID, b.GetTotalAmountMoney()); err != nil {
				return err
			}
			if err := s.plotRepo.SaveWithLock(ctx, plot); err != nil {
				return fmt.Errorf("failed to save plot: %w", err)
			}

			row, err := s.appendLedgerRow(ctx, b, finance.TransactionTypeFullPayment, b.TotalAmount, req)
			if err != nil {
				return err
			}
			ledgerRows = append(ledgerRows, row)

		case booking.PaymentModeInstallment:
			installments, err = booking.GenerateSchedule(
				plot.SocietyID,
				b.ID,
				req.CustomerID,
				plot.ID,
				b.GetRemainingBalanceMoney(),
				req.InstallmentYears,
				b.BookingDate,
			)
			if err != nil {
				return err
			}
			if err := s.installmentRepo.SaveAll(ctx, installments); err != nil {
				return fmt.Errorf("failed to save schedule: %w", err)
			}

			if b.InitialPayment.GreaterThan(decimal.Zero) {
				row, err := s.appendLedgerRow(ctx, b, finance.TransactionTypePartialPayment, b.InitialPayment, req)
				if err != nil {
					return err
				}
				ledgerRows = append(ledgerRows, row)
			}
		}

		if err := s.bookingRepo.Save(ctx, b); err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}

		if err := customer.JoinSociety(plot.SocietyID); err != nil {
			return err
		}
		if err := customer.AddPlot(plot.ID); err != nil {
			return err
		}
		if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
			return fmt.Errorf("failed to save customer: %w", err)
		}

		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "booking_created",
		"booking_id", b.ID.String(),
		"booking_number", b.BookingNumber,
		"installments", len(installments),
	)

	s.publishEvents(ctx, plot, b, customer)
	for _, row := range ledgerRows {
		s.publishEvents(ctx, row)
	}
	for _, inst := range installments {
		s.publishEvents(ctx, inst)
	}

	result := &CreateBookingResult{Booking: ToBookingResponse(b)}
	for _, inst := range installments {
		result.Installments = append(result.Installments, ToInstallmentResponse(inst))
	}
	return result, nil
}

// GetByID returns a booking by ID
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Booking not found")
	}
	response := ToBookingResponse(b)
	return &response, nil
}

// GetByNumber returns a booking by its booking number
func (s *BookingService) GetByNumber(ctx context.Context, bookingNumber string) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Booking not found")
	}
	response := ToBookingResponse(b)
	return &response, nil
}

// List returns bookings matching the filter
func (s *BookingService) List(ctx context.Context, filter booking.BookingFilter) ([]BookingResponse, int64, error) {
	bookings, err := s.bookingRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.bookingRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for idx := range bookings {
		responses = append(responses, ToBookingResponse(&bookings[idx]))
	}
	return responses, total, nil
}

// GetSchedule returns the installment schedule of a booking ordered by sequence
func (s *BookingService) GetSchedule(ctx context.Context, bookingID uuid.UUID) ([]InstallmentResponse, error) {
	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Booking not found")
	}

	installments, err := s.installmentRepo.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return ToInstallmentResponses(installments), nil
}

// ListInstallmentsByCustomer returns a customer's installments across
// all their bookings, optionally narrowed by status or due date
func (s *BookingService) ListInstallmentsByCustomer(ctx context.Context, customerID uuid.UUID, filter booking.InstallmentFilter) ([]InstallmentResponse, error) {
	installments, err := s.installmentRepo.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}
	return ToInstallmentResponses(installments), nil
}

// ListInstallmentsByPlot returns the installments recorded against a plot
func (s *BookingService) ListInstallmentsByPlot(ctx context.Context, plotID uuid.UUID, filter booking.InstallmentFilter) ([]InstallmentResponse, error) {
	installments, err := s.installmentRepo.FindByPlot(ctx, plotID, filter)
	if err != nil {
		return nil, err
	}
	return ToInstallmentResponses(installments), nil
}

// PlotBalance reports the outstanding balance against a plot's active booking
func (s *BookingService) PlotBalance(ctx context.Context, plotID uuid.UUID) (*PlotBalanceResponse, error) {
	b, err := s.bookingRepo.FindActiveByPlot(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "No active booking for this plot")
	}

	openCount, err := s.installmentRepo.CountOpenByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	response := &PlotBalanceResponse{
		PlotID:           plotID,
		BookingID:        b.ID,
		BookingNumber:    b.BookingNumber,
		CustomerID:       b.CustomerID,
		TotalAmount:      b.TotalAmount,
		TotalPaid:        b.TotalPaid,
		RemainingBalance: b.RemainingBalance,
		OpenInstallments: openCount,
	}

	open, err := s.installmentRepo.FindOpenByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		due := open[0].DueDate
		response.NextDueDate = &due
	}

	return response, nil
}

// appendLedgerRow records the payment that accompanies a booking
func (s *BookingService) appendLedgerRow(
	ctx context.Context,
	b *booking.Booking,
	txType finance.TransactionType,
	amount decimal.Decimal,
	req CreateBookingRequest,
) (*finance.FinancialTransaction, error) {
	row, err := finance.NewFinancialTransaction(finance.TransactionRecord{
		SocietyID:     b.SocietyID,
		CustomerID:    &b.CustomerID,
		PlotID:        &b.PlotID,
		BookingID:     &b.ID,
		Amount:        valueobject.NewMoneyPKR(amount),
		Type:          txType,
		Direction:     finance.DirectionIncome,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
	})
	if err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Save(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to append ledger row: %w", err)
	}
	return row, nil
}

// publishEvents publishes and clears the domain events of the given aggregates
func (s *BookingService) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
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
