// Package integration provides end-to-end business flow tests.
// This file walks a plot from available through booking, installment
// payments, and settlement against a real database.
package integration

import (
	"context"
	"testing"

	bookingapp "github.com/estate/backend/internal/application/booking"
	ledgerapp "github.com/estate/backend/internal/application/ledger"
	partnerapp "github.com/estate/backend/internal/application/partner"
	"github.com/estate/backend/internal/domain/estate"
	"github.com/estate/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// BookingFlowSetup bundles the repositories and services a booking
// lifecycle touches.
type BookingFlowSetup struct {
	DB *TestDB

	PlotRepo        estate.PlotRepository
	BookingService  *bookingapp.BookingService
	LedgerService   *ledgerapp.LedgerService
	CustomerService *partnerapp.CustomerService

	SocietyID  uuid.UUID
	CustomerID uuid.UUID
}

// NewBookingFlowSetup builds the service stack on a fresh database
func NewBookingFlowSetup(t *testing.T) *BookingFlowSetup {
	t.Helper()

	testDB := NewTestDB(t)

	plotRepo := persistence.NewGormPlotRepository(testDB.DB)
	customerRepo := persistence.NewGormCustomerRepository(testDB.DB)
	bookingRepo := persistence.NewGormBookingRepository(testDB.DB)
	installmentRepo := persistence.NewGormInstallmentRepository(testDB.DB)
	transactionRepo := persistence.NewGormTransactionRepository(testDB.DB)
	txRunner := persistence.NewGormTxRunner(testDB.DB)

	bookingService := bookingapp.NewBookingService(
		bookingRepo, installmentRepo, plotRepo, customerRepo, transactionRepo, txRunner,
	)
	ledgerService := ledgerapp.NewLedgerService(
		bookingRepo, installmentRepo, plotRepo, transactionRepo, txRunner,
	)
	customerService := partnerapp.NewCustomerService(customerRepo)

	societyID := uuid.New()
	testDB.CreateTestSociety(societyID, "Green Valley", "Lahore")

	customer, err := customerService.Register(context.Background(), partnerapp.RegisterCustomerRequest{
		Name:  "Ahmed Raza",
		Phone: "0300-1234567",
		CNIC:  "35202-1234567-1",
	})
	require.NoError(t, err, "Failed to register test customer")

	return &BookingFlowSetup{
		DB:              testDB,
		PlotRepo:        plotRepo,
		BookingService:  bookingService,
		LedgerService:   ledgerService,
		CustomerService: customerService,
		SocietyID:       societyID,
		CustomerID:      customer.ID,
	}
}

// newPlot inserts an available plot and returns its ID
func (s *BookingFlowSetup) newPlot(t *testing.T, plotNumber, price string) uuid.UUID {
	t.Helper()
	plotID := uuid.New()
	s.DB.CreateTestPlot(s.SocietyID, plotID, plotNumber, price)
	return plotID
}

func TestBookingFlow_InstallmentToSettlement(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewBookingFlowSetup(t)
	ctx := context.Background()

	plotID := setup.newPlot(t, "A-101", "1200000")

	result, err := setup.BookingService.CreateBooking(ctx, bookingapp.CreateBookingRequest{
		PlotID:           plotID,
		CustomerID:       setup.CustomerID,
		TotalAmount:      decimal.NewFromInt(1200000),
		InitialPayment:   decimal.NewFromInt(200000),
		InstallmentYears: 1,
		PaymentMode:      "Installment",
		PaymentMethod:    "Cash",
	})
	require.NoError(t, err)

	b := result.Booking
	assert.NotEmpty(t, b.BookingNumber)
	assert.Equal(t, "Booked", b.Status)
	assert.True(t, b.RemainingBalance.Equal(decimal.NewFromInt(1000000)),
		"remaining balance should be total minus initial payment, got %s", b.RemainingBalance)
	require.Len(t, result.Installments, 12, "one year plan should produce 12 installments")

	// The schedule must cover the remaining balance exactly
	scheduleTotal := decimal.Zero
	for _, inst := range result.Installments {
		scheduleTotal = scheduleTotal.Add(inst.Amount)
		assert.Equal(t, "Pending", inst.Status)
	}
	assert.True(t, scheduleTotal.Equal(decimal.NewFromInt(1000000)),
		"schedule should sum to the remaining balance, got %s", scheduleTotal)

	// The plot is held while the plan runs
	plot, err := setup.PlotRepo.FindByID(ctx, plotID)
	require.NoError(t, err)
	require.NotNil(t, plot)
	assert.Equal(t, estate.BookingStateBooked, plot.BookingState)

	// A second booking for the same plot must lose the race
	_, err = setup.BookingService.CreateBooking(ctx, bookingapp.CreateBookingRequest{
		PlotID:           plotID,
		CustomerID:       setup.CustomerID,
		TotalAmount:      decimal.NewFromInt(1200000),
		InstallmentYears: 1,
		PaymentMode:      "Installment",
	})
	assert.Error(t, err, "a booked plot cannot be booked again")

	// First payment settles the front of the schedule
	payment, err := setup.LedgerService.ApplyPayment(ctx, ledgerapp.ApplyPaymentRequest{
		BookingID: b.ID,
		Amount:    decimal.NewFromInt(500000),
		ReceiptNo: "RCPT-001",
	})
	require.NoError(t, err)
	assert.True(t, payment.AppliedAmount.Equal(decimal.NewFromInt(500000)))
	assert.True(t, payment.UnappliedAmount.IsZero())
	assert.False(t, payment.BookingCompleted)
	assert.NotEmpty(t, payment.Applications)

	// Second payment clears the remainder and settles the booking
	payment, err = setup.LedgerService.ApplyPayment(ctx, ledgerapp.ApplyPaymentRequest{
		BookingID: b.ID,
		Amount:    decimal.NewFromInt(500000),
		ReceiptNo: "RCPT-002",
	})
	require.NoError(t, err)
	assert.True(t, payment.AppliedAmount.Equal(decimal.NewFromInt(500000)))
	assert.True(t, payment.BookingCompleted, "paying off the schedule should complete the booking")

	settled, err := setup.BookingService.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Completed", settled.Status)
	assert.True(t, settled.RemainingBalance.IsZero())

	plot, err = setup.PlotRepo.FindByID(ctx, plotID)
	require.NoError(t, err)
	assert.Equal(t, estate.PlotStatusSold, plot.Status)

	// Every applied rupee has a ledger row behind it
	rows, err := setup.LedgerService.ListByBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
	ledgerTotal := decimal.Zero
	for _, row := range rows {
		ledgerTotal = ledgerTotal.Add(row.Amount)
	}
	assert.True(t, ledgerTotal.Equal(decimal.NewFromInt(1200000)),
		"ledger rows should sum to the full price, got %s", ledgerTotal)
}

func TestBookingFlow_OverpaymentReported(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewBookingFlowSetup(t)
	ctx := context.Background()

	plotID := setup.newPlot(t, "B-202", "600000")

	result, err := setup.BookingService.CreateBooking(ctx, bookingapp.CreateBookingRequest{
		PlotID:           plotID,
		CustomerID:       setup.CustomerID,
		TotalAmount:      decimal.NewFromInt(600000),
		InstallmentYears: 1,
		PaymentMode:      "Installment",
	})
	require.NoError(t, err)

	payment, err := setup.LedgerService.ApplyPayment(ctx, ledgerapp.ApplyPaymentRequest{
		BookingID: result.Booking.ID,
		Amount:    decimal.NewFromInt(650000),
		ReceiptNo: "RCPT-100",
	})
	require.NoError(t, err)
	assert.True(t, payment.BookingCompleted)
	assert.True(t, payment.AppliedAmount.Equal(decimal.NewFromInt(600000)))
	assert.True(t, payment.UnappliedAmount.Equal(decimal.NewFromInt(50000)),
		"the surplus beyond the schedule must be reported, got %s", payment.UnappliedAmount)
}

func TestBookingFlow_FullPayment(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewBookingFlowSetup(t)
	ctx := context.Background()

	plotID := setup.newPlot(t, "C-303", "900000")

	result, err := setup.BookingService.CreateBooking(ctx, bookingapp.CreateBookingRequest{
		PlotID:      plotID,
		CustomerID:  setup.CustomerID,
		TotalAmount: decimal.NewFromInt(900000),
		PaymentMode: "Full",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sold", result.Booking.Status)
	assert.True(t, result.Booking.RemainingBalance.IsZero())
	assert.Empty(t, result.Installments, "a full payment booking has no schedule")

	plot, err := setup.PlotRepo.FindByID(ctx, plotID)
	require.NoError(t, err)
	assert.Equal(t, estate.PlotStatusSold, plot.Status)
	require.NotNil(t, plot.CustomerID)
	assert.Equal(t, setup.CustomerID, *plot.CustomerID)
}

func TestBookingFlow_BookingNumbersAreSequential(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewBookingFlowSetup(t)
	ctx := context.Background()

	numbers := make(map[string]bool)
	for i := 0; i < 3; i++ {
		plotID := setup.newPlot(t, "D-40"+string(rune('1'+i)), "500000")
		result, err := setup.BookingService.CreateBooking(ctx, bookingapp.CreateBookingRequest{
			PlotID:           plotID,
			CustomerID:       setup.CustomerID,
			TotalAmount:      decimal.NewFromInt(500000),
			InstallmentYears: 1,
			PaymentMode:      "Installment",
		})
		require.NoError(t, err)
		assert.False(t, numbers[result.Booking.BookingNumber], "booking numbers must be unique")
		numbers[result.Booking.BookingNumber] = true
	}
}
