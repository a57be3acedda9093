package booking

import (
	"testing"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBooking(t *testing.T) *Booking {
	t.Helper()
	b, err := NewBooking(
		uuid.New(),
		"BK-000001",
		uuid.New(),
		uuid.New(),
		valueobject.NewMoneyPKRFromFloat(120000),
		valueobject.NewMoneyPKRFromFloat(20000),
		1,
		PaymentModeInstallment,
	)
	require.NoError(t, err)
	b.ClearDomainEvents()
	return b
}

func TestNewBooking(t *testing.T) {
	t.Run("installment booking carries remaining balance", func(t *testing.T) {
		b, err := NewBooking(
			uuid.New(), "BK-000001", uuid.New(), uuid.New(),
			valueobject.NewMoneyPKRFromFloat(120000),
			valueobject.NewMoneyPKRFromFloat(20000),
			1, PaymentModeInstallment,
		)
		require.NoError(t, err)

		assert.Equal(t, BookingStatusBooked, b.Status)
		assert.Equal(t, 100000.0, b.GetRemainingBalanceMoney().Float64())
		assert.Equal(t, 20000.0, b.GetTotalPaidMoney().Float64())
		require.Len(t, b.GetDomainEvents(), 1)
		assert.Equal(t, "BookingCreated", b.GetDomainEvents()[0].EventType())
	})

	t.Run("full payment booking settles immediately", func(t *testing.T) {
		b, err := NewBooking(
			uuid.New(), "BK-000002", uuid.New(), uuid.New(),
			valueobject.NewMoneyPKRFromFloat(120000),
			valueobject.NewMoneyPKRFromFloat(120000),
			0, PaymentModeFull,
		)
		require.NoError(t, err)

		assert.Equal(t, BookingStatusSold, b.Status)
		assert.True(t, b.RemainingBalance.IsZero())
		assert.Equal(t, 120000.0, b.GetTotalPaidMoney().Float64())
	})

	t.Run("initial payment covering total rejected for installment mode", func(t *testing.T) {
		_, err := NewBooking(
			uuid.New(), "BK-000003", uuid.New(), uuid.New(),
			valueobject.NewMoneyPKRFromFloat(120000),
			valueobject.NewMoneyPKRFromFloat(120000),
			1, PaymentModeInstallment,
		)
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_PAYMENT", domainErr.Code)
	})

	t.Run("zero year term rejected", func(t *testing.T) {
		_, err := NewBooking(
			uuid.New(), "BK-000004", uuid.New(), uuid.New(),
			valueobject.NewMoneyPKRFromFloat(120000),
			valueobject.NewMoneyPKRFromFloat(20000),
			0, PaymentModeInstallment,
		)
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_TERM", domainErr.Code)
	})

	t.Run("invalid mode rejected", func(t *testing.T) {
		_, err := NewBooking(
			uuid.New(), "BK-000005", uuid.New(), uuid.New(),
			valueobject.NewMoneyPKRFromFloat(120000),
			valueobject.ZeroPKR(),
			1, PaymentMode("Layaway"),
		)
		require.Error(t, err)
	})
}

func TestBookingRegisterPayment(t *testing.T) {
	t.Run("accumulates total paid", func(t *testing.T) {
		b := createTestBooking(t)

		require.NoError(t, b.RegisterPayment(valueobject.NewMoneyPKRFromFloat(5000)))
		require.NoError(t, b.RegisterPayment(valueobject.NewMoneyPKRFromFloat(2500)))

		assert.Equal(t, 27500.0, b.GetTotalPaidMoney().Float64())
		assert.Equal(t, 92500.0, b.GetRemainingBalanceMoney().Float64())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		b := createTestBooking(t)
		err := b.RegisterPayment(valueobject.ZeroPKR())
		require.Error(t, err)
	})

	t.Run("rejects inactive booking", func(t *testing.T) {
		b := createTestBooking(t)
		require.NoError(t, b.MarkCompleted())

		err := b.RegisterPayment(valueobject.NewMoneyPKRFromFloat(100))
		require.Error(t, err)
	})
}

func TestBookingReassignCustomer(t *testing.T) {
	t.Run("moves active booking to new customer", func(t *testing.T) {
		b := createTestBooking(t)
		next := uuid.New()

		require.NoError(t, b.ReassignCustomer(next))
		assert.Equal(t, next, b.CustomerID)
	})

	t.Run("rejects empty customer", func(t *testing.T) {
		b := createTestBooking(t)
		require.Error(t, b.ReassignCustomer(uuid.Nil))
	})

	t.Run("rejects completed booking", func(t *testing.T) {
		b := createTestBooking(t)
		require.NoError(t, b.MarkCompleted())

		err := b.ReassignCustomer(uuid.New())
		require.Error(t, err)

		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestBookingTransitions(t *testing.T) {
	t.Run("complete active booking emits settled event", func(t *testing.T) {
		b := createTestBooking(t)

		require.NoError(t, b.MarkCompleted())

		assert.Equal(t, BookingStatusCompleted, b.Status)
		require.Len(t, b.GetDomainEvents(), 1)
		assert.Equal(t, "AllInstallmentsSettled", b.GetDomainEvents()[0].EventType())
	})

	t.Run("transfer active booking", func(t *testing.T) {
		b := createTestBooking(t)

		require.NoError(t, b.MarkTransferred())
		assert.Equal(t, BookingStatusTransfer, b.Status)
	})

	t.Run("no transitions out of terminal states", func(t *testing.T) {
		b := createTestBooking(t)
		require.NoError(t, b.MarkCompleted())

		assert.Error(t, b.MarkCompleted())
		assert.Error(t, b.MarkTransferred())
	})

	t.Run("transferred booking cannot complete", func(t *testing.T) {
		b := createTestBooking(t)
		require.NoError(t, b.MarkTransferred())

		err := b.MarkCompleted()
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})
}
