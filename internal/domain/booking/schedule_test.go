package booking

import (
	"testing"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchedule(t *testing.T) {
	societyID := uuid.New()
	bookingID := uuid.New()
	customerID := uuid.New()
	plotID := uuid.New()
	from := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	t.Run("one year plan over 100000", func(t *testing.T) {
		installments, err := GenerateSchedule(societyID, bookingID, customerID, plotID,
			valueobject.NewMoneyPKRFromFloat(100000), 1, from)
		require.NoError(t, err)
		require.Len(t, installments, 12)

		for i, inst := range installments {
			assert.Equal(t, i+1, inst.Sequence)
			assert.Equal(t, InstallmentStatusPending, inst.Status)
			assert.Equal(t, from.AddDate(0, i+1, 0), inst.DueDate)
			assert.Equal(t, customerID, inst.CustomerID)
		}

		// Uniform monthly amounts with the remainder on the last one
		for i := 0; i < 11; i++ {
			assert.Equal(t, "8333.33", installments[i].Amount.StringFixed(2))
		}
		assert.Equal(t, "8333.37", installments[11].Amount.StringFixed(2))
	})

	t.Run("schedule sums back to principal", func(t *testing.T) {
		for _, years := range []int{1, 2, 3, 5} {
			principal := valueobject.NewMoneyPKRFromFloat(123456.78)
			installments, err := GenerateSchedule(societyID, bookingID, customerID, plotID, principal, years, from)
			require.NoError(t, err)
			require.Len(t, installments, years*12)

			total := ScheduleTotal(installments)
			assert.True(t, total.Equals(principal), "years=%d total=%s", years, total)
		}
	})

	t.Run("zero term rejected", func(t *testing.T) {
		_, err := GenerateSchedule(societyID, bookingID, customerID, plotID,
			valueobject.NewMoneyPKRFromFloat(100000), 0, from)
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_TERM", domainErr.Code)
	})

	t.Run("negative term rejected", func(t *testing.T) {
		_, err := GenerateSchedule(societyID, bookingID, customerID, plotID,
			valueobject.NewMoneyPKRFromFloat(100000), -1, from)
		require.Error(t, err)
	})

	t.Run("non-positive principal rejected", func(t *testing.T) {
		_, err := GenerateSchedule(societyID, bookingID, customerID, plotID,
			valueobject.ZeroPKR(), 1, from)
		require.Error(t, err)
	})
}
