package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/estate/backend/internal/domain/booking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockBookingRepository creates a GormBookingRepository with a mocked SQL connection
func newMockBookingRepository(t *testing.T) (*GormBookingRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormBookingRepository(gormDB), mock, mockDB
}

func TestGormBookingRepository_FindByNumber(t *testing.T) {
	t.Run("finds booking by number", func(t *testing.T) {
		repo, mock, mockDB := newMockBookingRepository(t)
		defer mockDB.Close()

		bookingID := uuid.New()
		societyID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "society_id", "booking_number", "plot_id", "customer_id", "booking_date", "total_amount", "remaining_balance", "payment_mode", "status"}).
			AddRow(bookingID, 1, societyID, "BK-000042", uuid.New(), uuid.New(), time.Now(), decimal.NewFromInt(1500000), decimal.NewFromInt(1200000), "Installment", "Booked")

		mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE booking_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("BK-000042", 1).
			WillReturnRows(rows)

		b, err := repo.FindByNumber(context.Background(), "BK-000042")

		assert.NoError(t, err)
		assert.NotNil(t, b)
		assert.Equal(t, "BK-000042", b.BookingNumber)
		assert.Equal(t, booking.BookingStatusBooked, b.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for unknown number", func(t *testing.T) {
		repo, mock, mockDB := newMockBookingRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE booking_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("BK-999999", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		b, err := repo.FindByNumber(context.Background(), "BK-999999")

		assert.NoError(t, err)
		assert.Nil(t, b)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookingRepository_FindActiveByPlot(t *testing.T) {
	t.Run("skips terminal bookings", func(t *testing.T) {
		repo, mock, mockDB := newMockBookingRepository(t)
		defer mockDB.Close()

		plotID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE plot_id = \$1 AND status NOT IN \(\$2,\$3,\$4\)`).
			WithArgs(plotID, "Sold", "Completed", "Transfer", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		b, err := repo.FindActiveByPlot(context.Background(), plotID)

		assert.NoError(t, err)
		assert.Nil(t, b)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookingRepository_NextBookingNumber(t *testing.T) {
	t.Run("formats the drawn counter value", func(t *testing.T) {
		repo, mock, mockDB := newMockBookingRepository(t)
		defer mockDB.Close()

		societyID := uuid.New()

		mock.ExpectQuery(`INSERT INTO booking_sequences`).
			WithArgs(societyID).
			WillReturnRows(sqlmock.NewRows([]string{"next_value"}).AddRow(43))

		number, err := repo.NextBookingNumber(context.Background(), societyID)

		assert.NoError(t, err)
		assert.Equal(t, "BK-000043", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockBookingRepository(t)
		defer mockDB.Close()

		societyID := uuid.New()

		mock.ExpectQuery(`INSERT INTO booking_sequences`).
			WithArgs(societyID).
			WillReturnError(assert.AnError)

		number, err := repo.NextBookingNumber(context.Background(), societyID)

		assert.Error(t, err)
		assert.Empty(t, number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookingRepository_Count(t *testing.T) {
	t.Run("counts bookings by society and status", func(t *testing.T) {
		repo, mock, mockDB := newMockBookingRepository(t)
		defer mockDB.Close()

		societyID := uuid.New()
		status := booking.BookingStatusBooked

		mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings" WHERE society_id = \$1 AND status = \$2`).
			WithArgs(societyID, status).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.Count(context.Background(), booking.BookingFilter{
			SocietyID: &societyID,
			Status:    &status,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
