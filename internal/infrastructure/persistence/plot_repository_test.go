package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/estate/backend/internal/domain/estate"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockPlotRepository creates a GormPlotRepository with a mocked SQL connection
func newMockPlotRepository(t *testing.T) (*GormPlotRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormPlotRepository(gormDB), mock, mockDB
}

func TestNewGormPlotRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockPlotRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormPlotRepository_FindByID(t *testing.T) {
	t.Run("finds existing plot", func(t *testing.T) {
		repo, mock, mockDB := newMockPlotRepository(t)
		defer mockDB.Close()

		plotID := uuid.New()
		societyID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "society_id", "plot_number", "block", "size", "category", "plot_type", "status", "booking_state", "price"}).
			AddRow(plotID, 1, societyID, "A-101", "A", "5 Marla", "General", "Residential", "Available", "Available", decimal.NewFromInt(1500000))

		mock.ExpectQuery(`SELECT \* FROM "plots" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(plotID, 1).
			WillReturnRows(rows)

		plot, err := repo.FindByID(context.Background(), plotID)

		assert.NoError(t, err)
		assert.NotNil(t, plot)
		assert.Equal(t, plotID, plot.ID)
		assert.Equal(t, "A-101", plot.PlotNumber)
		assert.Equal(t, societyID, plot.SocietyID)
		assert.Equal(t, estate.PlotStatusAvailable, plot.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for non-existent plot", func(t *testing.T) {
		repo, mock, mockDB := newMockPlotRepository(t)
		defer mockDB.Close()

		plotID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "plots" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(plotID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		plot, err := repo.FindByID(context.Background(), plotID)

		assert.NoError(t, err)
		assert.Nil(t, plot)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPlotRepository_FindByNumber(t *testing.T) {
	t.Run("finds plot by number within society", func(t *testing.T) {
		repo, mock, mockDB := newMockPlotRepository(t)
		defer mockDB.Close()

		plotID := uuid.New()
		societyID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "society_id", "plot_number", "status", "booking_state"}).
			AddRow(plotID, 1, societyID, "B-204", "Available", "Available")

		mock.ExpectQuery(`SELECT \* FROM "plots" WHERE society_id = \$1 AND plot_number = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(societyID, "B-204", 1).
			WillReturnRows(rows)

		plot, err := repo.FindByNumber(context.Background(), societyID, "B-204")

		assert.NoError(t, err)
		assert.NotNil(t, plot)
		assert.Equal(t, "B-204", plot.PlotNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPlotRepository_ReserveAtomically(t *testing.T) {
	newReservedPlot := func(t *testing.T) *estate.Plot {
		plot := &estate.Plot{
			SocietyAggregateRoot: shared.NewSocietyAggregateRoot(uuid.New()),
			PlotNumber:           "C-7",
			Status:               estate.PlotStatusAvailable,
			BookingState:         estate.BookingStateAvailable,
			Price:                decimal.NewFromInt(2000000),
		}
		require.NoError(t, plot.Reserve(uuid.New()))
		return plot
	}

	t.Run("persists the reservation when the plot is still open", func(t *testing.T) {
		repo, mock, mockDB := newMockPlotRepository(t)
		defer mockDB.Close()

		plot := newReservedPlot(t)

		mock.ExpectExec(`UPDATE "plots" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ReserveAtomically(context.Background(), plot)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when another booking won the race", func(t *testing.T) {
		repo, mock, mockDB := newMockPlotRepository(t)
		defer mockDB.Close()

		plot := newReservedPlot(t)

		mock.ExpectExec(`UPDATE "plots" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ReserveAtomically(context.Background(), plot)

		assert.ErrorIs(t, err, shared.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPlotRepository_SaveWithLock(t *testing.T) {
	t.Run("returns lock error on stale version", func(t *testing.T) {
		repo, mock, mockDB := newMockPlotRepository(t)
		defer mockDB.Close()

		plot := &estate.Plot{
			SocietyAggregateRoot: shared.NewSocietyAggregateRoot(uuid.New()),
			PlotNumber:           "D-12",
			Status:               estate.PlotStatusReserved,
			BookingState:         estate.BookingStateBooked,
		}
		plot.IncrementVersion()

		mock.ExpectExec(`UPDATE "plots" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), plot)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPlotRepository_Delete(t *testing.T) {
	t.Run("deletes existing plot", func(t *testing.T) {
		repo, mock, mockDB := newMockPlotRepository(t)
		defer mockDB.Close()

		plotID := uuid.New()

		mock.ExpectExec(`DELETE FROM "plots" WHERE id = \$1`).
			WithArgs(plotID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), plotID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing plot", func(t *testing.T) {
		repo, mock, mockDB := newMockPlotRepository(t)
		defer mockDB.Close()

		plotID := uuid.New()

		mock.ExpectExec(`DELETE FROM "plots" WHERE id = \$1`).
			WithArgs(plotID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), plotID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPlotRepository_Count(t *testing.T) {
	t.Run("counts plots for a society and status", func(t *testing.T) {
		repo, mock, mockDB := newMockPlotRepository(t)
		defer mockDB.Close()

		societyID := uuid.New()
		status := estate.PlotStatusAvailable

		mock.ExpectQuery(`SELECT count\(\*\) FROM "plots" WHERE society_id = \$1 AND status = \$2`).
			WithArgs(societyID, status).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		count, err := repo.Count(context.Background(), estate.PlotFilter{
			SocietyID: &societyID,
			Status:    &status,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(42), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
