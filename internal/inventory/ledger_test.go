package inventory

import (
	"sort"
	"testing"

	"eventure/internal/shared/apperrors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gormDB, mock
}

func sortedLines(lines []ReservationLine) []ReservationLine {
	out := make([]ReservationLine, len(lines))
	copy(out, lines)
	sort.Slice(out, func(i, j int) bool {
		return out[i].TicketTypeID.String() < out[j].TicketTypeID.String()
	})
	return out
}

func TestReserveDecrementsEachLineAndAggregate(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedger()
	eventID := uuid.New()
	lines := []ReservationLine{
		{TicketTypeID: uuid.New(), Quantity: 2},
		{TicketTypeID: uuid.New(), Quantity: 1},
	}

	// Lines are locked in ticket-type id order.
	for _, line := range sortedLines(lines) {
		mock.ExpectExec(`UPDATE "ticket_types" SET`).
			WithArgs(line.Quantity, sqlmock.AnyArg(), line.TicketTypeID, eventID, line.Quantity).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(`UPDATE "events" SET`).
		WithArgs(3, sqlmock.AnyArg(), eventID, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ledger.Reserve(db, eventID, lines)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveFailsWhenLineUnsatisfiable(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedger()
	eventID := uuid.New()
	lines := []ReservationLine{{TicketTypeID: uuid.New(), Quantity: 5}}

	// Conditional decrement touches no row when seats are short.
	mock.ExpectExec(`UPDATE "ticket_types" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := ledger.Reserve(db, eventID, lines)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInsufficientInventory))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveValidatesLines(t *testing.T) {
	db, _ := newMockDB(t)
	ledger := NewLedger()

	err := ledger.Reserve(db, uuid.New(), nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	err = ledger.Reserve(db, uuid.New(), []ReservationLine{{TicketTypeID: uuid.New(), Quantity: 0}})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestReleaseCreditsSeatsBack(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedger()
	transactionID := uuid.New()
	eventID := uuid.New()
	lines := []ReservationLine{
		{TicketTypeID: uuid.New(), Quantity: 2},
		{TicketTypeID: uuid.New(), Quantity: 1},
	}

	mock.ExpectExec(`INSERT INTO "inventory_releases"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for range lines {
		mock.ExpectExec(`UPDATE "ticket_types" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(`UPDATE "events" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	released, err := ledger.Release(db, transactionID, eventID, lines)
	require.NoError(t, err)
	assert.True(t, released)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedger()

	// ON CONFLICT DO NOTHING inserts zero rows the second time around, so
	// no seat counts move.
	mock.ExpectExec(`INSERT INTO "inventory_releases"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	released, err := ledger.Release(db, uuid.New(), uuid.New(), []ReservationLine{
		{TicketTypeID: uuid.New(), Quantity: 2},
	})
	require.NoError(t, err)
	assert.False(t, released)
	assert.NoError(t, mock.ExpectationsWereMet())
}
