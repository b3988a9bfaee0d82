package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	"github.com/wavehouse/MSC-BookingService/pkg/types"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()

	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO slots").
		WithArgs(6, "07:00", "08:30", 40, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	slot, err := repo.Create(context.Background(), &domain.Slot{
		DayOfWeek: 6,
		StartTime: mustTime(t, "07:00"),
		EndTime:   mustTime(t, "08:30"),
		Capacity:  40,
		Active:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), slot.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT .+ FROM slots").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "day_of_week", "start_time", "end_time", "capacity", "active", "created_at", "updated_at"}))

	_, err := repo.GetByID(context.Background(), 99)

	assert.True(t, errors.Is(err, ErrSlotNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckActivity(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT max_capacity FROM slot_activities").
		WithArgs(int64(3), "surf").
		WillReturnRows(sqlmock.NewRows([]string{"max_capacity"}).AddRow(40))

	maxCap, err := repo.CheckActivity(context.Background(), 3, domain.ActivitySurf)

	require.NoError(t, err)
	assert.Equal(t, 40, maxCap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckActivity_NotConfigured(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT max_capacity FROM slot_activities").
		WithArgs(int64(3), "kayak").
		WillReturnRows(sqlmock.NewRows([]string{"max_capacity"}))

	_, err := repo.CheckActivity(context.Background(), 3, domain.ActivityKayak)

	assert.True(t, errors.Is(err, ErrActivityNotConfigured))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveActivity(t *testing.T) {
	repo, mock := newMockRepo(t)

	claim := domain.CapacityClaim{
		SlotID:      3,
		BookingDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Activity:    domain.ActivitySurf,
		Count:       4,
	}

	mock.ExpectExec("INSERT INTO slot_activity_availability").
		WithArgs("2026-09-12", 4, int64(3), "surf", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ReserveActivity(context.Background(), claim)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveActivity_InsufficientCapacity(t *testing.T) {
	repo, mock := newMockRepo(t)

	claim := domain.CapacityClaim{
		SlotID:      3,
		BookingDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Activity:    domain.ActivityKayak,
		Count:       5,
	}

	// условный апсерт не затронул строк: потолок не позволяет инкремент
	mock.ExpectExec("INSERT INTO slot_activity_availability").
		WithArgs("2026-09-12", 5, int64(3), "kayak", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ReserveActivity(context.Background(), claim)

	assert.True(t, errors.Is(err, ErrInsufficientCapacity))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseActivity(t *testing.T) {
	repo, mock := newMockRepo(t)

	claim := domain.CapacityClaim{
		SlotID:      3,
		BookingDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Activity:    domain.ActivitySurf,
		Count:       2,
	}

	mock.ExpectExec("UPDATE slot_activity_availability SET booked_count = GREATEST").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ReleaseActivity(context.Background(), claim)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaxAvailableSpots(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("2026-09-12", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"spots"}).AddRow(12))

	spots, err := repo.MaxAvailableSpots(context.Background(), 3, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, 12, spots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSlotForDate_NoSlot(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT s.id FROM slots s").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindSlotForDate(context.Background(), time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), 10)

	assert.True(t, errors.Is(err, ErrNoSlotAvailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}
