package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	"github.com/wavehouse/MSC-BookingService/pkg/ptr"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func bookingColumns() []string {
	return []string{
		"id", "customer_id", "booking_type", "total_people",
		"base_amount", "tax_amount", "total_amount",
		"payment_status", "payment_ref", "status",
		"created_at", "updated_at",
	}
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(int64(7), "activity", 2, 3400.0, 612.0, 4012.0, "pending", nil, "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	booking, err := repo.Create(context.Background(), &domain.Booking{
		CustomerID:  7,
		Type:        domain.BookingTypeActivity,
		TotalPeople: 2,
		PriceBreakdown: domain.PriceBreakdown{
			BaseAmount:  3400,
			TaxAmount:   612,
			TotalAmount: 4012,
		},
		PaymentStatus: domain.PaymentPending,
		Status:        domain.StatusConfirmed,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), booking.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_LegacyTypeAlias(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery("SELECT .+ FROM bookings").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(int64(5), int64(7), "surf_sup", 3, 5100.0, 918.0, 6018.0, "completed", nil, "confirmed", now, now))

	booking, err := repo.GetByID(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingTypeActivity, booking.Type)
	assert.Equal(t, domain.PaymentCompleted, booking.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT .+ FROM bookings").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(bookingColumns()))

	_, err := repo.GetByID(context.Background(), 404)

	assert.True(t, errors.Is(err, ErrBookingNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("cancelled", int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 404, domain.StatusCancelled)

	assert.True(t, errors.Is(err, ErrBookingNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentStatus_WithRef(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE bookings SET payment_status").
		WithArgs("completed", "pay_123", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePaymentStatus(context.Background(), 5, domain.PaymentCompleted, ptr.Ptr("pay_123"))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAll_Filtered(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	bookingType := domain.BookingTypePackage

	mock.ExpectQuery("SELECT .+ FROM bookings b").
		WithArgs("package").
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(int64(1), int64(7), "package", 4, 36000.0, 6480.0, 42480.0, "pending", nil, "confirmed", now, now))

	items, err := repo.GetAll(context.Background(), domain.BookingsFilter{Type: &bookingType})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.BookingTypePackage, items[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
