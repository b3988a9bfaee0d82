package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestUpsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO customers").
		WithArgs("Arjun", "arjun@example.com", "+919800000001").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	customer, err := repo.Upsert(context.Background(), &domain.Customer{
		Name:  "Arjun",
		Email: "arjun@example.com",
		Phone: "+919800000001",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), customer.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT .+ FROM customers").
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "created_at", "updated_at"}))

	_, err := repo.GetByEmail(context.Background(), "missing@example.com")

	assert.True(t, errors.Is(err, ErrCustomerNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
