package create_stay_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	"github.com/wavehouse/MSC-BookingService/internal/pricing"
)

type mockCustomerRepo struct{}

func (m *mockCustomerRepo) Upsert(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	c.ID = 7
	return c, nil
}

type mockBookingRepo struct {
	created *domain.Booking
	people  []domain.BookingPerson
	details *domain.StayDetails
}

func (m *mockBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	b.ID = 42
	b.CreatedAt = time.Now()
	m.created = b
	return b, nil
}

func (m *mockBookingRepo) AddPeople(_ context.Context, _ int64, people []domain.BookingPerson) error {
	m.people = people
	return nil
}

func (m *mockBookingRepo) CreateStayDetails(_ context.Context, d *domain.StayDetails) error {
	m.details = d
	return nil
}

type mockTxManager struct{}

func (m *mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockTimeProvider struct {
	now time.Time
}

func (m *mockTimeProvider) Now() time.Time { return m.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func validRequest() *Request {
	return &Request{
		Customer:      CustomerInput{Name: "Arjun", Email: "arjun@example.com", Phone: "+919800000001"},
		People:        []PersonInput{{Name: "Arjun", Age: 29}, {Name: "Meera", Age: 27}},
		Accommodation: domain.AccommodationTent,
		CheckInDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		CheckOutDate:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		IncludesMeals: true,
	}
}

func newUseCase(bookingRepo *mockBookingRepo) *UseCase {
	uc := NewUseCase(
		&mockCustomerRepo{},
		bookingRepo,
		pricing.NewEngine(),
		&mockTxManager{},
		nopLogger{},
	)
	uc.timeProvider = &mockTimeProvider{now: time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute(t *testing.T) {
	bookingRepo := &mockBookingRepo{}
	uc := newUseCase(bookingRepo)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "2026-09-15", resp.CheckOutDate.Format(domain.DateFormat))
	assert.Equal(t, 2, resp.UnitsReserved)

	// палатка с питанием: 1500 за человека за ночь
	assert.InDelta(t, 9000.0, resp.BaseAmount, 0.001)
	assert.InDelta(t, 10620.0, resp.TotalAmount, 0.001)

	require.NotNil(t, bookingRepo.details)
	assert.Equal(t, 3, bookingRepo.details.NightsCount)
	assert.True(t, bookingRepo.details.IncludesMeals)
	require.Len(t, bookingRepo.people, 2)
	assert.Nil(t, bookingRepo.people[0].Activity)
}

func TestExecute_ExtendedDormStay(t *testing.T) {
	bookingRepo := &mockBookingRepo{}
	uc := newUseCase(bookingRepo)

	req := validRequest()
	req.Accommodation = domain.AccommodationDorm
	req.CheckOutDate = time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	// фиксированный extended-тариф: 11000 за человека с питанием
	assert.InDelta(t, 22000.0, resp.BaseAmount, 0.001)
}

func TestExecute_CottageOverflow(t *testing.T) {
	uc := newUseCase(&mockBookingRepo{})

	req := validRequest()
	req.Accommodation = domain.AccommodationCottage
	req.People = make([]PersonInput, 9)
	for i := range req.People {
		req.People[i] = PersonInput{Name: "Guest", Age: 20}
	}

	_, err := uc.Execute(context.Background(), req)

	assert.True(t, errors.Is(err, ErrAccommodationCapacity))
}

func TestExecute_CheckOutNotAfterCheckIn(t *testing.T) {
	uc := newUseCase(&mockBookingRepo{})

	req := validRequest()
	req.CheckOutDate = req.CheckInDate

	_, err := uc.Execute(context.Background(), req)

	assert.True(t, errors.Is(err, ErrInvalidInput))
}

// Шестиночное проживание продается только как extended-пакет в дорме,
// даже если клиент запросил палатку
func TestExecute_SixNightStayForcedToDorm(t *testing.T) {
	bookingRepo := &mockBookingRepo{}
	uc := newUseCase(bookingRepo)

	req := validRequest()
	req.Accommodation = domain.AccommodationTent
	req.CheckOutDate = time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.AccommodationDorm, resp.Accommodation)
	assert.Equal(t, 6, resp.Nights)
	// extended-тариф с питанием: 11000 за человека
	assert.InDelta(t, 22000.0, resp.BaseAmount, 0.001)

	require.NotNil(t, bookingRepo.details)
	assert.Equal(t, domain.AccommodationDorm, bookingRepo.details.Accommodation)
	assert.Equal(t, 6, bookingRepo.details.NightsCount)
}

func TestExecute_CheckInTooFar(t *testing.T) {
	uc := newUseCase(&mockBookingRepo{})

	req := validRequest()
	req.CheckInDate = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)

	assert.True(t, errors.Is(err, ErrDateTooFarInFuture))
}
