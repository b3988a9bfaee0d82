package create_package_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	slotsRepo "github.com/wavehouse/MSC-BookingService/internal/infra/storage/slots"
	"github.com/wavehouse/MSC-BookingService/internal/lock"
	"github.com/wavehouse/MSC-BookingService/internal/planner"
	"github.com/wavehouse/MSC-BookingService/internal/pricing"
)

type mockCustomerRepo struct{}

func (m *mockCustomerRepo) Upsert(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	c.ID = 7
	return c, nil
}

type mockSlotRepo struct {
	reserveErr error
	reserved   []domain.CapacityClaim
}

func (m *mockSlotRepo) CheckActivity(_ context.Context, _ int64, _ domain.ActivityType) (int, error) {
	return 40, nil
}

func (m *mockSlotRepo) ReserveActivity(_ context.Context, claim domain.CapacityClaim) error {
	if m.reserveErr != nil {
		return m.reserveErr
	}
	m.reserved = append(m.reserved, claim)
	return nil
}

type mockPlanner struct {
	sessions []domain.PackageSession
	err      error
}

func (m *mockPlanner) Plan(_ context.Context, _ domain.PackageType, _ time.Time, _ int, _ []planner.SessionInput) ([]domain.PackageSession, error) {
	return m.sessions, m.err
}

type mockBookingRepo struct {
	created *domain.Booking
	people  []domain.BookingPerson
	details *domain.PackageDetails
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

func (m *mockBookingRepo) CreatePackageDetails(_ context.Context, d *domain.PackageDetails) error {
	m.details = d
	return nil
}

type mockTxManager struct{}

func (m *mockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockLocker struct {
	acquired []string
	released int
}

func (m *mockLocker) Acquire(_ context.Context, key string, _ time.Duration) (lock.Release, error) {
	m.acquired = append(m.acquired, key)
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}

type mockTimeProvider struct {
	now time.Time
}

func (m *mockTimeProvider) Now() time.Time { return m.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func plannedSessions() []domain.PackageSession {
	return []domain.PackageSession{
		{
			SessionNumber: 1,
			SessionDate:   time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
			SlotID:        3,
			PersonActivities: []domain.PersonActivity{
				{PersonIndex: 0, Activity: domain.ActivitySurf},
				{PersonIndex: 1, Activity: domain.ActivitySUP},
			},
		},
		{
			SessionNumber: 2,
			SessionDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			SlotID:        5,
			PersonActivities: []domain.PersonActivity{
				{PersonIndex: 0, Activity: domain.ActivitySurf},
				{PersonIndex: 1, Activity: domain.ActivitySurf},
			},
		},
	}
}

func validRequest() *Request {
	return &Request{
		Customer:      CustomerInput{Name: "Arjun", Email: "arjun@example.com", Phone: "+919800000001"},
		People:        []PersonInput{{Name: "Arjun", Age: 29}, {Name: "Meera", Age: 27}},
		PackageType:   domain.Package1Night2Sessions,
		Accommodation: domain.AccommodationTent,
		CheckInDate:   time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
		Sessions: []SessionInput{
			{Date: time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)},
			{Date: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func newUseCase(slotRepo *mockSlotRepo, bookingRepo *mockBookingRepo, p *mockPlanner, locker *mockLocker) *UseCase {
	uc := NewUseCase(
		&mockCustomerRepo{},
		slotRepo,
		bookingRepo,
		p,
		pricing.NewEngine(),
		&mockTxManager{},
		locker,
		nopLogger{},
	)
	uc.timeProvider = &mockTimeProvider{now: time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute(t *testing.T) {
	slotRepo := &mockSlotRepo{}
	bookingRepo := &mockBookingRepo{}
	locker := &mockLocker{}
	uc := newUseCase(slotRepo, bookingRepo, &mockPlanner{sessions: plannedSessions()}, locker)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "MSC-SUR-42-260911", resp.Reference)
	assert.Equal(t, "2026-09-12", resp.CheckOutDate.Format(domain.DateFormat))
	assert.Equal(t, 2, resp.UnitsReserved)
	require.Len(t, resp.Sessions, 2)

	// цена пакета: палатка, 2 человека по 5000 + GST
	assert.InDelta(t, 10000.0, resp.BaseAmount, 0.001)
	assert.InDelta(t, 11800.0, resp.TotalAmount, 0.001)

	// три кортежа: surf+sup в первой сессии, surf во второй,
	// в порядке (дата, слот, активность)
	require.Len(t, slotRepo.reserved, 3)
	assert.Equal(t, "capacity:2026-09-11:3:sup", slotRepo.reserved[0].Key())
	assert.Equal(t, "capacity:2026-09-11:3:surf", slotRepo.reserved[1].Key())
	assert.Equal(t, "capacity:2026-09-12:5:surf", slotRepo.reserved[2].Key())
	assert.Equal(t, 2, slotRepo.reserved[2].Count)

	assert.Equal(t, 3, locker.released)

	require.NotNil(t, bookingRepo.details)
	assert.Len(t, bookingRepo.details.Sessions, 2)
	// активность у участников не фиксируется, она на сессиях
	require.Len(t, bookingRepo.people, 2)
	assert.Nil(t, bookingRepo.people[0].Activity)
}

func TestExecute_ScheduleMismatch(t *testing.T) {
	p := &mockPlanner{err: planner.ErrScheduleMismatch}
	uc := newUseCase(&mockSlotRepo{}, &mockBookingRepo{}, p, &mockLocker{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.True(t, errors.Is(err, ErrScheduleMismatch))
}

func TestExecute_NoSlotAvailable(t *testing.T) {
	p := &mockPlanner{err: planner.ErrNoSlotAvailable}
	uc := newUseCase(&mockSlotRepo{}, &mockBookingRepo{}, p, &mockLocker{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.True(t, errors.Is(err, ErrNoSlotAvailable))
}

func TestExecute_InvalidAssignment(t *testing.T) {
	p := &mockPlanner{err: planner.ErrInvalidAssignment}
	uc := newUseCase(&mockSlotRepo{}, &mockBookingRepo{}, p, &mockLocker{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestExecute_AccommodationCapacityExceeded(t *testing.T) {
	uc := newUseCase(&mockSlotRepo{}, &mockBookingRepo{}, &mockPlanner{sessions: plannedSessions()}, &mockLocker{})

	req := validRequest()
	req.Accommodation = domain.AccommodationCottage
	req.People = make([]PersonInput, 9)
	for i := range req.People {
		req.People[i] = PersonInput{Name: "Guest", Age: 20}
	}

	_, err := uc.Execute(context.Background(), req)

	assert.True(t, errors.Is(err, ErrAccommodationCapacity))
}

func TestExecute_InsufficientCapacity_ReleasesLocks(t *testing.T) {
	slotRepo := &mockSlotRepo{reserveErr: slotsRepo.ErrInsufficientCapacity}
	bookingRepo := &mockBookingRepo{}
	locker := &mockLocker{}
	uc := newUseCase(slotRepo, bookingRepo, &mockPlanner{sessions: plannedSessions()}, locker)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.True(t, errors.Is(err, ErrInsufficientCapacity))
	assert.Nil(t, bookingRepo.created)
	// первая взятая блокировка снята, несмотря на откат
	assert.Equal(t, 1, locker.released)
}
