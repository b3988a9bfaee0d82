package create_activity_booking

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
	"github.com/wavehouse/MSC-BookingService/internal/pricing"
)

type mockCustomerRepo struct {
	upserted *domain.Customer
}

func (m *mockCustomerRepo) Upsert(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	c.ID = 7
	m.upserted = c
	return c, nil
}

type mockSlotRepo struct {
	slot       *domain.Slot
	slotErr    error
	checkErr   error
	reserveErr error
	reserved   []domain.CapacityClaim
}

func (m *mockSlotRepo) GetByID(_ context.Context, _ int64) (*domain.Slot, error) {
	return m.slot, m.slotErr
}

func (m *mockSlotRepo) CheckActivity(_ context.Context, _ int64, _ domain.ActivityType) (int, error) {
	if m.checkErr != nil {
		return 0, m.checkErr
	}
	return 40, nil
}

func (m *mockSlotRepo) ReserveActivity(_ context.Context, claim domain.CapacityClaim) error {
	if m.reserveErr != nil {
		return m.reserveErr
	}
	m.reserved = append(m.reserved, claim)
	return nil
}

type mockBookingRepo struct {
	created *domain.Booking
	people  []domain.BookingPerson
	details *domain.ActivityDetails
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

func (m *mockBookingRepo) CreateActivityDetails(_ context.Context, d *domain.ActivityDetails) error {
	m.details = d
	return nil
}

type mockTxManager struct{}

func (m *mockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockLocker struct {
	err      error
	acquired []string
	released int
}

func (m *mockLocker) Acquire(_ context.Context, key string, _ time.Duration) (lock.Release, error) {
	if m.err != nil {
		return nil, m.err
	}
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

func saturdaySlot() *domain.Slot {
	return &domain.Slot{ID: 3, DayOfWeek: 6, Capacity: 40, Active: true}
}

func validRequest() *Request {
	return &Request{
		Customer: CustomerInput{Name: "Arjun", Email: "arjun@example.com", Phone: "+919800000001"},
		People: []PersonInput{
			{Name: "Arjun", Age: 29},
			{Name: "Meera", Age: 27},
		},
		Activity: domain.ActivitySurf,
		Date:     time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), // суббота
		SlotID:   3,
	}
}

func newUseCase(slotRepo *mockSlotRepo, bookingRepo *mockBookingRepo, locker *mockLocker) *UseCase {
	uc := NewUseCase(
		&mockCustomerRepo{},
		slotRepo,
		bookingRepo,
		pricing.NewEngine(),
		&mockTxManager{},
		locker,
		nopLogger{},
	)
	uc.timeProvider = &mockTimeProvider{now: time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute(t *testing.T) {
	slotRepo := &mockSlotRepo{slot: saturdaySlot()}
	bookingRepo := &mockBookingRepo{}
	locker := &mockLocker{}
	uc := newUseCase(slotRepo, bookingRepo, locker)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "MSC-SUR-42-260912", resp.Reference)
	assert.Equal(t, 2, resp.TotalPeople)
	assert.InDelta(t, 3400.0, resp.BaseAmount, 0.001)
	assert.InDelta(t, 4012.0, resp.TotalAmount, 0.001)
	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)

	// резерв прошел по кортежу всей группой
	require.Len(t, slotRepo.reserved, 1)
	assert.Equal(t, 2, slotRepo.reserved[0].Count)

	// блокировка взята и снята
	assert.Equal(t, []string{"capacity:2026-09-12:3:surf"}, locker.acquired)
	assert.Equal(t, 1, locker.released)

	require.NotNil(t, bookingRepo.details)
	assert.Equal(t, domain.ActivitySurf, bookingRepo.details.Activity)
	require.Len(t, bookingRepo.people, 2)
	assert.Equal(t, domain.ActivitySurf, *bookingRepo.people[0].Activity)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := newUseCase(&mockSlotRepo{slot: saturdaySlot()}, &mockBookingRepo{}, &mockLocker{})

	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{name: "no people", modify: func(r *Request) { r.People = nil }},
		{name: "too many people", modify: func(r *Request) {
			r.People = make([]PersonInput, domain.MaxPeoplePerBooking+1)
			for i := range r.People {
				r.People[i] = PersonInput{Name: "Guest", Age: 20}
			}
		}},
		{name: "person too young", modify: func(r *Request) { r.People[0].Age = 4 }},
		{name: "person too old", modify: func(r *Request) { r.People[0].Age = 101 }},
		{name: "bad email", modify: func(r *Request) { r.Customer.Email = "not-an-email" }},
		{name: "email without domain", modify: func(r *Request) { r.Customer.Email = "arjun@example" }},
		{name: "unknown activity", modify: func(r *Request) { r.Activity = "snowboard" }},
		{name: "unknown person activity", modify: func(r *Request) { r.People[0].Activity = "snowboard" }},
		{name: "no activity at all", modify: func(r *Request) { r.Activity = "" }},
		{name: "short person name", modify: func(r *Request) { r.People[0].Name = "A" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(req)

			_, err := uc.Execute(context.Background(), req)

			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestExecute_DateOutsideWindow(t *testing.T) {
	uc := newUseCase(&mockSlotRepo{slot: saturdaySlot()}, &mockBookingRepo{}, &mockLocker{})

	req := validRequest()
	req.Date = time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)

	assert.True(t, errors.Is(err, ErrDateTooFarInFuture))
}

// Окно бронирования закрывается следующим понедельником, а не через
// фиксированное число дней
func TestExecute_WindowClosesAfterNextMonday(t *testing.T) {
	uc := newUseCase(&mockSlotRepo{slot: saturdaySlot()}, &mockBookingRepo{}, &mockLocker{})

	// сейчас четверг 2026-09-10, окно открыто до понедельника 2026-09-14
	req := validRequest()
	req.Date = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)

	assert.True(t, errors.Is(err, ErrDateTooFarInFuture))

	// сам понедельник еще внутри окна: дата проходит проверку и
	// отсеивается только по дню недели слота
	req.Date = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	_, err = uc.Execute(context.Background(), req)

	assert.True(t, errors.Is(err, ErrSlotDayMismatch))
}

// Участники одной группы выбирают разные активности: резерв и
// блокировки идут по группам в порядке (дата, слот, активность)
func TestExecute_MixedActivities(t *testing.T) {
	slotRepo := &mockSlotRepo{slot: saturdaySlot()}
	bookingRepo := &mockBookingRepo{}
	locker := &mockLocker{}
	uc := newUseCase(slotRepo, bookingRepo, locker)

	req := validRequest()
	req.Activity = ""
	req.People = []PersonInput{
		{Name: "Arjun", Age: 29, Activity: domain.ActivitySurf},
		{Name: "Meera", Age: 27, Activity: domain.ActivitySUP},
		{Name: "Kiran", Age: 31, Activity: domain.ActivitySurf},
	}

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalPeople)

	// по одному резерву на группу активностей
	require.Len(t, slotRepo.reserved, 2)
	assert.Equal(t, domain.ActivitySUP, slotRepo.reserved[0].Activity)
	assert.Equal(t, 1, slotRepo.reserved[0].Count)
	assert.Equal(t, domain.ActivitySurf, slotRepo.reserved[1].Activity)
	assert.Equal(t, 2, slotRepo.reserved[1].Count)

	assert.Equal(t, []string{"capacity:2026-09-12:3:sup", "capacity:2026-09-12:3:surf"}, locker.acquired)
	assert.Equal(t, 2, locker.released)

	// активность сохранена на каждом участнике
	require.Len(t, bookingRepo.people, 3)
	assert.Equal(t, domain.ActivitySurf, *bookingRepo.people[0].Activity)
	assert.Equal(t, domain.ActivitySUP, *bookingRepo.people[1].Activity)

	// без активности уровня бронирования референс идет по первому участнику
	assert.Equal(t, domain.ActivitySurf, resp.Activity)
	assert.Equal(t, "MSC-SUR-42-260912", resp.Reference)
}

func TestExecute_DateInPast(t *testing.T) {
	uc := newUseCase(&mockSlotRepo{slot: saturdaySlot()}, &mockBookingRepo{}, &mockLocker{})

	req := validRequest()
	req.Date = time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)

	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestExecute_SlotDayMismatch(t *testing.T) {
	slot := saturdaySlot()
	slot.DayOfWeek = 3
	uc := newUseCase(&mockSlotRepo{slot: slot}, &mockBookingRepo{}, &mockLocker{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.True(t, errors.Is(err, ErrSlotDayMismatch))
}

func TestExecute_ActivityNotConfigured(t *testing.T) {
	slotRepo := &mockSlotRepo{slot: saturdaySlot(), checkErr: slotsRepo.ErrActivityNotConfigured}
	uc := newUseCase(slotRepo, &mockBookingRepo{}, &mockLocker{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.True(t, errors.Is(err, ErrActivityNotConfigured))
}

func TestExecute_InsufficientCapacity(t *testing.T) {
	slotRepo := &mockSlotRepo{slot: saturdaySlot(), reserveErr: slotsRepo.ErrInsufficientCapacity}
	bookingRepo := &mockBookingRepo{}
	locker := &mockLocker{}
	uc := newUseCase(slotRepo, bookingRepo, locker)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.True(t, errors.Is(err, ErrInsufficientCapacity))
	// бронирование не создано, блокировка снята
	assert.Nil(t, bookingRepo.created)
	assert.Equal(t, 1, locker.released)
}

func TestExecute_SlotBusy(t *testing.T) {
	uc := newUseCase(&mockSlotRepo{slot: saturdaySlot()}, &mockBookingRepo{}, &mockLocker{err: lock.ErrNotAcquired})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.True(t, errors.Is(err, ErrSlotBusy))
}

func TestExecute_SlotInactive(t *testing.T) {
	slot := saturdaySlot()
	slot.Active = false
	uc := newUseCase(&mockSlotRepo{slot: slot}, &mockBookingRepo{}, &mockLocker{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.True(t, errors.Is(err, ErrSlotNotFound))
}
