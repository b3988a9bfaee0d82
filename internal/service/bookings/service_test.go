package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	bookingsRepo "github.com/wavehouse/MSC-BookingService/internal/infra/storage/bookings"
	"github.com/wavehouse/MSC-BookingService/internal/pricing"
	"github.com/wavehouse/MSC-BookingService/internal/service/bookings/models"
	"github.com/wavehouse/MSC-BookingService/pkg/ptr"
)

type mockBookingRepo struct {
	booking        *domain.Booking
	bookingErr     error
	people         []*domain.BookingPerson
	activityDet    *domain.ActivityDetails
	packageDet     *domain.PackageDetails
	stayDet        *domain.StayDetails
	statusUpdates  []domain.BookingStatus
	paymentUpdates []domain.PaymentStatus
	listed         []*domain.Booking
}

func (m *mockBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	return m.booking, m.bookingErr
}

func (m *mockBookingRepo) GetPeople(_ context.Context, _ int64) ([]*domain.BookingPerson, error) {
	return m.people, nil
}

func (m *mockBookingRepo) GetActivityDetails(_ context.Context, _ int64) (*domain.ActivityDetails, error) {
	return m.activityDet, nil
}

func (m *mockBookingRepo) GetPackageDetails(_ context.Context, _ int64) (*domain.PackageDetails, error) {
	return m.packageDet, nil
}

func (m *mockBookingRepo) GetStayDetails(_ context.Context, _ int64) (*domain.StayDetails, error) {
	return m.stayDet, nil
}

func (m *mockBookingRepo) GetAll(_ context.Context, _ domain.BookingsFilter) ([]*domain.Booking, error) {
	return m.listed, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus) error {
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

func (m *mockBookingRepo) UpdatePaymentStatus(_ context.Context, _ int64, status domain.PaymentStatus, _ *string) error {
	m.paymentUpdates = append(m.paymentUpdates, status)
	return nil
}

type mockCustomerRepo struct {
	customer *domain.Customer
}

func (m *mockCustomerRepo) GetByID(_ context.Context, _ int64) (*domain.Customer, error) {
	return m.customer, nil
}

type mockSlotRepo struct {
	released []domain.CapacityClaim
}

func (m *mockSlotRepo) ReleaseActivity(_ context.Context, claim domain.CapacityClaim) error {
	m.released = append(m.released, claim)
	return nil
}

type mockTxManager struct{}

func (m *mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *mockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func confirmedActivityBooking() *domain.Booking {
	price := pricing.NewEngine().ActivityPrice(2)
	return &domain.Booking{
		ID:             17,
		CustomerID:     7,
		Type:           domain.BookingTypeActivity,
		TotalPeople:    2,
		PriceBreakdown: domain.PriceBreakdown(price),
		PaymentStatus:  domain.PaymentPending,
		Status:         domain.StatusConfirmed,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

func newService(bookingRepo *mockBookingRepo, slotRepo *mockSlotRepo) *Service {
	return NewService(
		bookingRepo,
		&mockCustomerRepo{customer: &domain.Customer{ID: 7, Name: "Arjun", Email: "arjun@example.com", Phone: "+919800000001"}},
		slotRepo,
		&mockTxManager{},
		nopLogger{},
	)
}

func TestGetByID_ActivityBooking(t *testing.T) {
	repo := &mockBookingRepo{
		booking: confirmedActivityBooking(),
		people: []*domain.BookingPerson{
			{Name: "Arjun", Age: 29, Activity: ptr.Ptr(domain.ActivitySurf)},
			{Name: "Meera", Age: 27, Activity: ptr.Ptr(domain.ActivitySurf)},
		},
		activityDet: &domain.ActivityDetails{
			BookingID:   17,
			Activity:    domain.ActivitySurf,
			SessionDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			SlotID:      3,
		},
	}
	svc := newService(repo, &mockSlotRepo{})

	resp, err := svc.GetByID(context.Background(), 17)

	require.NoError(t, err)
	assert.Equal(t, "MSC-SUR-17-260912", resp.Reference)
	assert.Equal(t, "activity", resp.BookingType)
	require.NotNil(t, resp.Customer)
	assert.Equal(t, "Arjun", resp.Customer.Name)
	require.Len(t, resp.People, 2)
	require.NotNil(t, resp.ActivityDetails)
	assert.Equal(t, "2026-09-12", resp.ActivityDetails.SessionDate)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockBookingRepo{bookingErr: bookingsRepo.ErrBookingNotFound}
	svc := newService(repo, &mockSlotRepo{})

	_, err := svc.GetByID(context.Background(), 404)

	assert.True(t, errors.Is(err, ErrBookingNotFound))
}

func TestCancel_ActivityBooking(t *testing.T) {
	repo := &mockBookingRepo{
		booking: confirmedActivityBooking(),
		activityDet: &domain.ActivityDetails{
			BookingID:   17,
			Activity:    domain.ActivitySurf,
			SessionDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			SlotID:      3,
		},
	}
	slotRepo := &mockSlotRepo{}
	svc := newService(repo, slotRepo)

	resp, err := svc.Cancel(context.Background(), 17)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)

	// без строк участников вся группа возвращена одним кортежем
	require.Len(t, slotRepo.released, 1)
	assert.Equal(t, 2, slotRepo.released[0].Count)
	assert.Equal(t, "capacity:2026-09-12:3:surf", slotRepo.released[0].Key())

	require.Len(t, repo.statusUpdates, 1)
	assert.Equal(t, domain.StatusCancelled, repo.statusUpdates[0])
}

// Возврат мест идет по группам активностей, как они были
// зарезервированы при создании
func TestCancel_ActivityBooking_ReleasesPerActivityGroup(t *testing.T) {
	booking := confirmedActivityBooking()
	booking.TotalPeople = 3
	repo := &mockBookingRepo{
		booking: booking,
		people: []*domain.BookingPerson{
			{Name: "Arjun", Age: 29, Activity: ptr.Ptr(domain.ActivitySurf)},
			{Name: "Meera", Age: 27, Activity: ptr.Ptr(domain.ActivitySUP)},
			{Name: "Kiran", Age: 31, Activity: ptr.Ptr(domain.ActivitySurf)},
		},
		activityDet: &domain.ActivityDetails{
			BookingID:   17,
			Activity:    domain.ActivitySurf,
			SessionDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			SlotID:      3,
		},
	}
	slotRepo := &mockSlotRepo{}
	svc := newService(repo, slotRepo)

	_, err := svc.Cancel(context.Background(), 17)

	require.NoError(t, err)
	require.Len(t, slotRepo.released, 2)
	assert.Equal(t, "capacity:2026-09-12:3:sup", slotRepo.released[0].Key())
	assert.Equal(t, 1, slotRepo.released[0].Count)
	assert.Equal(t, "capacity:2026-09-12:3:surf", slotRepo.released[1].Key())
	assert.Equal(t, 2, slotRepo.released[1].Count)
}

func TestCancel_PackageBooking_ReleasesAllSessions(t *testing.T) {
	booking := confirmedActivityBooking()
	booking.Type = domain.BookingTypePackage
	repo := &mockBookingRepo{
		booking: booking,
		packageDet: &domain.PackageDetails{
			BookingID:   17,
			PackageType: domain.Package1Night2Sessions,
			CheckInDate: time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
			Sessions: []domain.PackageSession{
				{
					SessionNumber: 1,
					SessionDate:   time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
					SlotID:        3,
					PersonActivities: []domain.PersonActivity{
						{PersonIndex: 0, Activity: domain.ActivitySurf},
						{PersonIndex: 1, Activity: domain.ActivityKayak},
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
			},
		},
	}
	slotRepo := &mockSlotRepo{}
	svc := newService(repo, slotRepo)

	_, err := svc.Cancel(context.Background(), 17)

	require.NoError(t, err)
	// возвраты в порядке (дата, слот, активность)
	require.Len(t, slotRepo.released, 3)
	assert.Equal(t, "capacity:2026-09-11:3:kayak", slotRepo.released[0].Key())
	assert.Equal(t, "capacity:2026-09-11:3:surf", slotRepo.released[1].Key())
	assert.Equal(t, "capacity:2026-09-12:5:surf", slotRepo.released[2].Key())
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	booking := confirmedActivityBooking()
	booking.Status = domain.StatusCancelled
	repo := &mockBookingRepo{booking: booking}
	slotRepo := &mockSlotRepo{}
	svc := newService(repo, slotRepo)

	_, err := svc.Cancel(context.Background(), 17)

	assert.True(t, errors.Is(err, ErrCannotCancel))
	// повторная отмена не трогает леджер
	assert.Empty(t, slotRepo.released)
	assert.Empty(t, repo.statusUpdates)
}

func TestCancel_StayBooking_NoLedgerTouch(t *testing.T) {
	booking := confirmedActivityBooking()
	booking.Type = domain.BookingTypeStayOnly
	repo := &mockBookingRepo{booking: booking}
	slotRepo := &mockSlotRepo{}
	svc := newService(repo, slotRepo)

	resp, err := svc.Cancel(context.Background(), 17)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Empty(t, slotRepo.released)
}

func TestUpdatePaymentStatus_Invalid(t *testing.T) {
	svc := newService(&mockBookingRepo{}, &mockSlotRepo{})

	err := svc.UpdatePaymentStatus(context.Background(), 17, &models.UpdatePaymentStatusRequest{PaymentStatus: "refunded"})

	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestUpdatePaymentStatus(t *testing.T) {
	repo := &mockBookingRepo{}
	svc := newService(repo, &mockSlotRepo{})

	err := svc.UpdatePaymentStatus(context.Background(), 17, &models.UpdatePaymentStatusRequest{PaymentStatus: "completed"})

	require.NoError(t, err)
	require.Len(t, repo.paymentUpdates, 1)
	assert.Equal(t, domain.PaymentCompleted, repo.paymentUpdates[0])
}
