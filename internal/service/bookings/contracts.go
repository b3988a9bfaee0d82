package bookings

import (
	"context"
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetPeople(ctx context.Context, bookingID int64) ([]*domain.BookingPerson, error)
	GetActivityDetails(ctx context.Context, bookingID int64) (*domain.ActivityDetails, error)
	GetPackageDetails(ctx context.Context, bookingID int64) (*domain.PackageDetails, error)
	GetStayDetails(ctx context.Context, bookingID int64) (*domain.StayDetails, error)
	GetAll(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, paymentRef *string) error
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}

// SlotRepository интерфейс леджера вместимости для возврата мест при отмене
type SlotRepository interface {
	ReleaseActivity(ctx context.Context, claim domain.CapacityClaim) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
