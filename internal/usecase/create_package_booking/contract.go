package create_package_booking

import (
	"context"
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	"github.com/wavehouse/MSC-BookingService/internal/lock"
	"github.com/wavehouse/MSC-BookingService/internal/planner"
)

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	Upsert(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
}

// SlotRepository интерфейс репозитория слотов и леджера вместимости
type SlotRepository interface {
	CheckActivity(ctx context.Context, slotID int64, activity domain.ActivityType) (int, error)
	ReserveActivity(ctx context.Context, claim domain.CapacityClaim) error
}

// SessionPlanner интерфейс планировщика сессий пакета
type SessionPlanner interface {
	Plan(ctx context.Context, pkg domain.PackageType, checkIn time.Time, peopleCount int, inputs []planner.SessionInput) ([]domain.PackageSession, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	AddPeople(ctx context.Context, bookingID int64, people []domain.BookingPerson) error
	CreatePackageDetails(ctx context.Context, details *domain.PackageDetails) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker интерфейс распределенной блокировки кортежей вместимости
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (lock.Release, error)
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
