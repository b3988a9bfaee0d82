package schedule

import (
	"context"
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов и леджера вместимости
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	Update(ctx context.Context, slot *domain.Slot) error
	Deactivate(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	GetByDay(ctx context.Context, dayOfWeek int) ([]*domain.Slot, error)
	GetAll(ctx context.Context) ([]*domain.Slot, error)
	SetActivityCapacity(ctx context.Context, cap *domain.ActivityCapacity) error
	GetActivityConfig(ctx context.Context, slotID int64) ([]*domain.ActivityCapacity, error)
	GetAvailability(ctx context.Context, slotID int64, date time.Time) ([]*domain.ActivityAvailability, error)
	UtilizationReport(ctx context.Context, from, to time.Time) ([]*domain.ActivityAvailability, error)
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
