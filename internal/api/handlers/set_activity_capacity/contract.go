package set_activity_capacity

import (
	"context"

	"github.com/wavehouse/MSC-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	SetActivityCapacity(ctx context.Context, slotID int64, req *models.SetActivityCapacityRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
