package get_schedule

import (
	"context"

	"github.com/wavehouse/MSC-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	WeeklySchedule(ctx context.Context) (*models.WeeklyScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
