package get_availability

import (
	"context"
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	DateAvailability(ctx context.Context, date time.Time) (*models.DateAvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
