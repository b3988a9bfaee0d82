package utilization_report

import (
	"context"
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	UtilizationReport(ctx context.Context, from, to time.Time) (*models.UtilizationReportResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
