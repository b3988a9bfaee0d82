package update_slot

import (
	"context"

	"github.com/wavehouse/MSC-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateSlot(ctx context.Context, id int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
