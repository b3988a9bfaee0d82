package get_bookings

import (
	"context"

	"github.com/wavehouse/MSC-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetAll(ctx context.Context, req *models.GetAllBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
