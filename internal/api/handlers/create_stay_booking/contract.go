package create_stay_booking

import (
	"context"

	createStayBooking "github.com/wavehouse/MSC-BookingService/internal/usecase/create_stay_booking"
)

type CreateStayBookingUseCase interface {
	Execute(ctx context.Context, req *createStayBooking.Request) (*createStayBooking.Response, error)
}

type BookingMetrics interface {
	IncBookingCreated(bookingType string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
