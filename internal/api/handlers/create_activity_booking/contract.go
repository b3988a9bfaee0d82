package create_activity_booking

import (
	"context"

	createActivityBooking "github.com/wavehouse/MSC-BookingService/internal/usecase/create_activity_booking"
)

type CreateActivityBookingUseCase interface {
	Execute(ctx context.Context, req *createActivityBooking.Request) (*createActivityBooking.Response, error)
}

type BookingMetrics interface {
	IncBookingCreated(bookingType string)
	IncCapacityRejected(activityType string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
