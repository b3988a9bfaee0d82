package create_package_booking

import (
	"context"

	createPackageBooking "github.com/wavehouse/MSC-BookingService/internal/usecase/create_package_booking"
)

type CreatePackageBookingUseCase interface {
	Execute(ctx context.Context, req *createPackageBooking.Request) (*createPackageBooking.Response, error)
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
