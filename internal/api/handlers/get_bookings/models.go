package get_bookings

import (
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	"github.com/wavehouse/MSC-BookingService/internal/service/bookings/models"
)

// ToServiceRequest собирает запрос сервиса из query параметров
func ToServiceRequest(dateFromStr, dateToStr, typeStr, paymentStatusStr, search string) (*models.GetAllBookingsRequest, error) {
	req := &models.GetAllBookingsRequest{Search: search}

	if dateFromStr != "" {
		dateFrom, err := time.Parse(domain.DateFormat, dateFromStr)
		if err != nil {
			return nil, err
		}
		req.DateFrom = &dateFrom
	}

	if dateToStr != "" {
		dateTo, err := time.Parse(domain.DateFormat, dateToStr)
		if err != nil {
			return nil, err
		}
		req.DateTo = &dateTo
	}

	if typeStr != "" {
		req.Type = &typeStr
	}

	if paymentStatusStr != "" {
		req.PaymentStatus = &paymentStatusStr
	}

	return req, nil
}
