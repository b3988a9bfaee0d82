package create_stay_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if err := validateCustomer(&req.Customer); err != nil {
		return err
	}

	if err := validatePeople(req.People); err != nil {
		return err
	}

	if !req.Accommodation.IsValid() {
		return fmt.Errorf("%w: unknown accommodation type %q", ErrInvalidInput, req.Accommodation)
	}

	if req.CheckInDate.IsZero() {
		return fmt.Errorf("%w: checkInDate is required", ErrInvalidInput)
	}

	if req.CheckOutDate.IsZero() {
		return fmt.Errorf("%w: checkOutDate is required", ErrInvalidInput)
	}

	if nightsBetween(req.CheckInDate, req.CheckOutDate) <= 0 {
		return fmt.Errorf("%w: checkOutDate must be after checkInDate", ErrInvalidInput)
	}

	return nil
}

// nightsBetween количество ночей между датами заезда и выезда
func nightsBetween(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	return int(out.Sub(in).Hours() / 24)
}

// validateCustomer проверяет данные клиента
func validateCustomer(c *CustomerInput) error {
	if len(strings.TrimSpace(c.Name)) < domain.MinCustomerNameLen {
		return fmt.Errorf("%w: customer name must be at least %d characters", ErrInvalidInput, domain.MinCustomerNameLen)
	}

	if !domain.ValidEmail(c.Email) {
		return fmt.Errorf("%w: invalid customer email", ErrInvalidInput)
	}

	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}

	return nil
}

// validatePeople проверяет состав группы
func validatePeople(people []PersonInput) error {
	if len(people) == 0 {
		return fmt.Errorf("%w: at least one person is required", ErrInvalidInput)
	}

	if len(people) > domain.MaxPeoplePerBooking {
		return fmt.Errorf("%w: at most %d people per booking", ErrInvalidInput, domain.MaxPeoplePerBooking)
	}

	for i, p := range people {
		if len(strings.TrimSpace(p.Name)) < domain.MinCustomerNameLen {
			return fmt.Errorf("%w: person %d name must be at least %d characters", ErrInvalidInput, i+1, domain.MinCustomerNameLen)
		}
		if p.Age < domain.MinPersonAge || p.Age > domain.MaxPersonAge {
			return fmt.Errorf("%w: person %d age must be between %d and %d", ErrInvalidInput, i+1, domain.MinPersonAge, domain.MaxPersonAge)
		}
	}

	return nil
}

// validateCheckIn дата заезда не в прошлом и внутри недельного окна
// бронирования, которое закрывается следующим понедельником
func validateCheckIn(checkIn time.Time, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dateOnly := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, checkIn.Location())

	if dateOnly.Before(today) {
		return ErrInvalidDate
	}

	maxDate := domain.BookingWindowEnd(today)
	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: bookings are open until %s", ErrDateTooFarInFuture, maxDate.Format(domain.DateFormat))
	}

	return nil
}
