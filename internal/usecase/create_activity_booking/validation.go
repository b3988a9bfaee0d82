package create_activity_booking

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

	// активность уровня бронирования опциональна, это дефолт для
	// участников без собственного выбора
	if req.Activity != "" && !req.Activity.IsValid() {
		return fmt.Errorf("%w: unknown activity %q", ErrInvalidInput, req.Activity)
	}

	if err := validatePeople(req.People, req.Activity); err != nil {
		return err
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	return nil
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

// validatePeople проверяет состав группы. Каждый участник должен
// получить валидную активность: свою или дефолтную из бронирования.
func validatePeople(people []PersonInput, defaultActivity domain.ActivityType) error {
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
		activity := p.Activity
		if activity == "" {
			activity = defaultActivity
		}
		if !activity.IsValid() {
			return fmt.Errorf("%w: person %d has unknown activity %q", ErrInvalidInput, i+1, activity)
		}
	}

	return nil
}

// validateDate дата сессии не в прошлом и внутри недельного окна
// бронирования, которое закрывается следующим понедельником
func validateDate(date time.Time, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	if dateOnly.Before(today) {
		return ErrInvalidDate
	}

	maxDate := domain.BookingWindowEnd(today)
	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: bookings are open until %s", ErrDateTooFarInFuture, maxDate.Format(domain.DateFormat))
	}

	return nil
}

// slotMatchesDate день недели слота совпадает с датой сессии
func slotMatchesDate(slot *domain.Slot, date time.Time) bool {
	dayOfWeek := int(date.Weekday())
	if dayOfWeek == 0 {
		dayOfWeek = 7
	}
	return slot.DayOfWeek == dayOfWeek
}
