package create_stay_booking

import (
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
)

// CustomerInput данные клиента, оформляющего бронирование
type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

// PersonInput один участник группы
type PersonInput struct {
	Name string
	Age  int
}

// Request модель запроса на бронирование проживания без активностей.
// Количество ночей выводится из дат заезда и выезда.
type Request struct {
	Customer      CustomerInput
	People        []PersonInput
	Accommodation domain.AccommodationType
	CheckInDate   time.Time
	CheckOutDate  time.Time
	IncludesMeals bool
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	Accommodation domain.AccommodationType
	CheckInDate   time.Time
	CheckOutDate  time.Time
	Nights        int
	IncludesMeals bool
	TotalPeople   int
	UnitsReserved int

	BaseAmount  float64
	TaxAmount   float64
	TotalAmount float64

	PaymentStatus string
	Status        string
	CreatedAt     time.Time
}
