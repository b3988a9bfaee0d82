package create_package_booking

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

// SessionInput одна сессия пакета. SlotID опционален,
// без него слот подбирается автоматически.
type SessionInput struct {
	Date             time.Time
	SlotID           *int64
	PersonActivities []domain.PersonActivity
}

// Request модель запроса на бронирование пакета
type Request struct {
	Customer      CustomerInput
	People        []PersonInput
	PackageType   domain.PackageType
	Accommodation domain.AccommodationType
	CheckInDate   time.Time
	Sessions      []SessionInput
}

// SessionView сессия в ответе
type SessionView struct {
	SessionNumber    int
	SessionDate      time.Time
	SlotID           int64
	PersonActivities []domain.PersonActivity
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	Reference     string
	PackageType   domain.PackageType
	Accommodation domain.AccommodationType
	CheckInDate   time.Time
	CheckOutDate  time.Time
	TotalPeople   int
	UnitsReserved int
	Sessions      []SessionView

	BaseAmount  float64
	TaxAmount   float64
	TotalAmount float64

	PaymentStatus string
	Status        string
	CreatedAt     time.Time
}
