package create_activity_booking

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

// PersonInput один участник группы. Activity опциональна, без нее
// участник наследует активность уровня бронирования.
type PersonInput struct {
	Name     string
	Age      int
	Activity domain.ActivityType
}

// Request модель запроса на бронирование активности. Участники одной
// группы могут выбирать разные активности в одном слоте.
type Request struct {
	Customer CustomerInput
	People   []PersonInput
	Activity domain.ActivityType // дефолтная активность для участников
	Date     time.Time           // дата сессии (без времени)
	SlotID   int64
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	Reference   string
	Activity    domain.ActivityType
	SessionDate time.Time
	SlotID      int64
	TotalPeople int

	BaseAmount  float64
	TaxAmount   float64
	TotalAmount float64

	PaymentStatus string
	Status        string
	CreatedAt     time.Time
}
