package create_activity_booking

import (
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	createActivityBooking "github.com/wavehouse/MSC-BookingService/internal/usecase/create_activity_booking"
)

// CustomerPayload данные клиента в HTTP запросе
type CustomerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PersonPayload участник группы в HTTP запросе. Activity опциональна,
// без нее берется активность уровня бронирования.
type PersonPayload struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Activity string `json:"activity,omitempty"`
}

// CreateActivityBookingRequest HTTP request model
type CreateActivityBookingRequest struct {
	Customer CustomerPayload `json:"customer"`
	People   []PersonPayload `json:"people"`
	Activity string          `json:"activity"`
	Date     string          `json:"date"` // "2026-09-12"
	SlotID   int64           `json:"slotId"`
}

// ActivityBookingResponse HTTP response model
type ActivityBookingResponse struct {
	ID            int64   `json:"id"`
	Reference     string  `json:"reference"`
	Activity      string  `json:"activity"`
	SessionDate   string  `json:"sessionDate"`
	SlotID        int64   `json:"slotId"`
	TotalPeople   int     `json:"totalPeople"`
	BaseAmount    float64 `json:"baseAmount"`
	TaxAmount     float64 `json:"taxAmount"`
	TotalAmount   float64 `json:"totalAmount"`
	PaymentStatus string  `json:"paymentStatus"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateActivityBookingRequest) ToUseCaseRequest() (*createActivityBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	people := make([]createActivityBooking.PersonInput, 0, len(r.People))
	for _, p := range r.People {
		people = append(people, createActivityBooking.PersonInput{
			Name:     p.Name,
			Age:      p.Age,
			Activity: domain.ActivityType(p.Activity),
		})
	}

	return &createActivityBooking.Request{
		Customer: createActivityBooking.CustomerInput{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		People:   people,
		Activity: domain.ActivityType(r.Activity),
		Date:     date,
		SlotID:   r.SlotID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createActivityBooking.Response) *ActivityBookingResponse {
	return &ActivityBookingResponse{
		ID:            resp.ID,
		Reference:     resp.Reference,
		Activity:      string(resp.Activity),
		SessionDate:   resp.SessionDate.Format(domain.DateFormat),
		SlotID:        resp.SlotID,
		TotalPeople:   resp.TotalPeople,
		BaseAmount:    resp.BaseAmount,
		TaxAmount:     resp.TaxAmount,
		TotalAmount:   resp.TotalAmount,
		PaymentStatus: resp.PaymentStatus,
		Status:        resp.Status,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
}
