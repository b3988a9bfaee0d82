package create_stay_booking

import (
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	createStayBooking "github.com/wavehouse/MSC-BookingService/internal/usecase/create_stay_booking"
)

// CustomerPayload данные клиента в HTTP запросе
type CustomerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PersonPayload участник группы в HTTP запросе
type PersonPayload struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// CreateStayBookingRequest HTTP request model
type CreateStayBookingRequest struct {
	Customer      CustomerPayload `json:"customer"`
	People        []PersonPayload `json:"people"`
	Accommodation string          `json:"accommodation"`
	CheckInDate   string          `json:"checkInDate"`
	CheckOutDate  string          `json:"checkOutDate"`
	IncludesMeals bool            `json:"includesMeals"`
}

// StayBookingResponse HTTP response model
type StayBookingResponse struct {
	ID            int64   `json:"id"`
	Accommodation string  `json:"accommodation"`
	CheckInDate   string  `json:"checkInDate"`
	CheckOutDate  string  `json:"checkOutDate"`
	Nights        int     `json:"nights"`
	IncludesMeals bool    `json:"includesMeals"`
	TotalPeople   int     `json:"totalPeople"`
	UnitsReserved int     `json:"unitsReserved"`
	BaseAmount    float64 `json:"baseAmount"`
	TaxAmount     float64 `json:"taxAmount"`
	TotalAmount   float64 `json:"totalAmount"`
	PaymentStatus string  `json:"paymentStatus"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateStayBookingRequest) ToUseCaseRequest() (*createStayBooking.Request, error) {
	checkIn, err := time.Parse(domain.DateFormat, r.CheckInDate)
	if err != nil {
		return nil, err
	}

	checkOut, err := time.Parse(domain.DateFormat, r.CheckOutDate)
	if err != nil {
		return nil, err
	}

	people := make([]createStayBooking.PersonInput, 0, len(r.People))
	for _, p := range r.People {
		people = append(people, createStayBooking.PersonInput{Name: p.Name, Age: p.Age})
	}

	return &createStayBooking.Request{
		Customer: createStayBooking.CustomerInput{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		People:        people,
		Accommodation: domain.AccommodationType(r.Accommodation),
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		IncludesMeals: r.IncludesMeals,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createStayBooking.Response) *StayBookingResponse {
	return &StayBookingResponse{
		ID:            resp.ID,
		Accommodation: string(resp.Accommodation),
		CheckInDate:   resp.CheckInDate.Format(domain.DateFormat),
		CheckOutDate:  resp.CheckOutDate.Format(domain.DateFormat),
		Nights:        resp.Nights,
		IncludesMeals: resp.IncludesMeals,
		TotalPeople:   resp.TotalPeople,
		UnitsReserved: resp.UnitsReserved,
		BaseAmount:    resp.BaseAmount,
		TaxAmount:     resp.TaxAmount,
		TotalAmount:   resp.TotalAmount,
		PaymentStatus: resp.PaymentStatus,
		Status:        resp.Status,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
}
