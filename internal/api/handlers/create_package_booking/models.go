package create_package_booking

import (
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	createPackageBooking "github.com/wavehouse/MSC-BookingService/internal/usecase/create_package_booking"
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

// PersonActivityPayload назначение активности участнику на сессии
type PersonActivityPayload struct {
	PersonIndex int    `json:"personIndex"`
	Activity    string `json:"activity"`
}

// SessionPayload сессия пакета в HTTP запросе. SlotID опционален.
type SessionPayload struct {
	Date             string                  `json:"date"` // "2026-09-12"
	SlotID           *int64                  `json:"slotId,omitempty"`
	PersonActivities []PersonActivityPayload `json:"personActivities"`
}

// CreatePackageBookingRequest HTTP request model
type CreatePackageBookingRequest struct {
	Customer      CustomerPayload  `json:"customer"`
	People        []PersonPayload  `json:"people"`
	PackageType   string           `json:"packageType"`
	Accommodation string           `json:"accommodation"`
	CheckInDate   string           `json:"checkInDate"`
	Sessions      []SessionPayload `json:"sessions"`
}

// SessionView сессия в HTTP ответе
type SessionView struct {
	SessionNumber    int                     `json:"sessionNumber"`
	SessionDate      string                  `json:"sessionDate"`
	SlotID           int64                   `json:"slotId"`
	PersonActivities []PersonActivityPayload `json:"personActivities"`
}

// PackageBookingResponse HTTP response model
type PackageBookingResponse struct {
	ID            int64         `json:"id"`
	Reference     string        `json:"reference"`
	PackageType   string        `json:"packageType"`
	Accommodation string        `json:"accommodation"`
	CheckInDate   string        `json:"checkInDate"`
	CheckOutDate  string        `json:"checkOutDate"`
	TotalPeople   int           `json:"totalPeople"`
	UnitsReserved int           `json:"unitsReserved"`
	Sessions      []SessionView `json:"sessions"`
	BaseAmount    float64       `json:"baseAmount"`
	TaxAmount     float64       `json:"taxAmount"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentStatus string        `json:"paymentStatus"`
	Status        string        `json:"status"`
	CreatedAt     string        `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreatePackageBookingRequest) ToUseCaseRequest() (*createPackageBooking.Request, error) {
	checkIn, err := time.Parse(domain.DateFormat, r.CheckInDate)
	if err != nil {
		return nil, err
	}

	people := make([]createPackageBooking.PersonInput, 0, len(r.People))
	for _, p := range r.People {
		people = append(people, createPackageBooking.PersonInput{Name: p.Name, Age: p.Age})
	}

	sessions := make([]createPackageBooking.SessionInput, 0, len(r.Sessions))
	for _, s := range r.Sessions {
		date, err := time.Parse(domain.DateFormat, s.Date)
		if err != nil {
			return nil, err
		}

		assignments := make([]domain.PersonActivity, 0, len(s.PersonActivities))
		for _, pa := range s.PersonActivities {
			assignments = append(assignments, domain.PersonActivity{
				PersonIndex: pa.PersonIndex,
				Activity:    domain.ActivityType(pa.Activity),
			})
		}

		sessions = append(sessions, createPackageBooking.SessionInput{
			Date:             date,
			SlotID:           s.SlotID,
			PersonActivities: assignments,
		})
	}

	return &createPackageBooking.Request{
		Customer: createPackageBooking.CustomerInput{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		People:        people,
		PackageType:   domain.PackageType(r.PackageType),
		Accommodation: domain.AccommodationType(r.Accommodation),
		CheckInDate:   checkIn,
		Sessions:      sessions,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createPackageBooking.Response) *PackageBookingResponse {
	sessions := make([]SessionView, 0, len(resp.Sessions))
	for _, s := range resp.Sessions {
		assignments := make([]PersonActivityPayload, 0, len(s.PersonActivities))
		for _, pa := range s.PersonActivities {
			assignments = append(assignments, PersonActivityPayload{
				PersonIndex: pa.PersonIndex,
				Activity:    string(pa.Activity),
			})
		}
		sessions = append(sessions, SessionView{
			SessionNumber:    s.SessionNumber,
			SessionDate:      s.SessionDate.Format(domain.DateFormat),
			SlotID:           s.SlotID,
			PersonActivities: assignments,
		})
	}

	return &PackageBookingResponse{
		ID:            resp.ID,
		Reference:     resp.Reference,
		PackageType:   string(resp.PackageType),
		Accommodation: string(resp.Accommodation),
		CheckInDate:   resp.CheckInDate.Format(domain.DateFormat),
		CheckOutDate:  resp.CheckOutDate.Format(domain.DateFormat),
		TotalPeople:   resp.TotalPeople,
		UnitsReserved: resp.UnitsReserved,
		Sessions:      sessions,
		BaseAmount:    resp.BaseAmount,
		TaxAmount:     resp.TaxAmount,
		TotalAmount:   resp.TotalAmount,
		PaymentStatus: resp.PaymentStatus,
		Status:        resp.Status,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
}
