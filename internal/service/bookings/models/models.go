package models

import (
	"errors"
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
)

var (
	// ErrInvalidPaymentStatus возвращается при некорректном статусе оплаты
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// Request модели

// GetAllBookingsRequest запрос админского списка бронирований
type GetAllBookingsRequest struct {
	DateFrom      *time.Time `json:"dateFrom,omitempty"`
	DateTo        *time.Time `json:"dateTo,omitempty"`
	Type          *string    `json:"type,omitempty"`
	PaymentStatus *string    `json:"paymentStatus,omitempty"`
	Search        string     `json:"search,omitempty"` // поиск по имени/email/телефону клиента
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetAllBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		DateFrom: r.DateFrom,
		DateTo:   r.DateTo,
		Search:   r.Search,
	}

	if r.Type != nil {
		bookingType, err := domain.ParseBookingType(*r.Type)
		if err != nil {
			return filter, err
		}
		filter.Type = &bookingType
	}

	if r.PaymentStatus != nil {
		status := domain.PaymentStatus(*r.PaymentStatus)
		if !status.IsValid() {
			return filter, ErrInvalidPaymentStatus
		}
		filter.PaymentStatus = &status
	}

	return filter, nil
}

// UpdatePaymentStatusRequest запрос на обновление статуса оплаты
type UpdatePaymentStatusRequest struct {
	PaymentStatus string  `json:"paymentStatus"`
	PaymentRef    *string `json:"paymentRef,omitempty"`
}

// Response модели

// CustomerView данные клиента в ответе
type CustomerView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PersonView участник бронирования в ответе
type PersonView struct {
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	Activity *string `json:"activity,omitempty"`
}

// ActivityDetailsView детали бронирования активности
type ActivityDetailsView struct {
	Activity    string `json:"activity"`
	SessionDate string `json:"sessionDate"` // "2026-09-12"
	SlotID      int64  `json:"slotId"`
}

// PersonActivityView назначение активности участнику в сессии
type PersonActivityView struct {
	PersonIndex int    `json:"personIndex"`
	Activity    string `json:"activity"`
}

// SessionView сессия пакета
type SessionView struct {
	SessionNumber    int                  `json:"sessionNumber"`
	SessionDate      string               `json:"sessionDate"`
	SlotID           int64                `json:"slotId"`
	PersonActivities []PersonActivityView `json:"personActivities"`
}

// PackageDetailsView детали бронирования пакета
type PackageDetailsView struct {
	PackageType   string        `json:"packageType"`
	Accommodation string        `json:"accommodation"`
	CheckInDate   string        `json:"checkInDate"`
	CheckOutDate  string        `json:"checkOutDate"`
	Sessions      []SessionView `json:"sessions"`
}

// StayDetailsView детали бронирования проживания
type StayDetailsView struct {
	Accommodation string `json:"accommodation"`
	CheckInDate   string `json:"checkInDate"`
	CheckOutDate  string `json:"checkOutDate"`
	Nights        int    `json:"nights"`
	IncludesMeals bool   `json:"includesMeals"`
}

// BookingResponse полная карточка бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	Reference   string `json:"reference,omitempty"`
	BookingType string `json:"bookingType"`
	TotalPeople int    `json:"totalPeople"`

	Customer *CustomerView `json:"customer,omitempty"`
	People   []PersonView  `json:"people,omitempty"`

	ActivityDetails *ActivityDetailsView `json:"activityDetails,omitempty"`
	PackageDetails  *PackageDetailsView  `json:"packageDetails,omitempty"`
	StayDetails     *StayDetailsView     `json:"stayDetails,omitempty"`

	BaseAmount  float64 `json:"baseAmount"`
	TaxAmount   float64 `json:"taxAmount"`
	TotalAmount float64 `json:"totalAmount"`

	PaymentStatus string `json:"paymentStatus"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"` // RFC3339
	UpdatedAt     string `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomainBooking конвертирует бронирование без детальных записей
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:            b.ID,
		BookingType:   string(b.Type),
		TotalPeople:   b.TotalPeople,
		BaseAmount:    b.BaseAmount,
		TaxAmount:     b.TaxAmount,
		TotalAmount:   b.TotalAmount,
		PaymentStatus: string(b.PaymentStatus),
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(items []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(items)),
		Total:    len(items),
	}
	for _, b := range items {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// FromDomainCustomer конвертирует клиента
func FromDomainCustomer(c *domain.Customer) *CustomerView {
	return &CustomerView{
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
	}
}

// FromDomainPeople конвертирует участников
func FromDomainPeople(people []*domain.BookingPerson) []PersonView {
	views := make([]PersonView, 0, len(people))
	for _, p := range people {
		view := PersonView{Name: p.Name, Age: p.Age}
		if p.Activity != nil {
			activity := string(*p.Activity)
			view.Activity = &activity
		}
		views = append(views, view)
	}
	return views
}

// FromDomainActivityDetails конвертирует детали активности
func FromDomainActivityDetails(d *domain.ActivityDetails) *ActivityDetailsView {
	return &ActivityDetailsView{
		Activity:    string(d.Activity),
		SessionDate: d.SessionDate.Format(domain.DateFormat),
		SlotID:      d.SlotID,
	}
}

// FromDomainPackageDetails конвертирует детали пакета
func FromDomainPackageDetails(d *domain.PackageDetails) *PackageDetailsView {
	sessions := make([]SessionView, 0, len(d.Sessions))
	for _, s := range d.Sessions {
		assignments := make([]PersonActivityView, 0, len(s.PersonActivities))
		for _, pa := range s.PersonActivities {
			assignments = append(assignments, PersonActivityView{
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

	return &PackageDetailsView{
		PackageType:   string(d.PackageType),
		Accommodation: string(d.Accommodation),
		CheckInDate:   d.CheckInDate.Format(domain.DateFormat),
		CheckOutDate:  d.CheckOutDate.Format(domain.DateFormat),
		Sessions:      sessions,
	}
}

// FromDomainStayDetails конвертирует детали проживания
func FromDomainStayDetails(d *domain.StayDetails) *StayDetailsView {
	return &StayDetailsView{
		Accommodation: string(d.Accommodation),
		CheckInDate:   d.CheckInDate.Format(domain.DateFormat),
		CheckOutDate:  d.CheckOutDate.Format(domain.DateFormat),
		Nights:        d.NightsCount,
		IncludesMeals: d.IncludesMeals,
	}
}
