package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// BookingType discriminates the polymorphic booking record
type BookingType string

const (
	BookingTypeActivity BookingType = "activity"
	BookingTypePackage  BookingType = "package"
	BookingTypeStayOnly BookingType = "stay_only"

	// legacyBookingTypeSurfSup old rows created before kayak was added
	legacyBookingTypeSurfSup = "surf_sup"
)

// ParseBookingType validates and converts a raw string.
// The legacy "surf_sup" alias maps to the activity type.
func ParseBookingType(s string) (BookingType, error) {
	if s == legacyBookingTypeSurfSup {
		return BookingTypeActivity, nil
	}
	switch BookingType(s) {
	case BookingTypeActivity, BookingTypePackage, BookingTypeStayOnly:
		return BookingType(s), nil
	default:
		return "", fmt.Errorf("unknown booking type %q", s)
	}
}

// PaymentStatus payment state recorded on the booking.
// Settlement itself happens outside this service.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// IsValid returns true for a known payment status
func (s PaymentStatus) IsValid() bool {
	return s == PaymentPending || s == PaymentCompleted || s == PaymentFailed
}

// BookingStatus lifecycle state of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// PriceBreakdown base/tax/total amounts in INR
type PriceBreakdown struct {
	BaseAmount  float64
	TaxAmount   float64
	TotalAmount float64
}

// Booking represents one reservation with its price breakdown
type Booking struct {
	ID          int64
	CustomerID  int64
	Type        BookingType
	TotalPeople int

	PriceBreakdown

	PaymentStatus PaymentStatus
	PaymentRef    *string
	Status        BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if a cancel call may proceed.
// A second cancel on an already cancelled booking is rejected here,
// before any capacity release is attempted.
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// Reference returns the human-facing booking reference, e.g. MSC-SUR-17-250114
func (b *Booking) Reference(activity ActivityType, date time.Time) string {
	code := strings.ToUpper(string(activity))
	if len(code) > 3 {
		code = code[:3]
	}
	return fmt.Sprintf("MSC-%s-%d-%s", code, b.ID, date.Format("060102"))
}

// BookingPerson one participant on a booking.
// Activity is set for activity and package bookings; people in the same
// booking may pick different activities.
type BookingPerson struct {
	ID        int64
	BookingID int64
	Name      string
	Age       int
	Activity  *ActivityType
}

// ActivityDetails detail record for booking_type = activity
type ActivityDetails struct {
	BookingID   int64
	Activity    ActivityType
	SessionDate time.Time
	SlotID      int64
}

// PackageDetails detail record for booking_type = package
type PackageDetails struct {
	BookingID     int64
	PackageType   PackageType
	Accommodation AccommodationType
	CheckInDate   time.Time
	CheckOutDate  time.Time
	Sessions      []PackageSession
}

// PackageSession one scheduled activity session of a package booking
type PackageSession struct {
	ID            int64
	SessionNumber int
	SessionDate   time.Time
	SlotID        int64
	// PersonActivities records which activity each person does in this
	// session; a person may switch activity between sessions.
	PersonActivities []PersonActivity
}

// PersonActivity binds a person index (position in the people list)
// to the activity chosen for one session
type PersonActivity struct {
	PersonIndex int
	Activity    ActivityType
}

// ActivityGroups groups the session's people by activity, in stable
// (alphabetical) activity order. Used to derive capacity claims.
func (s *PackageSession) ActivityGroups() map[ActivityType]int {
	groups := make(map[ActivityType]int)
	for _, pa := range s.PersonActivities {
		groups[pa.Activity]++
	}
	return groups
}

// StayDetails detail record for booking_type = stay_only
type StayDetails struct {
	BookingID     int64
	Accommodation AccommodationType
	CheckInDate   time.Time
	CheckOutDate  time.Time
	NightsCount   int
	IncludesMeals bool
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// ValidEmail reports whether the address passes the booking form check
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// BookingWindowEnd returns the last bookable date for a given day.
// Bookings are accepted from today up to and including the next Monday,
// so the window rolls forward once a week.
func BookingWindowEnd(today time.Time) time.Time {
	days := (int(time.Monday) - int(today.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return today.AddDate(0, 0, days)
}

// Customer identified by unique email; name/phone are merged in place
// when a returning email is seen
type Customer struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingsFilter admin listing filter
type BookingsFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	Type          *BookingType
	PaymentStatus *PaymentStatus
	Search        string // matches customer name/email/phone
}
