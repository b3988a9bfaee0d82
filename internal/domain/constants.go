package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinPersonAge        = 5
	MaxPersonAge        = 100
	MaxPeoplePerBooking = 40
	MinCustomerNameLen  = 2
)

// Slot defaults
const (
	SlotDurationMinutes = 90 // every activity session lasts 1.5 hours
	DefaultSlotCapacity = 40
)

// GSTRate flat tax rate applied to every booking total.
const GSTRate = 0.18
