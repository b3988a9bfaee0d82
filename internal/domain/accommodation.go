package domain

import "fmt"

// AccommodationType represents a kind of physical accommodation unit
type AccommodationType string

const (
	AccommodationTent    AccommodationType = "tent"
	AccommodationDorm    AccommodationType = "dorm"
	AccommodationCottage AccommodationType = "cottage"
)

// AccommodationTypes all known accommodation types, in stable order
var AccommodationTypes = []AccommodationType{AccommodationTent, AccommodationDorm, AccommodationCottage}

// ParseAccommodationType validates and converts a raw string
func ParseAccommodationType(s string) (AccommodationType, error) {
	switch AccommodationType(s) {
	case AccommodationTent, AccommodationDorm, AccommodationCottage:
		return AccommodationType(s), nil
	default:
		return "", fmt.Errorf("unknown accommodation type %q", s)
	}
}

// IsValid returns true for a known accommodation type
func (a AccommodationType) IsValid() bool {
	_, err := ParseAccommodationType(string(a))
	return err == nil
}

// MaxPeoplePerUnit returns how many people one unit holds
func (a AccommodationType) MaxPeoplePerUnit() int {
	switch a {
	case AccommodationCottage:
		return 4
	case AccommodationTent, AccommodationDorm:
		return 1
	default:
		return 0
	}
}

// TotalUnits returns the fixed physical inventory of units
func (a AccommodationType) TotalUnits() int {
	switch a {
	case AccommodationCottage:
		return 2
	case AccommodationTent, AccommodationDorm:
		return 100
	default:
		return 0
	}
}

// MaxTotalCapacity returns the absolute people ceiling across all units
func (a AccommodationType) MaxTotalCapacity() int {
	return a.MaxPeoplePerUnit() * a.TotalUnits()
}
