package domain

import "fmt"

// ActivityType represents a bookable water sports activity
type ActivityType string

const (
	ActivitySurf  ActivityType = "surf"
	ActivitySUP   ActivityType = "sup"
	ActivityKayak ActivityType = "kayak"
)

// ActivityTypes all known activities, in stable order
var ActivityTypes = []ActivityType{ActivitySurf, ActivitySUP, ActivityKayak}

// ParseActivityType validates and converts a raw string
func ParseActivityType(s string) (ActivityType, error) {
	switch ActivityType(s) {
	case ActivitySurf, ActivitySUP, ActivityKayak:
		return ActivityType(s), nil
	default:
		return "", fmt.Errorf("unknown activity type %q", s)
	}
}

// IsValid returns true for a known activity type
func (a ActivityType) IsValid() bool {
	_, err := ParseActivityType(string(a))
	return err == nil
}

// Name returns the display name of the activity
func (a ActivityType) Name() string {
	switch a {
	case ActivitySurf:
		return "Surfing"
	case ActivitySUP:
		return "Stand Up Paddling"
	case ActivityKayak:
		return "Kayaking"
	default:
		return string(a)
	}
}

// DefaultCapacity returns the capacity a slot gets for this activity
// when staff have not configured an explicit ceiling
func (a ActivityType) DefaultCapacity() int {
	switch a {
	case ActivitySurf:
		return 40
	case ActivitySUP:
		return 12
	case ActivityKayak:
		return 2 // only two kayaks in inventory
	default:
		return 0
	}
}
