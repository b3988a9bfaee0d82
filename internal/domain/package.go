package domain

import (
	"fmt"
	"time"
)

// PackageType represents a fixed stay+sessions bundle
type PackageType string

const (
	Package1Night1Session   PackageType = "1_night_1_session"
	Package1Night2Sessions  PackageType = "1_night_2_sessions"
	Package2Nights3Sessions PackageType = "2_nights_3_sessions"
)

// PackageTypes all known package types, in stable order
var PackageTypes = []PackageType{Package1Night1Session, Package1Night2Sessions, Package2Nights3Sessions}

// ParsePackageType validates and converts a raw string
func ParsePackageType(s string) (PackageType, error) {
	switch PackageType(s) {
	case Package1Night1Session, Package1Night2Sessions, Package2Nights3Sessions:
		return PackageType(s), nil
	default:
		return "", fmt.Errorf("unknown package type %q", s)
	}
}

// IsValid returns true for a known package type
func (p PackageType) IsValid() bool {
	_, err := ParsePackageType(string(p))
	return err == nil
}

// Nights returns the stay length of the package
func (p PackageType) Nights() int {
	if p == Package2Nights3Sessions {
		return 2
	}
	return 1
}

// SessionCount returns how many activity sessions the package includes
func (p PackageType) SessionCount() int {
	switch p {
	case Package1Night1Session:
		return 1
	case Package1Night2Sessions:
		return 2
	case Package2Nights3Sessions:
		return 3
	default:
		return 0
	}
}

// SessionDayOffsets returns each session's day offset from check-in.
// The 1-night-1-session package has its single session on checkout day;
// the longer packages start on check-in day.
func (p PackageType) SessionDayOffsets() []int {
	switch p {
	case Package1Night1Session:
		return []int{1}
	case Package1Night2Sessions:
		return []int{0, 1}
	case Package2Nights3Sessions:
		return []int{0, 1, 2}
	default:
		return nil
	}
}

// CheckOutDate derives the checkout date from a check-in date
func (p PackageType) CheckOutDate(checkIn time.Time) time.Time {
	return checkIn.AddDate(0, 0, p.Nights())
}
