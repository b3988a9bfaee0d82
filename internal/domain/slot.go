package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/wavehouse/MSC-BookingService/pkg/types"
)

// Slot represents a recurring weekly time window, independent of
// calendar date. Slots are never hard-deleted once bookings reference
// them, only deactivated.
type Slot struct {
	ID        int64
	DayOfWeek int // 1 = Monday .. 7 = Sunday, ISO-8601
	StartTime types.TimeString
	EndTime   types.TimeString
	Capacity  int // raw capacity, used by the legacy aggregate check
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether two windows on the same day intersect.
// Touching boundaries do not count as an overlap.
func (s *Slot) Overlaps(start, end types.TimeString) bool {
	return s.StartTime.IsBefore(end) && start.IsBefore(s.EndTime)
}

// ActivityCapacity per-activity ceiling on a slot. One slot may host
// several activities, each with its own ceiling.
type ActivityCapacity struct {
	SlotID      int64
	Activity    ActivityType
	MaxCapacity int
}

// ActivityAvailability the capacity ledger row: booked head count for
// (slot, calendar date, activity). Created lazily on first reservation.
// Invariant: 0 <= BookedCount <= MaxCapacity.
type ActivityAvailability struct {
	SlotID      int64
	BookingDate time.Time
	Activity    ActivityType
	BookedCount int
	MaxCapacity int
}

// AvailableSpots remaining seats for the tuple
func (a *ActivityAvailability) AvailableSpots() int {
	return a.MaxCapacity - a.BookedCount
}

// CapacityClaim one (slot, date, activity, count) reservation unit.
// A single booking may produce several claims.
type CapacityClaim struct {
	SlotID      int64
	BookingDate time.Time
	Activity    ActivityType
	Count       int
}

// Key returns a stable identifier, also used for distributed lock keys
func (c CapacityClaim) Key() string {
	return fmt.Sprintf("capacity:%s:%d:%s", c.BookingDate.Format(DateFormat), c.SlotID, c.Activity)
}

// SortClaims orders claims by (date, slot id, activity). Every caller
// that reserves more than one tuple must acquire them in this order so
// two concurrent multi-tuple bookings cannot deadlock.
func SortClaims(claims []CapacityClaim) {
	sort.Slice(claims, func(i, j int) bool {
		if !claims[i].BookingDate.Equal(claims[j].BookingDate) {
			return claims[i].BookingDate.Before(claims[j].BookingDate)
		}
		if claims[i].SlotID != claims[j].SlotID {
			return claims[i].SlotID < claims[j].SlotID
		}
		return claims[i].Activity < claims[j].Activity
	})
}

// SlotAvailabilityView read model for availability listings
type SlotAvailabilityView struct {
	SlotID         int64
	StartTime      types.TimeString
	EndTime        types.TimeString
	Activity       ActivityType
	MaxCapacity    int
	BookedCount    int
	AvailableSpots int
}

// CanBook returns true if the slot still seats count people
func (v *SlotAvailabilityView) CanBook(count int) bool {
	return v.AvailableSpots >= count
}
