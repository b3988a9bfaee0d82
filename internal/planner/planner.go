package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
)

var (
	ErrScheduleMismatch  = errors.New("session dates do not match package schedule")
	ErrNoSlotAvailable   = errors.New("no slot with enough capacity on date")
	ErrInvalidAssignment = errors.New("invalid person activity assignment")
)

// SlotFinder подбирает слот на дату, способный вместить всю группу.
type SlotFinder interface {
	FindSlotForDate(ctx context.Context, date time.Time, peopleCount int) (int64, error)
}

// SessionInput сессия, как её прислал клиент. SlotID может отсутствовать,
// тогда слот подбирается автоматически.
type SessionInput struct {
	Date             time.Time
	SlotID           *int64
	PersonActivities []domain.PersonActivity
}

// Planner раскладывает пакет по сессиям: проверяет даты против графика
// пакета, назначения активностей по людям и подбирает слоты.
type Planner struct {
	finder SlotFinder
}

func New(finder SlotFinder) *Planner {
	return &Planner{finder: finder}
}

// ExpectedDates даты сессий пакета относительно даты заезда.
func ExpectedDates(pkg domain.PackageType, checkIn time.Time) []time.Time {
	offsets := pkg.SessionDayOffsets()
	dates := make([]time.Time, 0, len(offsets))
	for _, off := range offsets {
		dates = append(dates, checkIn.AddDate(0, 0, off))
	}
	return dates
}

// Plan валидирует присланные сессии против графика пакета и собирает
// итоговый план. Даты должны совпадать с ожидаемыми один к одному,
// каждая сессия покрывает каждого участника ровно один раз.
func (p *Planner) Plan(ctx context.Context, pkg domain.PackageType, checkIn time.Time, peopleCount int, inputs []SessionInput) ([]domain.PackageSession, error) {
	expected := ExpectedDates(pkg, checkIn)
	if len(expected) == 0 {
		return nil, fmt.Errorf("planner: Plan - unknown package type %q", pkg)
	}
	if len(inputs) != len(expected) {
		return nil, fmt.Errorf("%w: expected %d sessions, got %d", ErrScheduleMismatch, len(expected), len(inputs))
	}

	ordered := make([]SessionInput, len(inputs))
	copy(ordered, inputs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	sessions := make([]domain.PackageSession, 0, len(expected))
	for i, want := range expected {
		in := ordered[i]
		if !sameDay(in.Date, want) {
			return nil, fmt.Errorf("%w: session %d must be on %s, got %s",
				ErrScheduleMismatch, i+1, want.Format(domain.DateFormat), in.Date.Format(domain.DateFormat))
		}

		if err := validateAssignments(in.PersonActivities, peopleCount); err != nil {
			return nil, fmt.Errorf("session %d: %w", i+1, err)
		}

		var slotID int64
		if in.SlotID != nil {
			slotID = *in.SlotID
		} else {
			id, err := p.finder.FindSlotForDate(ctx, want, peopleCount)
			if err != nil {
				return nil, fmt.Errorf("planner: Plan - find slot for session %d: %w", i+1, err)
			}
			slotID = id
		}

		sessions = append(sessions, domain.PackageSession{
			SessionNumber:    i + 1,
			SessionDate:      want,
			SlotID:           slotID,
			PersonActivities: in.PersonActivities,
		})
	}

	return sessions, nil
}

// validateAssignments каждый индекс участника встречается ровно один раз,
// активности валидны.
func validateAssignments(assignments []domain.PersonActivity, peopleCount int) error {
	if len(assignments) != peopleCount {
		return fmt.Errorf("%w: expected %d assignments, got %d", ErrInvalidAssignment, peopleCount, len(assignments))
	}

	seen := make(map[int]bool, peopleCount)
	for _, a := range assignments {
		if a.PersonIndex < 0 || a.PersonIndex >= peopleCount {
			return fmt.Errorf("%w: person index %d out of range", ErrInvalidAssignment, a.PersonIndex)
		}
		if seen[a.PersonIndex] {
			return fmt.Errorf("%w: person index %d assigned twice", ErrInvalidAssignment, a.PersonIndex)
		}
		seen[a.PersonIndex] = true

		if !a.Activity.IsValid() {
			return fmt.Errorf("%w: unknown activity %q", ErrInvalidAssignment, a.Activity)
		}
	}

	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Format(domain.DateFormat) == b.Format(domain.DateFormat)
}
