package pricing

import (
	"errors"
	"fmt"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
)

var (
	// ErrCapacityExceeded возвращается, когда людей больше, чем физически
	// вмещает выбранный тип размещения
	ErrCapacityExceeded = errors.New("pricing: accommodation capacity exceeded")

	// ErrUnknownAccommodation возвращается для неизвестного типа размещения
	ErrUnknownAccommodation = errors.New("pricing: unknown accommodation type")
)

// AccommodationRequirements результат расчета потребности в юнитах размещения
type AccommodationRequirements struct {
	Accommodation    domain.AccommodationType
	PeopleCount      int
	UnitsNeeded      int
	MaxPeoplePerUnit int
	TotalUnits       int
}

// CalculateAccommodationRequirements вычисляет, сколько юнитов (палаток,
// мест в дорме, коттеджей) нужно для группы, и проверяет физический
// инвентарь. Ошибка здесь прерывает бронирование до любых расчетов цены
// и записей в БД.
func CalculateAccommodationRequirements(acc domain.AccommodationType, peopleCount int) (*AccommodationRequirements, error) {
	if !acc.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAccommodation, acc)
	}
	if peopleCount < 1 {
		return nil, fmt.Errorf("%w: people count must be positive", ErrCapacityExceeded)
	}

	maxTotal := acc.MaxTotalCapacity()
	if peopleCount > maxTotal {
		return nil, fmt.Errorf("%w: cannot accommodate %d people in %s, maximum is %d",
			ErrCapacityExceeded, peopleCount, acc, maxTotal)
	}

	perUnit := acc.MaxPeoplePerUnit()
	unitsNeeded := (peopleCount + perUnit - 1) / perUnit
	if unitsNeeded > acc.TotalUnits() {
		return nil, fmt.Errorf("%w: need %d %s units but only %d available",
			ErrCapacityExceeded, unitsNeeded, acc, acc.TotalUnits())
	}

	return &AccommodationRequirements{
		Accommodation:    acc,
		PeopleCount:      peopleCount,
		UnitsNeeded:      unitsNeeded,
		MaxPeoplePerUnit: perUnit,
		TotalUnits:       acc.TotalUnits(),
	}, nil
}
