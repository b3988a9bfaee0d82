package pricing

import (
	"fmt"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
)

// Все цены в INR.

// ActivityPricePerPerson единая цена за активность (серф/сап/каяк)
// независимо от типа активности.
const ActivityPricePerPerson = 1700.0

// packageTierPrices цены пакетов: палатка/дорм - за человека,
// коттедж - за юнит по числу жильцов (1-4).
type packageTierPrices struct {
	Tent    float64
	Dorm    float64
	Cottage [4]float64 // индекс = жильцов в коттедже - 1
}

var packagePrices = map[domain.PackageType]packageTierPrices{
	domain.Package1Night1Session: {
		Tent:    3000,
		Dorm:    3250,
		Cottage: [4]float64{9000, 10500, 12750, 15000},
	},
	domain.Package1Night2Sessions: {
		Tent:    5000,
		Dorm:    5000,
		Cottage: [4]float64{10000, 14000, 18000, 22000},
	},
	domain.Package2Nights3Sessions: {
		Tent:    8000,
		Dorm:    8000,
		Cottage: [4]float64{18000, 24000, 30000, 36000},
	},
}

// stayNightlyPrices цены проживания без активностей, за человека за ночь
type stayNightlyPrices struct {
	WithoutMeals float64
	WithMeals    float64
}

var stayPrices = map[domain.AccommodationType]stayNightlyPrices{
	domain.AccommodationTent: {WithoutMeals: 1000, WithMeals: 1500},
	domain.AccommodationDorm: {WithoutMeals: 1200, WithMeals: 1700},
}

// Коттедж: фиксированная цена за юнит за ночь плюс опциональное питание
// за человека за ночь.
const (
	cottageBasePerNight      = 6000.0
	cottageMealPricePerNight = 500.0
)

// Extended adventure: фиксированный пакет 6 ночей / 7 дней, только дорм,
// цена за человека за весь срок.
const (
	ExtendedStayNights       = 6
	extendedDormWithoutMeals = 6000.0
	extendedDormWithMeals    = 11000.0
)

// Breakdown раскладка цены: база, налог, итого
type Breakdown struct {
	BaseAmount  float64
	TaxAmount   float64
	TotalAmount float64
}

// Engine движок расчета цен. Все методы чистые, без обращений к БД.
type Engine struct {
	taxRate float64
}

// NewEngine создает движок со стандартной ставкой GST.
func NewEngine() *Engine {
	return &Engine{taxRate: domain.GSTRate}
}

// NewEngineWithRate создает движок с явной ставкой (для тестов).
func NewEngineWithRate(rate float64) *Engine {
	return &Engine{taxRate: rate}
}

// TotalWithTax применяет налог к базовой сумме
func (e *Engine) TotalWithTax(base float64) Breakdown {
	tax := base * e.taxRate
	return Breakdown{
		BaseAmount:  base,
		TaxAmount:   tax,
		TotalAmount: base + tax,
	}
}

// ActivityPrice цена разовой активности: единая ставка за человека,
// независимо от выбранных активностей в группе.
func (e *Engine) ActivityPrice(peopleCount int) Breakdown {
	return e.TotalWithTax(ActivityPricePerPerson * float64(peopleCount))
}

// PackagePrice цена пакета (проживание + сессии).
// Палатка/дорм - за человека. Коттеджи - жадное распределение: каждый
// коттедж заполняется до 4 человек, суммируются цены соответствующих
// ярусов занятости (5 человек = cottage_4 + cottage_1).
// Сначала валидируется физическая вместимость.
func (e *Engine) PackagePrice(pkg domain.PackageType, acc domain.AccommodationType, peopleCount int) (Breakdown, *AccommodationRequirements, error) {
	req, err := CalculateAccommodationRequirements(acc, peopleCount)
	if err != nil {
		return Breakdown{}, nil, err
	}

	prices, ok := packagePrices[pkg]
	if !ok {
		return Breakdown{}, nil, fmt.Errorf("pricing: unknown package type %q", pkg)
	}

	var base float64
	switch acc {
	case domain.AccommodationCottage:
		remaining := peopleCount
		for i := 0; i < req.UnitsNeeded; i++ {
			occupancy := remaining
			if occupancy > 4 {
				occupancy = 4
			}
			base += prices.Cottage[occupancy-1]
			remaining -= occupancy
		}
	case domain.AccommodationDorm:
		base = prices.Dorm * float64(peopleCount)
	default:
		base = prices.Tent * float64(peopleCount)
	}

	return e.TotalWithTax(base), req, nil
}

// StayPrice цена проживания без активностей.
// Палатка/дорм - за человека за ночь, с питанием или без. Коттедж -
// фиксированная цена за юнит за ночь, питание добавляется за человека.
// Дорм на 6 ночей считается по фиксированному extended-тарифу.
func (e *Engine) StayPrice(acc domain.AccommodationType, peopleCount, nights int, includesMeals bool) (Breakdown, *AccommodationRequirements, error) {
	req, err := CalculateAccommodationRequirements(acc, peopleCount)
	if err != nil {
		return Breakdown{}, nil, err
	}
	if nights < 1 {
		return Breakdown{}, nil, fmt.Errorf("pricing: nights must be positive, got %d", nights)
	}

	var base float64
	switch {
	case acc == domain.AccommodationCottage:
		base = cottageBasePerNight * float64(req.UnitsNeeded) * float64(nights)
		if includesMeals {
			base += cottageMealPricePerNight * float64(peopleCount) * float64(nights)
		}

	case acc == domain.AccommodationDorm && nights == ExtendedStayNights:
		perPerson := extendedDormWithoutMeals
		if includesMeals {
			perPerson = extendedDormWithMeals
		}
		base = perPerson * float64(peopleCount)

	default:
		prices := stayPrices[acc]
		perNight := prices.WithoutMeals
		if includesMeals {
			perNight = prices.WithMeals
		}
		base = perNight * float64(peopleCount) * float64(nights)
	}

	return e.TotalWithTax(base), req, nil
}
