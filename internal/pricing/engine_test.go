package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
)

func TestTotalWithTax(t *testing.T) {
	engine := NewEngineWithRate(0.18)

	b := engine.TotalWithTax(1700)

	assert.Equal(t, 1700.0, b.BaseAmount)
	assert.InDelta(t, 306.0, b.TaxAmount, 0.001)
	assert.InDelta(t, 2006.0, b.TotalAmount, 0.001)
}

func TestActivityPrice(t *testing.T) {
	engine := NewEngine()

	b := engine.ActivityPrice(3)

	assert.Equal(t, 5100.0, b.BaseAmount)
	assert.InDelta(t, 5100*0.18, b.TaxAmount, 0.001)
}

func TestCalculateAccommodationRequirements(t *testing.T) {
	tests := []struct {
		name      string
		acc       domain.AccommodationType
		people    int
		wantUnits int
		wantErr   bool
	}{
		{name: "one tent per person", acc: domain.AccommodationTent, people: 3, wantUnits: 3},
		{name: "full tent inventory", acc: domain.AccommodationTent, people: 100, wantUnits: 100},
		{name: "tent overflow", acc: domain.AccommodationTent, people: 101, wantErr: true},
		{name: "six people need two cottages", acc: domain.AccommodationCottage, people: 6, wantUnits: 2},
		{name: "four people fit one cottage", acc: domain.AccommodationCottage, people: 4, wantUnits: 1},
		{name: "cottage overflow", acc: domain.AccommodationCottage, people: 9, wantErr: true},
		{name: "zero people rejected", acc: domain.AccommodationDorm, people: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := CalculateAccommodationRequirements(tt.acc, tt.people)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrCapacityExceeded))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUnits, req.UnitsNeeded)
		})
	}
}

func TestPackagePrice_TentAndDorm(t *testing.T) {
	engine := NewEngineWithRate(0)

	b, req, err := engine.PackagePrice(domain.Package2Nights3Sessions, domain.AccommodationTent, 2)
	require.NoError(t, err)
	assert.Equal(t, 16000.0, b.BaseAmount) // 8000 per person
	assert.Equal(t, 2, req.UnitsNeeded)

	b, _, err = engine.PackagePrice(domain.Package1Night1Session, domain.AccommodationDorm, 3)
	require.NoError(t, err)
	assert.Equal(t, 9750.0, b.BaseAmount) // 3250 per person
}

func TestPackagePrice_CottageTiers(t *testing.T) {
	engine := NewEngineWithRate(0)

	tests := []struct {
		people int
		want   float64
	}{
		{people: 1, want: 9000},
		{people: 2, want: 10500},
		{people: 4, want: 15000},
		// greedy distribution across two cottages: 4 + remainder
		{people: 5, want: 15000 + 9000},
		{people: 7, want: 15000 + 12750},
		{people: 8, want: 15000 + 15000},
	}

	for _, tt := range tests {
		b, _, err := engine.PackagePrice(domain.Package1Night1Session, domain.AccommodationCottage, tt.people)
		require.NoError(t, err)
		assert.Equalf(t, tt.want, b.BaseAmount, "people=%d", tt.people)
	}
}

func TestPackagePrice_CapacityExceededBeforePricing(t *testing.T) {
	engine := NewEngine()

	_, _, err := engine.PackagePrice(domain.Package1Night1Session, domain.AccommodationCottage, 9)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
}

func TestStayPrice(t *testing.T) {
	engine := NewEngineWithRate(0)

	tests := []struct {
		name   string
		acc    domain.AccommodationType
		people int
		nights int
		meals  bool
		want   float64
	}{
		{name: "tent without meals", acc: domain.AccommodationTent, people: 2, nights: 3, want: 6000},
		{name: "tent with meals", acc: domain.AccommodationTent, people: 2, nights: 3, meals: true, want: 9000},
		{name: "dorm without meals", acc: domain.AccommodationDorm, people: 1, nights: 2, want: 2400},
		{name: "cottage flat per unit", acc: domain.AccommodationCottage, people: 4, nights: 2, want: 12000},
		{name: "cottage two units with meals", acc: domain.AccommodationCottage, people: 5, nights: 1, meals: true, want: 12000 + 2500},
		{name: "dorm six nights extended without meals", acc: domain.AccommodationDorm, people: 2, nights: 6, want: 12000},
		{name: "dorm six nights extended with meals", acc: domain.AccommodationDorm, people: 2, nights: 6, meals: true, want: 22000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _, err := engine.StayPrice(tt.acc, tt.people, tt.nights, tt.meals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.BaseAmount)
		})
	}
}
