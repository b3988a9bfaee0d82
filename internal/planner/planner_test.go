package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavehouse/MSC-BookingService/internal/domain"
	"github.com/wavehouse/MSC-BookingService/pkg/ptr"
)

type stubFinder struct {
	slots map[string]int64
	err   error
	calls []time.Time
}

func (f *stubFinder) FindSlotForDate(_ context.Context, date time.Time, _ int) (int64, error) {
	f.calls = append(f.calls, date)
	if f.err != nil {
		return 0, f.err
	}
	return f.slots[date.Format(domain.DateFormat)], nil
}

func date(s string) time.Time {
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func assignments(activities ...domain.ActivityType) []domain.PersonActivity {
	out := make([]domain.PersonActivity, 0, len(activities))
	for i, a := range activities {
		out = append(out, domain.PersonActivity{PersonIndex: i, Activity: a})
	}
	return out
}

func TestExpectedDates(t *testing.T) {
	checkIn := date("2026-09-10")

	tests := []struct {
		pkg  domain.PackageType
		want []string
	}{
		{pkg: domain.Package1Night1Session, want: []string{"2026-09-11"}},
		{pkg: domain.Package1Night2Sessions, want: []string{"2026-09-10", "2026-09-11"}},
		{pkg: domain.Package2Nights3Sessions, want: []string{"2026-09-10", "2026-09-11", "2026-09-12"}},
	}

	for _, tt := range tests {
		got := ExpectedDates(tt.pkg, checkIn)
		require.Len(t, got, len(tt.want))
		for i, w := range tt.want {
			assert.Equal(t, w, got[i].Format(domain.DateFormat))
		}
	}
}

func TestPlan_SortsInputsAndAllocatesSlots(t *testing.T) {
	finder := &stubFinder{slots: map[string]int64{
		"2026-09-10": 3,
		"2026-09-11": 7,
	}}
	p := New(finder)

	// сессии присланы в обратном порядке, слот задан только для второй
	got, err := p.Plan(context.Background(), domain.Package1Night2Sessions, date("2026-09-10"), 2, []SessionInput{
		{Date: date("2026-09-11"), SlotID: ptr.Ptr(int64(12)), PersonActivities: assignments(domain.ActivitySurf, domain.ActivityKayak)},
		{Date: date("2026-09-10"), PersonActivities: assignments(domain.ActivitySurf, domain.ActivitySUP)},
	})

	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].SessionNumber)
	assert.Equal(t, "2026-09-10", got[0].SessionDate.Format(domain.DateFormat))
	assert.Equal(t, int64(3), got[0].SlotID)

	assert.Equal(t, 2, got[1].SessionNumber)
	assert.Equal(t, int64(12), got[1].SlotID)

	// слот подобран только для сессии без явного слота
	require.Len(t, finder.calls, 1)
	assert.Equal(t, "2026-09-10", finder.calls[0].Format(domain.DateFormat))
}

func TestPlan_ScheduleMismatch(t *testing.T) {
	p := New(&stubFinder{})

	tests := []struct {
		name   string
		inputs []SessionInput
	}{
		{
			name: "wrong session count",
			inputs: []SessionInput{
				{Date: date("2026-09-10"), PersonActivities: assignments(domain.ActivitySurf)},
			},
		},
		{
			name: "duplicate date instead of second day",
			inputs: []SessionInput{
				{Date: date("2026-09-10"), PersonActivities: assignments(domain.ActivitySurf)},
				{Date: date("2026-09-10"), PersonActivities: assignments(domain.ActivitySurf)},
			},
		},
		{
			name: "date outside the stay",
			inputs: []SessionInput{
				{Date: date("2026-09-10"), PersonActivities: assignments(domain.ActivitySurf)},
				{Date: date("2026-09-13"), PersonActivities: assignments(domain.ActivitySurf)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Plan(context.Background(), domain.Package1Night2Sessions, date("2026-09-10"), 1, tt.inputs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrScheduleMismatch))
		})
	}
}

func TestPlan_InvalidAssignments(t *testing.T) {
	p := New(&stubFinder{slots: map[string]int64{"2026-09-11": 1}})

	tests := []struct {
		name        string
		assignments []domain.PersonActivity
	}{
		{
			name:        "missing person",
			assignments: []domain.PersonActivity{{PersonIndex: 0, Activity: domain.ActivitySurf}},
		},
		{
			name: "person assigned twice",
			assignments: []domain.PersonActivity{
				{PersonIndex: 0, Activity: domain.ActivitySurf},
				{PersonIndex: 0, Activity: domain.ActivitySUP},
			},
		},
		{
			name: "index out of range",
			assignments: []domain.PersonActivity{
				{PersonIndex: 0, Activity: domain.ActivitySurf},
				{PersonIndex: 5, Activity: domain.ActivitySurf},
			},
		},
		{
			name: "unknown activity",
			assignments: []domain.PersonActivity{
				{PersonIndex: 0, Activity: domain.ActivitySurf},
				{PersonIndex: 1, Activity: domain.ActivityType("snowboard")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Plan(context.Background(), domain.Package1Night1Session, date("2026-09-10"), 2, []SessionInput{
				{Date: date("2026-09-11"), PersonActivities: tt.assignments},
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAssignment))
		})
	}
}

func TestPlan_NoSlotAvailable(t *testing.T) {
	p := New(&stubFinder{err: ErrNoSlotAvailable})

	_, err := p.Plan(context.Background(), domain.Package1Night1Session, date("2026-09-10"), 1, []SessionInput{
		{Date: date("2026-09-11"), PersonActivities: assignments(domain.ActivitySurf)},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSlotAvailable))
}
