package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingWindowEnd(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		want  string
	}{
		{name: "thursday rolls to next monday", today: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), want: "2026-09-14"},
		{name: "sunday closes the next day", today: time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC), want: "2026-09-14"},
		{name: "monday opens a full week", today: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), want: "2026-09-21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BookingWindowEnd(tt.today).Format(DateFormat))
		})
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("arjun@example.com"))
	assert.True(t, ValidEmail("meera.rao+surf@camp.co.in"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("arjun@example"))
	assert.False(t, ValidEmail("@example.com"))
}
