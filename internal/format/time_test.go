package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayOffsetPhrase(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name   string
		target time.Time
		want   string
	}{
		{"same day evening", time.Date(2024, 3, 1, 18, 0, 0, 0, time.Local), "heute"},
		{"next morning, less than 24h", time.Date(2024, 3, 2, 9, 0, 0, 0, time.Local), "morgen"},
		{"four days ahead", time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local), "in 4 Tagen"},
		{"two days ahead", time.Date(2024, 3, 3, 23, 0, 0, 0, time.Local), "in 2 Tagen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayOffsetPhrase(now, tt.target))
		})
	}
}

func TestDaysUntilComparesDatesNotDurations(t *testing.T) {
	// 23h away but on the next calendar day.
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	target := time.Date(2024, 3, 2, 9, 0, 0, 0, time.Local)
	assert.Equal(t, 1, DaysUntil(now, target))

	// 14h away on the same calendar day.
	target = time.Date(2024, 3, 1, 23, 59, 0, 0, time.Local)
	assert.Equal(t, 0, DaysUntil(now, target))
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2024, 3, 4, 18, 0, 0, 0, time.Local) // a Monday
	assert.Equal(t, "Montag 04.03.24 18:00", FormatDateTime(ts))
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Sonntag", WeekdayName(time.Sunday))
	assert.Equal(t, "Samstag", WeekdayName(time.Saturday))
}
