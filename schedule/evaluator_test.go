package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// at returns the given weekday and clock time in the week of Monday 2024-01-01.
func at(d time.Weekday, hour, minute int) time.Time {
	return time.Date(2024, time.January, 1+(int(d)+6)%7, hour, minute, 0, 0, time.UTC)
}

func TestAlwaysOpenIsOpenEverywhere(t *testing.T) {
	h := Parse(AlwaysOpenSentinel)
	for d := time.Sunday; d <= time.Saturday; d++ {
		for hour := 0; hour < 24; hour += 5 {
			instant := at(d, hour, 17)
			assert.True(t, h.IsOpenAt(instant))
			_, ok := h.TimeUntilTransition(instant)
			assert.False(t, ok)
		}
	}
}

func TestUnknownHoursFailOpen(t *testing.T) {
	h := Parse("уточняйте по телефону")
	assert.True(t, h.Unknown)
	assert.True(t, h.IsOpenAt(at(time.Wednesday, 3, 0)))
	_, ok := h.TimeUntilTransition(at(time.Wednesday, 3, 0))
	assert.False(t, ok)
}

func TestIsOpenAtSingleDay(t *testing.T) {
	h := Parse("Пн: 09:00–18:00")

	assert.True(t, h.IsOpenAt(at(time.Monday, 9, 0)))
	assert.True(t, h.IsOpenAt(at(time.Monday, 17, 59)))
	assert.True(t, h.IsOpenAt(at(time.Monday, 18, 0)))
	assert.False(t, h.IsOpenAt(at(time.Monday, 8, 59)))
	assert.False(t, h.IsOpenAt(at(time.Monday, 18, 1)))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d == time.Monday {
			continue
		}
		assert.False(t, h.IsOpenAt(at(d, 12, 0)), d.String())
	}
}

func TestIsOpenAtAcrossMidnight(t *testing.T) {
	h := Parse("Пт: 22:00–02:00")

	assert.True(t, h.IsOpenAt(at(time.Friday, 23, 30)))
	assert.True(t, h.IsOpenAt(at(time.Saturday, 1, 30)))
	assert.True(t, h.IsOpenAt(at(time.Saturday, 2, 0)))
	assert.False(t, h.IsOpenAt(at(time.Friday, 21, 0)))
	assert.False(t, h.IsOpenAt(at(time.Friday, 1, 30)))
	assert.False(t, h.IsOpenAt(at(time.Saturday, 23, 0)))
}

func TestIsOpenAtRespectsLocation(t *testing.T) {
	h := Parse("Пн: 09:00–18:00")
	moscow := time.FixedZone("MSK", 3*60*60)

	// 07:00 UTC is 10:00 in Moscow.
	instant := time.Date(2024, time.January, 1, 7, 0, 0, 0, time.UTC)
	assert.False(t, h.IsOpenAt(instant))
	assert.True(t, h.IsOpenAt(instant.In(moscow)))
}

func TestTimeUntilTransition(t *testing.T) {
	tests := []struct {
		name    string
		hours   string
		instant time.Time
		want    Transition
		ok      bool
	}{
		{"closing soon", "Пн: 09:00–18:00", at(time.Monday, 16, 0), Transition{Closing, 120}, true},
		{"closing at horizon", "Пн: 09:00–18:00", at(time.Monday, 15, 0), Transition{Closing, 180}, true},
		{"closing too far away", "Пн: 09:00–18:00", at(time.Monday, 10, 0), Transition{}, false},
		{"opening later today", "Пн: 09:00–18:00", at(time.Monday, 8, 0), Transition{Opening, 60}, true},
		{"opening next week", "Пн: 09:00–18:00", at(time.Monday, 19, 0), Transition{Opening, 7*MinutesPerDay + 540 - 1140}, true},
		{"opening after weekend", "Пн–Пт: 09:00–18:00", at(time.Friday, 19, 0), Transition{Opening, 3*MinutesPerDay + 540 - 1140}, true},
		{"closing after midnight", "Пт: 22:00–02:00", at(time.Saturday, 1, 30), Transition{Closing, 30}, true},
		{"closing across midnight", "Пт: 22:00–02:00", at(time.Friday, 23, 30), Transition{Closing, 150}, true},
		{
			"earliest of several openings", "Пн: 12:00–14:00, Пн: 10:00–11:00, Вт: 09:00–10:00",
			at(time.Monday, 9, 0), Transition{Opening, 60}, true,
		},
		{
			"latest covering close wins", "Пн: 09:00–12:00, Пн: 10:00–13:00",
			at(time.Monday, 11, 0), Transition{Closing, 120}, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.hours).TimeUntilTransition(tt.instant)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, SeverityImminent, SeverityOf(5))
	assert.Equal(t, SeverityImminent, SeverityOf(60))
	assert.Equal(t, SeveritySoon, SeverityOf(61))
	assert.Equal(t, SeveritySoon, SeverityOf(180))
}
