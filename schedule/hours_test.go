package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func days(ds ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range ds {
		w = w.With(d)
	}
	return w
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantAlways  bool
		wantUnknown bool
		wantPeriods []Period
		wantSkipped int
	}{
		{"sentinel", "Круглосуточно", true, false, nil, 0},
		{"sentinel lower case with spaces", "  круглосуточно ", true, false, nil, 0},
		{"sentinel 24/7", "24/7", true, false, nil, 0},
		{
			"weekday range", "Пн–Пт: 09:00–22:00", false, false,
			[]Period{{Days: days(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday), Open: 540, Close: 1320}}, 0,
		},
		{
			"two periods", "Пн–Пт: 09:00–22:00, Сб–Вс: 10:00–20:00", false, false,
			[]Period{
				{Days: days(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday), Open: 540, Close: 1320},
				{Days: days(time.Saturday, time.Sunday), Open: 600, Close: 1200},
			}, 0,
		},
		{
			"range wraps across the week", "Сб–Пн: 10:00–20:00", false, false,
			[]Period{{Days: days(time.Saturday, time.Sunday, time.Monday), Open: 600, Close: 1200}}, 0,
		},
		{
			"comma list of days", "Пн, Ср: 09:00–18:00", false, false,
			[]Period{{Days: days(time.Monday, time.Wednesday), Open: 540, Close: 1080}}, 0,
		},
		{
			"full names and hyphens", "Понедельник-Среда: 8:30-17:00", false, false,
			[]Period{{Days: days(time.Monday, time.Tuesday, time.Wednesday), Open: 510, Close: 1020}}, 0,
		},
		{
			"every day keyword", "Ежедневно: 10:00–23:00", false, false,
			[]Period{{Days: AllWeekdays, Open: 600, Close: 1380}}, 0,
		},
		{
			"closing at 24:00", "Пт: 18:00–24:00", false, false,
			[]Period{{Days: days(time.Friday), Open: 1080, Close: 0}}, 0,
		},
		{
			"missing colon is skipped", "Пн 09:00–18:00, Вт: 10:00–19:00", false, false,
			[]Period{{Days: days(time.Tuesday), Open: 600, Close: 1140}}, 1,
		},
		{
			"bad time is skipped", "Пн: 25:00–26:00; Ср: 09:00–18:00", false, false,
			[]Period{{Days: days(time.Wednesday), Open: 540, Close: 1080}}, 1,
		},
		{"unknown day", "Xy: 09:00–18:00", false, true, nil, 1},
		{"free text", "по записи", false, true, nil, 1},
		{"empty", "", false, true, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			assert.Equal(t, tt.wantAlways, got.AlwaysOpen)
			assert.Equal(t, tt.wantUnknown, got.Unknown)
			assert.Equal(t, tt.wantPeriods, got.Periods)
			assert.Len(t, got.Skipped, tt.wantSkipped)
		})
	}
}

func TestParsePeriodsHaveDaysAndBoundedTimes(t *testing.T) {
	inputs := []string{
		"Пн–Пт: 09:00–22:00, Сб–Вс: 10:00–20:00",
		"Вс–Вс: 00:00–24:00",
		"Пт: 22:00–02:00",
		"Mon-Fri: 07:15-19:45",
	}
	for _, in := range inputs {
		h := Parse(in)
		require.NotEmpty(t, h.Periods, in)
		for _, p := range h.Periods {
			assert.False(t, p.Days.Empty(), in)
			assert.True(t, p.Open >= 0 && p.Open < MinutesPerDay, in)
			assert.True(t, p.Close >= 0 && p.Close < MinutesPerDay, in)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		token string
		want  time.Weekday
		ok    bool
	}{
		{"Вс", time.Sunday, true},
		{"пн", time.Monday, true},
		{"Пт.", time.Friday, true},
		{"СУББОТА", time.Saturday, true},
		{"Wed", time.Wednesday, true},
		{"thursday", time.Thursday, true},
		{"зв", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseWeekday(tt.token)
		assert.Equal(t, tt.ok, ok, tt.token)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.token)
		}
	}
}

func TestWeekdaysMarshalJSON(t *testing.T) {
	b, err := days(time.Sunday, time.Friday).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[0,5]`, string(b))
}

func TestWeekdaysUnmarshalJSON(t *testing.T) {
	var w Weekdays
	require.NoError(t, w.UnmarshalJSON([]byte(`[0,5]`)))
	assert.Equal(t, days(time.Sunday, time.Friday), w)

	assert.Error(t, w.UnmarshalJSON([]byte(`[7]`)))
	assert.Error(t, w.UnmarshalJSON([]byte(`"mon"`)))
}
