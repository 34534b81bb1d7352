package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekdays is a set of days of the week, bit i set for time.Weekday(i).
type Weekdays uint8

// AllWeekdays contains every day from Sunday to Saturday.
const AllWeekdays Weekdays = 1<<7 - 1

func (w Weekdays) Has(d time.Weekday) bool {
	return w&(1<<uint(d)) != 0
}

func (w Weekdays) With(d time.Weekday) Weekdays {
	return w | 1<<uint(d)
}

func (w Weekdays) Empty() bool {
	return w&AllWeekdays == 0
}

// List returns the days in the set ordered from Sunday.
func (w Weekdays) List() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if w.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// MarshalJSON encodes the set as a list of day indexes, 0 = Sunday.
func (w Weekdays) MarshalJSON() ([]byte, error) {
	days := w.List()
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return json.Marshal(out)
}

func (w *Weekdays) UnmarshalJSON(data []byte) error {
	var days []int
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	var set Weekdays
	for _, d := range days {
		if d < int(time.Sunday) || d > int(time.Saturday) {
			return fmt.Errorf("weekday %d out of range", d)
		}
		set = set.With(time.Weekday(d))
	}
	*w = set
	return nil
}

var weekdayTokens = map[string]time.Weekday{
	"вс": time.Sunday, "вск": time.Sunday, "воскр": time.Sunday, "воскресенье": time.Sunday,
	"пн": time.Monday, "пон": time.Monday, "понед": time.Monday, "понедельник": time.Monday,
	"вт": time.Tuesday, "втр": time.Tuesday, "втор": time.Tuesday, "вторник": time.Tuesday,
	"ср": time.Wednesday, "срд": time.Wednesday, "сред": time.Wednesday, "среда": time.Wednesday,
	"чт": time.Thursday, "чтв": time.Thursday, "четв": time.Thursday, "четверг": time.Thursday,
	"пт": time.Friday, "птн": time.Friday, "пятн": time.Friday, "пятница": time.Friday,
	"сб": time.Saturday, "сбт": time.Saturday, "суб": time.Saturday, "субб": time.Saturday, "суббота": time.Saturday,

	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

var everyDayTokens = map[string]struct{}{
	"ежедневно":   {},
	"каждый день": {},
	"daily":       {},
	"everyday":    {},
	"every day":   {},
}

// dashes separate both day ranges and time ranges.
const dashes = "–—-"

func normalizeToken(s string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
}

// ParseWeekday maps a weekday abbreviation or full name, Russian or English,
// to its time.Weekday.
func ParseWeekday(token string) (time.Weekday, bool) {
	d, ok := weekdayTokens[normalizeToken(token)]
	return d, ok
}

// parseDays reads a single day, a comma list, a range such as "Сб–Пн" (wrapping
// across the week boundary), or an every-day keyword.
func parseDays(s string) (Weekdays, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if _, ok := everyDayTokens[normalizeToken(s)]; ok {
		return AllWeekdays, true
	}

	var set Weekdays
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		bounds := strings.FieldsFunc(part, func(r rune) bool {
			return strings.ContainsRune(dashes, r)
		})
		switch len(bounds) {
		case 1:
			if strings.ContainsAny(part, dashes) {
				return 0, false
			}
			d, ok := ParseWeekday(bounds[0])
			if !ok {
				return 0, false
			}
			set = set.With(d)
		case 2:
			from, ok := ParseWeekday(bounds[0])
			if !ok {
				return 0, false
			}
			to, ok := ParseWeekday(bounds[1])
			if !ok {
				return 0, false
			}
			for d := from; ; d = (d + 1) % 7 {
				set = set.With(d)
				if d == to {
					break
				}
			}
		default:
			return 0, false
		}
	}
	return set, !set.Empty()
}
