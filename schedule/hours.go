// Package schedule parses free-form opening hours such as
// "Пн–Пт: 09:00–22:00, Сб–Вс: 10:00–20:00" and evaluates them at an instant.
package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

// AlwaysOpenSentinel is the canonical hours text of a venue open around the clock.
const AlwaysOpenSentinel = "Круглосуточно"

// MinutesPerDay bounds Period.Open and Period.Close.
const MinutesPerDay = 24 * 60

var alwaysOpenTokens = map[string]struct{}{
	"круглосуточно": {},
	"24/7":          {},
	"24 часа":       {},
	"24h":           {},
}

// timeRangePattern matches the trailing "HH:MM–HH:MM" of a period segment.
var timeRangePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[–—-]\s*(\d{1,2}):(\d{2})\s*$`)

// Period is a recurring weekly window. Close <= Open means the window runs
// past midnight into the following day.
type Period struct {
	Days  Weekdays `json:"days"`
	Open  int      `json:"opens_minutes"`
	Close int      `json:"closes_minutes"`
}

// CrossesMidnight reports whether the period ends on the day after it opens.
func (p Period) CrossesMidnight() bool {
	return p.Close <= p.Open
}

// Hours is the parsed form of a venue's hours text.
type Hours struct {
	AlwaysOpen bool     `json:"open_24h"`
	Unknown    bool     `json:"unknown"`
	Periods    []Period `json:"periods,omitempty"`
	// Skipped holds the segments that could not be parsed.
	Skipped []string `json:"skipped,omitempty"`
}

// Parse never fails. Malformed segments are skipped one by one; if nothing
// usable remains the result is Unknown, which evaluates as open.
func Parse(text string) Hours {
	trimmed := strings.TrimSpace(text)
	if _, ok := alwaysOpenTokens[strings.ToLower(trimmed)]; ok {
		return Hours{AlwaysOpen: true}
	}

	var h Hours
	var pending Weekdays
	for _, segment := range strings.FieldsFunc(trimmed, func(r rune) bool { return r == ',' || r == ';' }) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		loc := timeRangePattern.FindStringSubmatchIndex(segment)
		if loc == nil {
			// "Пн, Ср: 09:00–18:00" arrives as "Пн" then "Ср: 09:00–18:00".
			if days, ok := parseDays(segment); ok {
				pending |= days
				continue
			}
			h.Skipped = append(h.Skipped, segment)
			pending = 0
			continue
		}

		period, ok := parsePeriod(segment, loc)
		if !ok {
			h.Skipped = append(h.Skipped, segment)
			pending = 0
			continue
		}
		period.Days |= pending
		pending = 0
		h.Periods = append(h.Periods, period)
	}

	if len(h.Periods) == 0 {
		h.Unknown = true
	}
	return h
}

func parsePeriod(segment string, loc []int) (Period, bool) {
	prefix := strings.TrimSpace(segment[:loc[0]])
	if !strings.HasSuffix(prefix, ":") {
		return Period{}, false
	}
	days, ok := parseDays(strings.TrimSuffix(prefix, ":"))
	if !ok {
		return Period{}, false
	}
	open, ok := clockMinutes(segment[loc[2]:loc[3]], segment[loc[4]:loc[5]], false)
	if !ok {
		return Period{}, false
	}
	closing, ok := clockMinutes(segment[loc[6]:loc[7]], segment[loc[8]:loc[9]], true)
	if !ok {
		return Period{}, false
	}
	return Period{Days: days, Open: open, Close: closing}, true
}

// clockMinutes converts HH and MM to minutes since midnight. A closing time of
// 24:00 is midnight.
func clockMinutes(hh, mm string, closing bool) (int, bool) {
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m > 59 {
		return 0, false
	}
	if closing && h == 24 && m == 0 {
		return 0, true
	}
	if h > 23 {
		return 0, false
	}
	return h*60 + m, true
}
