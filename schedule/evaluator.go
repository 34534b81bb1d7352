package schedule

import "time"

// ClosingHorizonMinutes is the furthest closing time reported by TimeUntilTransition.
const ClosingHorizonMinutes = 180

// ImminentMinutes separates SeverityImminent from SeveritySoon.
const ImminentMinutes = 60

type Direction string

const (
	Opening Direction = "opening"
	Closing Direction = "closing"
)

// Transition is the next change of open state and how far away it is.
type Transition struct {
	Direction        Direction `json:"direction"`
	MinutesRemaining int       `json:"minutes_remaining"`
}

type Severity string

const (
	SeverityImminent Severity = "imminent"
	SeveritySoon     Severity = "soon"
)

// SeverityOf bands a countdown for display.
func SeverityOf(minutes int) Severity {
	if minutes <= ImminentMinutes {
		return SeverityImminent
	}
	return SeveritySoon
}

func clockOf(t time.Time) (time.Weekday, int) {
	return t.Weekday(), t.Hour()*60 + t.Minute()
}

// remainingAt returns the minutes until p closes if p covers the given day and
// minute. The tail of a midnight-crossing window belongs to the next day.
func (p Period) remainingAt(day time.Weekday, minute int) (int, bool) {
	if !p.CrossesMidnight() {
		if p.Days.Has(day) && minute >= p.Open && minute <= p.Close {
			return p.Close - minute, true
		}
		return 0, false
	}

	remaining, covered := 0, false
	if p.Days.Has(day) && minute >= p.Open {
		remaining, covered = MinutesPerDay-minute+p.Close, true
	}
	previous := (day + 6) % 7
	if p.Days.Has(previous) && minute <= p.Close {
		if tail := p.Close - minute; !covered || tail > remaining {
			remaining = tail
		}
		covered = true
	}
	return remaining, covered
}

// closingIn reports whether any period covers the instant and, if so, the
// minutes until the latest of them closes.
func (h Hours) closingIn(day time.Weekday, minute int) (int, bool) {
	best, open := 0, false
	for _, p := range h.Periods {
		if remaining, ok := p.remainingAt(day, minute); ok {
			if !open || remaining > best {
				best = remaining
			}
			open = true
		}
	}
	return best, open
}

// IsOpenAt reports whether the venue is open at t, in t's location.
func (h Hours) IsOpenAt(t time.Time) bool {
	if h.AlwaysOpen || h.Unknown {
		return true
	}
	day, minute := clockOf(t)
	_, open := h.closingIn(day, minute)
	return open
}

// TimeUntilTransition returns the upcoming opening, or the upcoming closing
// when it is at most ClosingHorizonMinutes away. ok is false when there is
// nothing to report.
func (h Hours) TimeUntilTransition(t time.Time) (tr Transition, ok bool) {
	if h.AlwaysOpen || h.Unknown {
		return Transition{}, false
	}
	day, minute := clockOf(t)

	if remaining, open := h.closingIn(day, minute); open {
		if remaining > ClosingHorizonMinutes {
			return Transition{}, false
		}
		return Transition{Direction: Closing, MinutesRemaining: remaining}, true
	}

	best := -1
	for _, p := range h.Periods {
		for offset := 0; offset <= 7; offset++ {
			if !p.Days.Has((day + time.Weekday(offset)) % 7) {
				continue
			}
			delta := offset*MinutesPerDay + p.Open - minute
			if delta <= 0 {
				continue
			}
			if best < 0 || delta < best {
				best = delta
			}
			break
		}
	}
	if best < 0 {
		return Transition{}, false
	}
	return Transition{Direction: Opening, MinutesRemaining: best}, true
}
