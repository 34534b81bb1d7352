package models

import (
	"time"

	"venue-finder/models/venue"
	"venue-finder/schedule"
)

// TransitionInfo is a countdown with its display severity.
type TransitionInfo struct {
	schedule.Transition
	Severity schedule.Severity `json:"severity"`
}

// VenueStatus answers "is it open now, and for how long".
type VenueStatus struct {
	Name       string            `json:"name"`
	Hours      string            `json:"hours"`
	CheckedAt  time.Time         `json:"checked_at"`
	Open       bool              `json:"open"`
	AlwaysOpen bool              `json:"open_24h"`
	Unknown    bool              `json:"unknown"`
	Transition *TransitionInfo   `json:"transition"`
	Periods    []schedule.Period `json:"periods,omitempty"`
}

// StatusOf evaluates v's schedule at now.
func StatusOf(v venue.Venue, now time.Time) VenueStatus {
	v.Normalize()
	status := VenueStatus{
		Name:       v.Name,
		Hours:      v.Hours,
		CheckedAt:  now,
		Open:       v.Schedule.IsOpenAt(now),
		AlwaysOpen: v.Schedule.AlwaysOpen,
		Unknown:    v.Schedule.Unknown,
		Periods:    v.Schedule.Periods,
	}
	if tr, ok := v.Schedule.TimeUntilTransition(now); ok {
		status.Transition = &TransitionInfo{
			Transition: tr,
			Severity:   schedule.SeverityOf(tr.MinutesRemaining),
		}
	}
	return status
}
