// Package store owns the venue catalog of one client together with its filter
// criteria, the derived visible set and the current selection.
//
// A Store is not safe for concurrent use. Every operation runs to completion
// and callers sharing a Store must serialise access.
package store

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"venue-finder/logging"
	"venue-finder/models"
	"venue-finder/models/venue"
)

// ErrVenueNotFound is returned when selecting a name that is not in the catalog.
var ErrVenueNotFound = errors.New("venue not found")

// CriteriaHook receives the criteria after every SetCriteria, e.g. to persist them.
type CriteriaHook interface {
	CriteriaChanged(criteria models.FilterCriteria) error
}

// CriteriaHookFunc adapts a function to CriteriaHook.
type CriteriaHookFunc func(criteria models.FilterCriteria) error

func (f CriteriaHookFunc) CriteriaChanged(criteria models.FilterCriteria) error {
	return f(criteria)
}

// Selection is either None or Selected(name).
type Selection struct {
	name     string
	selected bool
}

func (s Selection) Selected() (string, bool) {
	return s.name, s.selected
}

func (s Selection) IsNone() bool {
	return !s.selected
}

// NamePtr returns nil for None, for JSON responses.
func (s Selection) NamePtr() *string {
	if !s.selected {
		return nil
	}
	name := s.name
	return &name
}

// LoadReport counts what Load kept and what it dropped.
type LoadReport struct {
	Received        int `json:"received"`
	Loaded          int `json:"loaded"`
	MissingLocation int `json:"missing_location"`
	Duplicates      int `json:"duplicates"`
}

type Store struct {
	venues      []venue.Venue
	foldedNames []string
	byName      map[string]int

	criteria  models.FilterCriteria
	visible   models.VisibleSet
	selection Selection

	hook   CriteriaHook
	now    func() time.Time
	logger *slog.Logger
	fold   cases.Caser
}

type Option func(*Store)

// WithClock sets the source of "now" used by the open-now filter.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithCriteriaHook(hook CriteriaHook) Option {
	return func(s *Store) { s.hook = hook }
}

// WithCriteria restores criteria saved by an earlier session.
func WithCriteria(criteria models.FilterCriteria) Option {
	return func(s *Store) { s.criteria = criteria }
}

func New(opts ...Option) *Store {
	s := &Store{
		byName:   make(map[string]int),
		criteria: models.DefaultCriteria(),
		visible:  models.NewVisibleSet(nil),
		now:      time.Now,
		logger:   logging.Discard(),
		fold:     cases.Fold(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "Store")
	return s
}

// Load replaces the catalog wholesale and recomputes the visible set under the
// current criteria. Criteria and selection are kept. Venues without a location
// and repeated names are dropped and reported.
func (s *Store) Load(venues []venue.Venue) LoadReport {
	report := LoadReport{Received: len(venues)}

	kept := make([]venue.Venue, 0, len(venues))
	folded := make([]string, 0, len(venues))
	byName := make(map[string]int, len(venues))
	for _, v := range venues {
		v.Normalize()
		if !v.HasLocation() {
			report.MissingLocation++
			s.logger.Warn("skipping venue without location", "venue", v.ToString())
			continue
		}
		if _, dup := byName[v.Name]; dup {
			report.Duplicates++
			s.logger.Warn("skipping duplicate venue", "venue", v.ToString())
			continue
		}
		if len(v.Schedule.Skipped) > 0 {
			s.logger.Debug("unparsed hours segments", "venue", v.Name, "skipped", v.Schedule.Skipped)
		}
		byName[v.Name] = len(kept)
		kept = append(kept, v)
		folded = append(folded, s.fold.String(v.Name))
	}

	s.venues, s.foldedNames, s.byName = kept, folded, byName
	report.Loaded = len(kept)
	s.recompute()

	s.logger.Info("catalog loaded",
		"received", report.Received, "loaded", report.Loaded,
		"missing_location", report.MissingLocation, "duplicates", report.Duplicates,
		"visible", s.visible.VenuesN)
	return report
}

// SetCriteria merges patch into the current criteria, recomputes the visible
// set from scratch and notifies the hook.
func (s *Store) SetCriteria(patch models.CriteriaPatch) models.VisibleSet {
	s.criteria = s.criteria.Merge(patch)
	s.recompute()

	if s.hook != nil {
		if err := s.hook.CriteriaChanged(s.criteria); err != nil {
			s.logger.Warn("criteria hook failed", "error", err)
		}
	}
	return s.visible
}

// Refresh recomputes the visible set without changing criteria. Call it
// periodically when the open-now filter is active.
func (s *Store) Refresh() models.VisibleSet {
	s.recompute()
	return s.visible
}

// Select marks name as the selected venue, replacing any previous selection.
// The venue does not have to be visible.
func (s *Store) Select(name string) (Selection, error) {
	if _, ok := s.byName[name]; !ok {
		return s.selection, ErrVenueNotFound
	}
	s.selection = Selection{name: name, selected: true}
	return s.selection, nil
}

// Deselect clears the selection. It is a no-op when nothing is selected.
func (s *Store) Deselect() {
	s.selection = Selection{}
}

func (s *Store) Visible() models.VisibleSet {
	return s.visible
}

func (s *Store) Criteria() models.FilterCriteria {
	return s.criteria
}

func (s *Store) Selection() Selection {
	return s.selection
}

// Venue looks a loaded venue up by name.
func (s *Store) Venue(name string) (venue.Venue, bool) {
	i, ok := s.byName[name]
	if !ok {
		return venue.Venue{}, false
	}
	return s.venues[i], true
}

// Len is the number of loaded venues.
func (s *Store) Len() int {
	return len(s.venues)
}

func (s *Store) recompute() {
	c := s.criteria
	search := s.fold.String(strings.TrimSpace(c.Search))
	anyDistrict := models.IsAnyDistrict(c.District)

	var now time.Time
	if c.Hours == models.HoursOpenNow {
		now = s.now()
	}

	visible := make([]venue.Venue, 0, len(s.venues))
	for i := range s.venues {
		v := &s.venues[i]
		if !c.MinimumRating.Allows(v.Rating) {
			continue
		}
		if !anyDistrict && v.District != c.District {
			continue
		}
		if !matchesHours(v, c.Hours, now) {
			continue
		}
		if search != "" && !strings.Contains(s.foldedNames[i], search) {
			continue
		}
		visible = append(visible, *v)
	}
	s.visible = models.NewVisibleSet(visible)
}

func matchesHours(v *venue.Venue, mode models.HoursMode, now time.Time) bool {
	switch mode {
	case models.HoursOpenNow:
		return v.Schedule.IsOpenAt(now)
	case models.HoursAlwaysOpen:
		return v.IsAlwaysOpen()
	default:
		return true
	}
}
