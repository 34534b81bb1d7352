package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query args understood by CriteriaPatchFromValues.
const (
	MIN_RATING_QUERY_ARG = "min_rating"
	DISTRICT_QUERY_ARG   = "district"
	HOURS_QUERY_ARG      = "hours"
	SEARCH_QUERY_ARG     = "q"
)

const (
	AnyDistrict = "any"
	noMinimum   = "none"
)

// HoursMode selects how opening hours restrict the visible set.
type HoursMode string

const (
	HoursAny        HoursMode = "any"
	HoursOpenNow    HoursMode = "open-now"
	HoursAlwaysOpen HoursMode = "24/7"
)

// ParseHoursMode accepts the canonical modes plus the aliases sent by older clients.
func ParseHoursMode(s string) (HoursMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return HoursAny, nil
	case "open-now", "open_now", "now":
		return HoursOpenNow, nil
	case "24/7", "24-7", "always", "круглосуточно":
		return HoursAlwaysOpen, nil
	default:
		return "", fmt.Errorf("unknown hours mode %q", s)
	}
}

func (m *HoursMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("hours mode must be a string: %w", err)
	}
	parsed, err := ParseHoursMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// RatingThreshold is either a minimum rating or "no minimum" (the zero value).
type RatingThreshold struct {
	Value float64
	Set   bool
}

func NoMinimumRating() RatingThreshold {
	return RatingThreshold{}
}

func MinimumRating(v float64) RatingThreshold {
	return RatingThreshold{Value: v, Set: true}
}

// Allows reports whether rating passes the threshold.
func (r RatingThreshold) Allows(rating float64) bool {
	return !r.Set || rating >= r.Value
}

// MarshalJSON encodes the threshold as a number, or "none" when unset.
func (r RatingThreshold) MarshalJSON() ([]byte, error) {
	if !r.Set {
		return json.Marshal(noMinimum)
	}
	return json.Marshal(r.Value)
}

func (r *RatingThreshold) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*r = NoMinimumRating()
	case float64:
		*r = MinimumRating(v)
	case string:
		parsed, err := parseRatingThreshold(v)
		if err != nil {
			return err
		}
		*r = parsed
	default:
		return fmt.Errorf("minimum rating must be a number or %q", noMinimum)
	}
	return nil
}

func parseRatingThreshold(s string) (RatingThreshold, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, noMinimum) || strings.EqualFold(s, "all") {
		return NoMinimumRating(), nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return RatingThreshold{}, fmt.Errorf("invalid minimum rating %q: %w", s, err)
	}
	return MinimumRating(v), nil
}

// FilterCriteria is the full filter state of one client. It is also the shape
// persisted between sessions.
type FilterCriteria struct {
	MinimumRating RatingThreshold `json:"minimumRating"`
	District      string          `json:"district"`
	Hours         HoursMode       `json:"hours"`
	Search        string          `json:"search"`
}

// DefaultCriteria lets every venue through.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		MinimumRating: NoMinimumRating(),
		District:      AnyDistrict,
		Hours:         HoursAny,
	}
}

// IsAnyDistrict reports whether district is a wildcard.
func IsAnyDistrict(district string) bool {
	switch strings.ToLower(strings.TrimSpace(district)) {
	case "", AnyDistrict, "all":
		return true
	}
	return false
}

// CriteriaPatch is a partial update of FilterCriteria. Nil fields are left unchanged.
type CriteriaPatch struct {
	MinimumRating *RatingThreshold `json:"minimumRating,omitempty"`
	District      *string          `json:"district,omitempty"`
	Hours         *HoursMode       `json:"hours,omitempty"`
	Search        *string          `json:"search,omitempty"`
}

// UnmarshalJSON treats a present null as a reset: no minimum rating, any
// district, any hours, empty search. Absent keys stay unset and unknown keys
// are rejected.
func (p *CriteriaPatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out CriteriaPatch
	for key, value := range raw {
		switch key {
		case "minimumRating":
			var r RatingThreshold
			if err := r.UnmarshalJSON(value); err != nil {
				return err
			}
			out.MinimumRating = &r
		case "district":
			var d string
			if err := json.Unmarshal(value, &d); err != nil {
				return fmt.Errorf("district must be a string: %w", err)
			}
			out.District = &d
		case "hours":
			var m HoursMode
			if err := m.UnmarshalJSON(value); err != nil {
				return err
			}
			out.Hours = &m
		case "search":
			var q string
			if err := json.Unmarshal(value, &q); err != nil {
				return fmt.Errorf("search must be a string: %w", err)
			}
			out.Search = &q
		default:
			return fmt.Errorf("unknown field %q", key)
		}
	}
	*p = out
	return nil
}

// Merge returns c with every field set in p replaced.
func (c FilterCriteria) Merge(p CriteriaPatch) FilterCriteria {
	if p.MinimumRating != nil {
		c.MinimumRating = *p.MinimumRating
	}
	if p.District != nil {
		c.District = strings.TrimSpace(*p.District)
		if IsAnyDistrict(c.District) {
			c.District = AnyDistrict
		}
	}
	if p.Hours != nil {
		c.Hours = *p.Hours
	}
	if p.Search != nil {
		c.Search = strings.TrimSpace(*p.Search)
	}
	if c.Hours == "" {
		c.Hours = HoursAny
	}
	return c
}

// CriteriaPatchFromValues reads a patch from form or query values. Absent keys
// stay unset.
func CriteriaPatchFromValues(vals url.Values) (CriteriaPatch, error) {
	var p CriteriaPatch

	if _, ok := vals[MIN_RATING_QUERY_ARG]; ok {
		threshold, err := parseRatingThreshold(vals.Get(MIN_RATING_QUERY_ARG))
		if err != nil {
			return CriteriaPatch{}, err
		}
		p.MinimumRating = &threshold
	}
	if _, ok := vals[DISTRICT_QUERY_ARG]; ok {
		district := vals.Get(DISTRICT_QUERY_ARG)
		p.District = &district
	}
	if _, ok := vals[HOURS_QUERY_ARG]; ok {
		mode, err := ParseHoursMode(vals.Get(HOURS_QUERY_ARG))
		if err != nil {
			return CriteriaPatch{}, err
		}
		p.Hours = &mode
	}
	if _, ok := vals[SEARCH_QUERY_ARG]; ok {
		search := vals.Get(SEARCH_QUERY_ARG)
		p.Search = &search
	}
	return p, nil
}
