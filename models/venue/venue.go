package venue

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"venue-finder/schedule"
)

// ratingPattern picks the first "4.5" or "4" out of a free-text description.
var ratingPattern = regexp.MustCompile(`\d[.,]\d|\d`)

// Venue represents a place shown on the map, as read from data.json.
type Venue struct {
	Name        string    `json:"name"`
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Hours       string    `json:"hours"`
	Description string    `json:"description"`
	District    string    `json:"district"`
	Photo       string    `json:"photo"`
	ReviewLink  string    `json:"reviewLink"`

	// Rating is taken from the "rating" field when present, otherwise from Description.
	Rating float64 `json:"rating"`

	// Schedule is Hours parsed once at ingestion.
	Schedule schedule.Hours `json:"-"`

	normalized bool
}

// UnmarshalJSON decodes a venue and normalizes it.
func (v *Venue) UnmarshalJSON(data []byte) error {
	// Create an alias to avoid infinite recursion.
	type Alias Venue
	aux := &struct {
		Rating *float64 `json:"rating"`
		*Alias
	}{
		Alias: (*Alias)(v),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	v.Rating = 0
	if aux.Rating != nil {
		v.Rating = *aux.Rating
	}
	v.normalized = false
	v.Normalize()
	return nil
}

// Normalize derives Rating and Schedule. It is a no-op on an already normalized venue.
func (v *Venue) Normalize() {
	if v.normalized {
		return
	}
	if v.Rating == 0 {
		v.Rating = ExtractRating(v.Description)
	}
	v.Schedule = schedule.Parse(v.Hours)
	v.normalized = true
}

// Location returns the venue's coordinates; ok is false when they are missing or invalid.
func (v *Venue) Location() (lat, lon float64, ok bool) {
	if len(v.Coordinates) != 2 {
		return 0, 0, false
	}
	lat, lon = v.Coordinates[0], v.Coordinates[1]
	if math.IsNaN(lat) || math.IsNaN(lon) || math.Abs(lat) > 90 || math.Abs(lon) > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

func (v *Venue) HasLocation() bool {
	_, _, ok := v.Location()
	return ok
}

// IsAlwaysOpen reports whether the hours text is exactly the around-the-clock sentinel.
func (v *Venue) IsAlwaysOpen() bool {
	return v.Hours == schedule.AlwaysOpenSentinel
}

func (v *Venue) ToString() string {
	return fmt.Sprintf("Venue(name=%s, address=%s, district=%s, rating=%.1f, coordinates=%v)",
		v.Name, v.Address, v.District, v.Rating, v.Coordinates)
}

// ExtractRating returns the first number in text, or 0 when there is none.
func ExtractRating(text string) float64 {
	match := ratingPattern.FindString(text)
	if match == "" {
		return 0
	}
	rating, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return rating
}

type RatingBand string

const (
	RatingBandGreen  RatingBand = "green"
	RatingBandYellow RatingBand = "yellow"
	RatingBandRed    RatingBand = "red"
)

// BandOf groups ratings the way map markers are colored.
func BandOf(rating float64) RatingBand {
	switch {
	case rating >= 4:
		return RatingBandGreen
	case rating >= 3:
		return RatingBandYellow
	default:
		return RatingBandRed
	}
}
