package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"venue-finder/models/venue"
)

// ReadVenuesFromJSON loads the venue catalog from a JSON file on disk.
func ReadVenuesFromJSON(filePath string) ([]venue.Venue, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	defer f.Close()

	venues, err := DecodeVenues(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load venues from %q: %w", filePath, err)
	}
	return venues, nil
}

// DecodeVenues reads a catalog that is either a bare array of venues or an
// object with a "venues" array. UTF-8 and UTF-16 input with a byte order mark
// is accepted.
func DecodeVenues(r io.Reader) ([]venue.Venue, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog text: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	if data[0] == '{' {
		var wrapped struct {
			Venues []venue.Venue `json:"venues"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to unmarshal venues: %w", err)
		}
		return wrapped.Venues, nil
	}

	var venues []venue.Venue
	if err := json.Unmarshal(data, &venues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal venues: %w", err)
	}
	return venues, nil
}
