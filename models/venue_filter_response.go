// models/venue_filter_response.go
package models

import "venue-finder/models/venue"

// VisibleSet is the ordered list of venues passing the current criteria.
type VisibleSet struct {
	Venues  []venue.Venue `json:"venues"`
	VenuesN int           `json:"venues_n"`
}

func NewVisibleSet(venues []venue.Venue) VisibleSet {
	if venues == nil {
		venues = []venue.Venue{}
	}
	return VisibleSet{Venues: venues, VenuesN: len(venues)}
}

// Names lists the visible venues in order.
func (s VisibleSet) Names() []string {
	names := make([]string, len(s.Venues))
	for i, v := range s.Venues {
		names[i] = v.Name
	}
	return names
}

// VenueFilterResponse is what GET /v1/venues returns.
type VenueFilterResponse struct {
	Status   string         `json:"status"`
	Criteria FilterCriteria `json:"criteria"`
	VisibleSet
	Selected *string `json:"selected"`
}
