package catalog

import (
	"context"

	"venue-finder/models/venue"
)

// CatalogSource defines where the venue catalog is fetched from.
type CatalogSource interface {
	FetchVenues(ctx context.Context) ([]venue.Venue, error)
	// Describe names the source in logs.
	Describe() string
}
