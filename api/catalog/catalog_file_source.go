package catalog

import (
	"context"

	"venue-finder/models/venue"
	"venue-finder/util"
)

// CatalogFileSource reads the catalog from a JSON file on every fetch.
type CatalogFileSource struct {
	path string
}

func NewCatalogFileSource(path string) *CatalogFileSource {
	return &CatalogFileSource{path: path}
}

func (s *CatalogFileSource) FetchVenues(ctx context.Context) ([]venue.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return util.ReadVenuesFromJSON(s.path)
}

func (s *CatalogFileSource) Describe() string {
	return s.path
}
