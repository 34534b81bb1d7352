package catalog

import (
	"bytes"
	"context"
	"fmt"

	"venue-finder/api"
	"venue-finder/models/venue"
	"venue-finder/util"
)

// CatalogApiClient embeds the common HTTPClient and fetches data.json over HTTP.
type CatalogApiClient struct {
	*api.HTTPClient
}

// NewCatalogApiClient creates a client for the catalog published at httpClient.BaseURL.
func NewCatalogApiClient(httpClient *api.HTTPClient) *CatalogApiClient {
	return &CatalogApiClient{
		HTTPClient: httpClient,
	}
}

func (c *CatalogApiClient) FetchVenues(ctx context.Context) ([]venue.Venue, error) {
	body, err := c.GetRaw(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("[CatalogApiClient] fetch %s: %w", c.BaseURL, err)
	}
	venues, err := util.DecodeVenues(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("[CatalogApiClient] decode %s: %w", c.BaseURL, err)
	}
	return venues, nil
}

func (c *CatalogApiClient) Describe() string {
	return c.BaseURL
}
