package catalog

import (
	"context"
	"sync"

	"venue-finder/models/venue"
)

// CatalogApiClientMock serves a fixed catalog, or a fixed error.
type CatalogApiClientMock struct {
	mu     sync.Mutex
	venues []venue.Venue
	err    error
	calls  int
}

// NewCatalogApiClientMock creates a new instance of CatalogApiClientMock
func NewCatalogApiClientMock(venues []venue.Venue) *CatalogApiClientMock {
	return &CatalogApiClientMock{venues: venues}
}

func (m *CatalogApiClientMock) FetchVenues(ctx context.Context) ([]venue.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]venue.Venue, len(m.venues))
	copy(out, m.venues)
	return out, nil
}

func (m *CatalogApiClientMock) Describe() string {
	return "mock"
}

// SetVenues replaces the served catalog and clears any error.
func (m *CatalogApiClientMock) SetVenues(venues []venue.Venue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.venues, m.err = venues, nil
}

// SetError makes every following fetch fail with err.
func (m *CatalogApiClientMock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *CatalogApiClientMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
