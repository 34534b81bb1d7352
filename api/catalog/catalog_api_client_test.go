package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-finder/api"
	"venue-finder/models/venue"
)

const catalogBody = `[
	{"name": "Зерно", "coordinates": [55.75, 37.61], "hours": "Круглосуточно", "description": "Оценка 4,8"},
	{"name": "Полночь", "coordinates": [55.76, 37.62], "hours": "Пт: 22:00–02:00", "rating": 3.5}
]`

func TestCatalogApiClient_FetchVenues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/data.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogBody))
	}))
	defer srv.Close()

	client := NewCatalogApiClient(api.NewHTTPClient(srv.URL+"/data.json", time.Second))
	venues, err := client.FetchVenues(context.Background())

	require.NoError(t, err)
	require.Len(t, venues, 2)
	assert.Equal(t, 4.8, venues[0].Rating)
	assert.True(t, venues[0].Schedule.AlwaysOpen)
	assert.Equal(t, 3.5, venues[1].Rating)
	assert.Equal(t, srv.URL+"/data.json", client.Describe())
}

func TestCatalogApiClient_FetchVenues_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewCatalogApiClient(api.NewHTTPClient(srv.URL, time.Second))
	_, err := client.FetchVenues(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestCatalogApiClient_FetchVenues_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := NewCatalogApiClient(api.NewHTTPClient(srv.URL, time.Second)).FetchVenues(context.Background())
	assert.Error(t, err)
}

func TestCatalogFileSource_FetchVenues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogBody), 0o644))

	source := NewCatalogFileSource(path)
	venues, err := source.FetchVenues(context.Background())
	require.NoError(t, err)
	assert.Len(t, venues, 2)
	assert.Equal(t, path, source.Describe())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = source.FetchVenues(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCatalogApiClientMock(t *testing.T) {
	mock := NewCatalogApiClientMock([]venue.Venue{{Name: "A"}})

	venues, err := mock.FetchVenues(context.Background())
	require.NoError(t, err)
	assert.Len(t, venues, 1)

	mock.SetError(errors.New("down"))
	_, err = mock.FetchVenues(context.Background())
	assert.Error(t, err)

	mock.SetVenues([]venue.Venue{{Name: "A"}, {Name: "B"}})
	venues, err = mock.FetchVenues(context.Background())
	require.NoError(t, err)
	assert.Len(t, venues, 2)
	assert.Equal(t, 3, mock.Calls())
}
