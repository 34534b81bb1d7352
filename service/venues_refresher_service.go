package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"venue-finder/api/catalog"
	"venue-finder/dao/redis"
	"venue-finder/logging"
	"venue-finder/models/venue"
	"venue-finder/store"
)

// ErrNoCatalog is returned when neither the source nor a snapshot yields venues.
var ErrNoCatalog = errors.New("no catalog available")

// SnapshotDAO keeps the last good catalog.
type SnapshotDAO interface {
	SetCatalogSnapshot(s redis.CatalogSnapshot) error
	GetCatalogSnapshot() (*redis.CatalogSnapshot, error)
}

// CatalogRefresherService periodically refetches the catalog and reloads every session.
type CatalogRefresherService struct {
	source       catalog.CatalogSource
	snapshotDao  SnapshotDAO
	venueService *VenueService
	now          func() time.Time
	logger       *slog.Logger
}

// NewCatalogRefresherService constructs a new refresher with dependencies.
func NewCatalogRefresherService(
	source catalog.CatalogSource,
	snapshotDao SnapshotDAO,
	venueService *VenueService,
	logger *slog.Logger,
) *CatalogRefresherService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CatalogRefresherService{
		source:       source,
		snapshotDao:  snapshotDao,
		venueService: venueService,
		now:          time.Now,
		logger:       logger.With("component", "CatalogRefresherService"),
	}
}

// StartPeriodicJob launches the background loop at the given interval. Each
// tick refreshes the catalog and evicts idle sessions. It stops when ctx is
// cancelled.
func (cr *CatalogRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		cr.logger.Info("periodic refresh disabled")
		return
	}
	go cr.startPeriodicJob(ctx, interval)
}

func (cr *CatalogRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cr.logger.Info("periodic refresh stopped")
			return
		case <-ticker.C:
			cr.logger.Debug("running periodic catalog refresh")
			if _, err := cr.RefreshCatalog(ctx); err != nil {
				cr.logger.Error("periodic catalog refresh failed", "error", err)
			}
			cr.venueService.EvictIdleSessions()
		}
	}
}

// RefreshCatalog fetches the catalog and reloads all sessions. On a fetch
// failure the last snapshot is served instead and the fetch error is returned
// only when no snapshot exists.
func (cr *CatalogRefresherService) RefreshCatalog(ctx context.Context) (store.LoadReport, error) {
	venues, err := cr.source.FetchVenues(ctx)
	if err != nil {
		cr.logger.Warn("catalog fetch failed, trying snapshot", "source", cr.source.Describe(), "error", err)
		snapshot, snapErr := cr.snapshotDao.GetCatalogSnapshot()
		if snapErr != nil {
			return store.LoadReport{}, fmt.Errorf("[CatalogRefresherService] fetch: %v; snapshot: %w", err, snapErr)
		}
		if snapshot == nil {
			return store.LoadReport{}, fmt.Errorf("%w: %v", ErrNoCatalog, err)
		}
		cr.logger.Info("serving catalog snapshot", "fetched_at", snapshot.FetchedAt, "venues", len(snapshot.Venues))
		return cr.venueService.ReloadCatalog(snapshot.Venues), nil
	}

	report := cr.venueService.ReloadCatalog(venues)
	cr.saveSnapshot(venues)
	cr.logger.Info("catalog refreshed", "source", cr.source.Describe(), "loaded", report.Loaded, "received", report.Received)
	return report, nil
}

func (cr *CatalogRefresherService) saveSnapshot(venues []venue.Venue) {
	snapshot := redis.CatalogSnapshot{FetchedAt: cr.now().UTC(), Venues: venues}
	if err := cr.snapshotDao.SetCatalogSnapshot(snapshot); err != nil {
		cr.logger.Warn("could not save catalog snapshot", "error", err)
	}
}
