package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"venue-finder/config"
	"venue-finder/di"
	"venue-finder/logging"
	services "venue-finder/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := di.NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build container: %w", err)
	}
	defer container.Close()

	if _, err := container.CatalogRefresherService.RefreshCatalog(ctx); err != nil {
		// Serve an empty catalog; the periodic job keeps retrying.
		if errors.Is(err, services.ErrNoCatalog) {
			logger.Warn("starting without a catalog", "error", err)
		} else {
			logger.Error("initial catalog refresh failed", "error", err)
		}
	}
	container.CatalogRefresherService.StartPeriodicJob(ctx, cfg.Catalog.RefreshInterval)

	return container.VenueFinderHttpServer.Start(ctx)
}
