package di

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/valkey-io/valkey-go"

	"venue-finder/api"
	"venue-finder/api/catalog"
	"venue-finder/config"
	"venue-finder/dao/redis"
	"venue-finder/db"
	"venue-finder/server"
	"venue-finder/server/handlers"
	services "venue-finder/service"
)

const pingTimeout = 2 * time.Second

// Container holds all application dependencies.
type Container struct {
	Config                  *config.Config
	Logger                  *slog.Logger
	RedisClient             db.RedisClient
	RedisCriteriaDao        *redis.RedisCriteriaDAO
	CatalogSource           catalog.CatalogSource
	VenueService            *services.VenueService
	CatalogRefresherService *services.CatalogRefresherService
	VenueHandler            *handlers.VenueHandler
	MuxRouter               *mux.Router
	Router                  *server.Router
	VenueFinderHttpServer   *server.VenueFinderHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	logger.Info("initializing container", "persistence", cfg.Persistence.Backend, "catalog_url", cfg.Catalog.URL, "catalog_path", cfg.Catalog.Path)

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve catalog timezone: %w", err)
	}

	redisClient := provideRedisClient(ctx, cfg.Persistence, logger)
	criteriaDao := redis.NewRedisCriteriaDAO(redisClient, cfg.Persistence.KeyPrefix, cfg.Persistence.TTL)

	var catalogSource catalog.CatalogSource
	if cfg.Catalog.URL != "" {
		catalogSource = catalog.NewCatalogApiClient(api.NewHTTPClient(cfg.Catalog.URL, cfg.Catalog.RequestTimeout))
		logger.Info("using remote catalog", "url", cfg.Catalog.URL)
	} else {
		catalogSource = catalog.NewCatalogFileSource(cfg.Catalog.Path)
		logger.Info("using catalog file", "path", cfg.Catalog.Path)
	}

	venueService := services.NewVenueService(criteriaDao,
		services.WithServiceLogger(logger),
		services.WithSessionTTL(cfg.Persistence.TTL),
		services.WithServiceClock(func() time.Time { return time.Now().In(loc) }),
	)
	refresher := services.NewCatalogRefresherService(catalogSource, criteriaDao, venueService, logger)

	venueHandler := handlers.NewVenueHandler(venueService, logger)
	muxRouter := mux.NewRouter()
	router := server.NewRouter(venueHandler, muxRouter)
	httpServer := server.NewVenueFinderHttpServer(router, muxRouter, cfg.HTTP, logger)

	return &Container{
		Config:                  cfg,
		Logger:                  logger,
		RedisClient:             redisClient,
		RedisCriteriaDao:        criteriaDao,
		CatalogSource:           catalogSource,
		VenueService:            venueService,
		CatalogRefresherService: refresher,
		VenueHandler:            venueHandler,
		MuxRouter:               muxRouter,
		Router:                  router,
		VenueFinderHttpServer:   httpServer,
	}, nil
}

// Close releases the key-value connection.
func (c *Container) Close() error {
	return c.RedisClient.Close()
}

// provideRedisClient connects the configured backend and falls back to memory
// when it is unreachable.
func provideRedisClient(ctx context.Context, cfg config.PersistenceConfig, logger *slog.Logger) db.RedisClient {
	fallback := db.NewMemoryRedisClient(ctx)

	switch cfg.Backend {
	case config.PERSISTENCE_REDIS:
		client := db.NewGoRedisClient(ctx, goredis.NewClient(&goredis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}))
		if err := client.Ping(); err != nil {
			logger.Error("redis ping failed, falling back to memory store", "addr", cfg.Addr, "error", err)
			client.Close()
			return fallback
		}
		logger.Info("redis store enabled", "addr", cfg.Addr)
		return client

	case config.PERSISTENCE_VALKEY:
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return fallback
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return fallback
		}
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
			return fallback
		}
		logger.Info("valkey store enabled", "addr", cfg.Addr)
		return db.NewValkeyClient(ctx, client)
	}

	logger.Info("memory store enabled")
	return fallback
}

func buildValkeyOptions(cfg config.PersistenceConfig) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Addr, "://") {
		return valkey.ParseURL(cfg.Addr)
	}
	return valkey.ClientOption{
		InitAddress: []string{cfg.Addr},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	}, nil
}
