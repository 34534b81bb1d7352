package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const VENUES_DATA_RESOURCE = "data.json"

const DEFAULT_CONFIG_PATH = "configs/config.yaml"

// Persistence backends
const (
	PERSISTENCE_MEMORY = "memory"
	PERSISTENCE_REDIS  = "redis"
	PERSISTENCE_VALKEY = "valkey"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Log         LogConfig         `yaml:"log"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// CatalogConfig says where venues come from and how often they are reloaded.
// URL wins over Path when both are set.
type CatalogConfig struct {
	Path            string        `yaml:"path"`
	URL             string        `yaml:"url"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`
	RefreshInterval time.Duration `yaml:"refreshInterval"`
	Timezone        string        `yaml:"timezone"`
}

// PersistenceConfig selects where filter criteria and catalog snapshots are kept.
type PersistenceConfig struct {
	Backend   string        `yaml:"backend"`
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"keyPrefix"`
	TTL       time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(DEFAULT_CONFIG_PATH); err == nil {
		if err := hydrateFromFile(cfg, DEFAULT_CONFIG_PATH); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("CATALOG_URL"); v != "" {
		cfg.Catalog.URL = v
	}
	if v := os.Getenv("CATALOG_REFRESH_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Catalog.RefreshInterval = parsed
		}
	}
	if v := os.Getenv("CATALOG_TIMEZONE"); v != "" {
		cfg.Catalog.Timezone = v
	}
	if v := os.Getenv("PERSISTENCE_BACKEND"); v != "" {
		cfg.Persistence.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("PERSISTENCE_ADDR"); v != "" {
		cfg.Persistence.Addr = v
	}
	if v := os.Getenv("PERSISTENCE_PASSWORD"); v != "" {
		cfg.Persistence.Password = v
	}
	if v := os.Getenv("PERSISTENCE_DB"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Persistence.DB = parsed
		}
	}
	if v := os.Getenv("PERSISTENCE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Persistence.TTL = parsed
		}
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Catalog: CatalogConfig{
			Path:            GetResourcePath(VENUES_DATA_RESOURCE),
			RequestTimeout:  10 * time.Second,
			RefreshInterval: 30 * time.Minute,
			Timezone:        "Europe/Moscow",
		},
		Persistence: PersistenceConfig{
			Backend:   PERSISTENCE_MEMORY,
			Addr:      "redis:6379",
			KeyPrefix: "venue_finder_v1",
			TTL:       30 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address is required")
	}
	if c.Catalog.Path == "" && c.Catalog.URL == "" {
		return errors.New("catalog.path or catalog.url is required")
	}
	if c.Catalog.RefreshInterval < 0 {
		return errors.New("catalog.refreshInterval must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("catalog.timezone: %w", err)
	}
	switch c.Persistence.Backend {
	case PERSISTENCE_MEMORY:
	case PERSISTENCE_REDIS, PERSISTENCE_VALKEY:
		if c.Persistence.Addr == "" {
			return fmt.Errorf("persistence.addr is required for backend %q", c.Persistence.Backend)
		}
	default:
		return fmt.Errorf("unknown persistence backend %q", c.Persistence.Backend)
	}
	return nil
}

// Location resolves the catalog timezone that opening hours are written in.
func (c *Config) Location() (*time.Location, error) {
	if c.Catalog.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Catalog.Timezone)
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resource_file string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resource_file)
}
