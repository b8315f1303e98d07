// Package file loads and persists the cartrank configuration as a TOML
// file. Secrets (the Distance Matrix API key) may also arrive through the
// environment or a .env file, which overrides the config file value.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
)

// EnvMapsAPIKey is the environment variable carrying the Distance Matrix
// API key. It wins over the config file when set.
const EnvMapsAPIKey = "GOOGLE_MAPS_API_KEY"

// Config is the on-disk configuration for the cartrank CLI.
type Config struct {
	// DataDir holds the SQLite cache. Empty means ~/.cartrank/data.
	DataDir string `toml:"data_dir,omitempty"`

	// LookupURL is the price-lookup collaborator endpoint.
	LookupURL string `toml:"lookup_url,omitempty"`

	// MapsAPIKey authenticates Distance Matrix requests.
	MapsAPIKey string `toml:"maps_api_key,omitempty"`

	// Alpha is the default price/distance weight when the flag is absent.
	Alpha float64 `toml:"alpha"`

	// Policy overrides; zero fields fall back to the defaults.
	ListingWindowHours int     `toml:"listing_window_hours,omitempty"`
	PriceWindowMinutes int     `toml:"price_window_minutes,omitempty"`
	MinQualifying      int     `toml:"min_qualifying,omitempty"`
	MaxDistanceKm      float64 `toml:"max_distance_km,omitempty"`
	DistancePivotKm    float64 `toml:"distance_pivot_km,omitempty"`
	MaxRemovalSize     int     `toml:"max_removal_size,omitempty"`
	FetchConcurrency   int     `toml:"fetch_concurrency,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{Alpha: 0.5}
}

// DefaultPath returns ~/.cartrank/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".cartrank", "config.toml"), nil
}

// Load reads the configuration at path, overlaying environment values.
// A missing file yields the defaults, not an error; a missing .env is
// silently ignored.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	_ = godotenv.Load() //nolint:errcheck // absent .env is fine
	if key := os.Getenv(EnvMapsAPIKey); key != "" {
		cfg.MapsAPIKey = key
	}

	if cfg.Alpha < 0 || cfg.Alpha > 1 {
		return cfg, domain.ErrInvalidAlpha
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Policy builds the rank policy from the configured overrides.
func (c Config) Policy() domain.RankPolicy {
	policy := domain.RankPolicy{
		MinQualifying:    c.MinQualifying,
		MaxDistanceKm:    c.MaxDistanceKm,
		DistancePivotKm:  c.DistancePivotKm,
		MaxRemovalSize:   c.MaxRemovalSize,
		FetchConcurrency: c.FetchConcurrency,
	}
	if c.ListingWindowHours > 0 {
		policy.ListingWindow = time.Duration(c.ListingWindowHours) * time.Hour
	}
	if c.PriceWindowMinutes > 0 {
		policy.PriceWindow = time.Duration(c.PriceWindowMinutes) * time.Minute
	}
	return policy.Normalised()
}
