package geofence

import (
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-yaml"
)

// Config describes the campus fence and the punctuality cutoff. It is loaded
// once at startup and treated as immutable for the process lifetime.
type Config struct {
	Name         string  `yaml:"name"`
	Lat          float64 `yaml:"lat"`
	Lng          float64 `yaml:"lng"`
	RadiusMeters float64 `yaml:"radius_meters"`

	// Check-ins strictly after this local time are marked LATE.
	LateCutoffHour   int `yaml:"late_cutoff_hour"`
	LateCutoffMinute int `yaml:"late_cutoff_minute"`
}

// DefaultConfig is the demo campus fence used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Name:             "Main Campus",
		Lat:              37.7749,
		Lng:              -122.4194,
		RadiusMeters:     2000,
		LateCutoffHour:   8,
		LateCutoffMinute: 0,
	}
}

// LoadConfig reads a YAML geofence config from path, applying defaults for
// any omitted field.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read geofence config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse geofence config: %w", err)
	}
	if cfg.RadiusMeters <= 0 {
		return cfg, fmt.Errorf("geofence config: radius_meters must be positive, got %v", cfg.RadiusMeters)
	}
	return cfg, nil
}

// Load resolves the active config: GEOFENCE_CONFIG points at a YAML file,
// otherwise the built-in default fence is used. A broken file falls back to
// defaults with a log line rather than refusing to start.
func Load() Config {
	path := os.Getenv("GEOFENCE_CONFIG")
	if path == "" {
		return DefaultConfig()
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		log.Printf("[geofence] %v; using default config", err)
		return DefaultConfig()
	}
	return cfg
}
