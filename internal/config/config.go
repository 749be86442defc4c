package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bestweather/finder/internal/domain"
)

// Gazetteer backends
const (
	GazetteerOverpass = "overpass"
	GazetteerPostgres = "postgres"
	GazetteerMock     = "mock"
)

// Config holds all application configuration
type Config struct {
	Port string
	Env  string

	OpenWeatherAPIKey string
	OpenWeatherURL    string
	OverpassURL       string
	DatabaseURL       string
	Gazetteer         string

	UpstreamTimeout time.Duration
	RunTimeout      time.Duration
	ForecastRPS     float64
	OverpassRPS     float64
	RateBurst       int

	Finder FinderConfig
}

// FinderConfig holds query limits and defaults
type FinderConfig struct {
	DefaultRadiusKm      float64
	MaxRadiusKm          float64
	DefaultMinPopulation int
	MaxDaysAhead         int
	MatchPolicy          string
	DefaultWeights       domain.Weights
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("GO_ENV", "development"),
		OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		OpenWeatherURL:    getEnv("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5"),
		OverpassURL:       getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		Gazetteer:         getEnv("GAZETTEER", ""),
		UpstreamTimeout:   getEnvAsDuration("UPSTREAM_TIMEOUT", 8*time.Second),
		RunTimeout:        getEnvAsDuration("RUN_TIMEOUT", 2*time.Minute),
		ForecastRPS:       getEnvAsFloat("FORECAST_RPS", 1.0),
		OverpassRPS:       getEnvAsFloat("OVERPASS_RPS", 0.5),
		RateBurst:         getEnvAsInt("RATE_BURST", 2),
		Finder: FinderConfig{
			DefaultRadiusKm:      getEnvAsFloat("DEFAULT_RADIUS_KM", 5),
			MaxRadiusKm:          getEnvAsFloat("MAX_RADIUS_KM", 100),
			DefaultMinPopulation: getEnvAsInt("DEFAULT_MIN_POPULATION", 500),
			MaxDaysAhead:         getEnvAsInt("MAX_DAYS_AHEAD", 5),
			MatchPolicy:          getEnv("MATCH_POLICY", "calendar"),
			DefaultWeights: domain.Weights{
				Temp: getEnvAsFloat("WEIGHT_TEMP", domain.DefaultWeights.Temp),
				Wind: getEnvAsFloat("WEIGHT_WIND", domain.DefaultWeights.Wind),
				Rain: getEnvAsFloat("WEIGHT_RAIN", domain.DefaultWeights.Rain),
			},
		},
	}

	if cfg.Gazetteer == "" {
		cfg.Gazetteer = GazetteerOverpass
		if cfg.DatabaseURL != "" {
			cfg.Gazetteer = GazetteerPostgres
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks if config is valid
func (c *Config) Validate() error {
	switch c.Gazetteer {
	case GazetteerOverpass, GazetteerPostgres, GazetteerMock:
	default:
		return fmt.Errorf("config: unknown gazetteer %q", c.Gazetteer)
	}
	if c.Gazetteer == GazetteerPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("config: gazetteer %q requires DATABASE_URL", c.Gazetteer)
	}
	switch c.Finder.MatchPolicy {
	case "calendar", "daylight":
	default:
		return fmt.Errorf("config: unknown match policy %q", c.Finder.MatchPolicy)
	}
	if c.UpstreamTimeout <= 0 || c.RunTimeout <= 0 {
		return fmt.Errorf("config: timeouts must be positive")
	}
	if c.ForecastRPS <= 0 || c.OverpassRPS <= 0 || c.RateBurst < 1 {
		return fmt.Errorf("config: rate limits must be positive")
	}
	if c.Finder.MaxRadiusKm <= 0 || c.Finder.DefaultRadiusKm < 0 || c.Finder.DefaultRadiusKm > c.Finder.MaxRadiusKm {
		return fmt.Errorf("config: default radius %.1f outside [0, %.1f]", c.Finder.DefaultRadiusKm, c.Finder.MaxRadiusKm)
	}
	if c.Finder.MaxDaysAhead < 0 {
		return fmt.Errorf("config: MAX_DAYS_AHEAD must not be negative")
	}
	if err := c.Finder.DefaultWeights.Validate(); err != nil {
		return fmt.Errorf("config: default weights: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
