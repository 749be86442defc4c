package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bestweather/finder/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GAZETTEER", "UPSTREAM_TIMEOUT", "MATCH_POLICY", "WEIGHT_TEMP", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Gazetteer != GazetteerOverpass {
		t.Errorf("port=%s gazetteer=%s", cfg.Port, cfg.Gazetteer)
	}
	if cfg.UpstreamTimeout != 8*time.Second {
		t.Errorf("upstream timeout = %v", cfg.UpstreamTimeout)
	}
	if cfg.Finder.DefaultWeights != domain.DefaultWeights {
		t.Errorf("weights = %+v", cfg.Finder.DefaultWeights)
	}
	if cfg.Finder.DefaultMinPopulation != 500 || cfg.Finder.MaxRadiusKm != 100 {
		t.Errorf("finder = %+v", cfg.Finder)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GAZETTEER", "mock")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("MATCH_POLICY", "daylight")
	t.Setenv("WEIGHT_RAIN", "2")
	t.Setenv("MAX_DAYS_AHEAD", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.Gazetteer != GazetteerMock || cfg.UpstreamTimeout != 3*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Finder.MatchPolicy != "daylight" || cfg.Finder.DefaultWeights.Rain != 2 {
		t.Errorf("finder = %+v", cfg.Finder)
	}
	if cfg.Finder.MaxDaysAhead != 5 {
		t.Errorf("unparsable int should fall back to default, got %d", cfg.Finder.MaxDaysAhead)
	}
}

func TestLoadPicksPostgresWithDatabaseURL(t *testing.T) {
	t.Setenv("GAZETTEER", "")
	t.Setenv("DATABASE_URL", "postgres://places@localhost/places")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gazetteer != GazetteerPostgres {
		t.Errorf("gazetteer = %s, want postgres", cfg.Gazetteer)
	}

	t.Setenv("GAZETTEER", "overpass")
	if cfg, _ := Load(); cfg.Gazetteer != GazetteerOverpass {
		t.Errorf("explicit gazetteer overridden: %s", cfg.Gazetteer)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("GAZETTEER", "")
	t.Setenv("DATABASE_URL", "")
	base, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"gazetteer", func(c *Config) { c.Gazetteer = "nominatim" }, "unknown gazetteer"},
		{"postgres without url", func(c *Config) { c.Gazetteer = GazetteerPostgres }, "requires DATABASE_URL"},
		{"policy", func(c *Config) { c.Finder.MatchPolicy = "sunrise" }, "unknown match policy"},
		{"timeout", func(c *Config) { c.UpstreamTimeout = 0 }, "timeouts"},
		{"rate", func(c *Config) { c.RateBurst = 0 }, "rate limits"},
		{"radius", func(c *Config) { c.Finder.DefaultRadiusKm = 500 }, "default radius"},
		{"weights", func(c *Config) { c.Finder.DefaultWeights = domain.Weights{} }, "default weights"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.mutate(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want %q", err, tt.want)
			}
		})
	}

	c := *base
	c.Finder.DefaultWeights = domain.Weights{}
	if err := c.Validate(); !errors.Is(err, domain.ErrInvalidWeights) {
		t.Fatalf("weights error not wrapped: %v", err)
	}
}
