package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bestweather/finder/internal/domain"
	"github.com/bestweather/finder/pkg/utils"
)

// settlementKinds limits lookups to the same place types as the Overpass backend
var settlementKinds = []string{"city", "town", "village"}

const schema = `
	CREATE TABLE IF NOT EXISTS places (
		id              BIGSERIAL PRIMARY KEY,
		name            TEXT NOT NULL,
		place           TEXT NOT NULL,
		lat             DOUBLE PRECISION NOT NULL,
		lon             DOUBLE PRECISION NOT NULL,
		population_text TEXT,
		region          TEXT NOT NULL DEFAULT '',
		country         TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS places_lower_name_idx ON places (lower(name));
	CREATE INDEX IF NOT EXISTS places_lat_lon_idx ON places (lat, lon);
	CREATE UNIQUE INDEX IF NOT EXISTS places_identity_idx ON places (name, place, lat, lon);
`

// Gazetteer implements domain.Gazetteer over a local places table,
// typically imported from an OpenStreetMap extract
type Gazetteer struct {
	pool *pgxpool.Pool
}

// NewGazetteer creates a new PostgreSQL gazetteer
func NewGazetteer(pool *pgxpool.Pool) *Gazetteer {
	return &Gazetteer{pool: pool}
}

// EnsureSchema creates the places table if it does not exist
func (g *Gazetteer) EnsureSchema(ctx context.Context) error {
	if _, err := g.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to create schema: %w", err)
	}
	return nil
}

// Resolve finds settlements named exactly name, ignoring case
func (g *Gazetteer) Resolve(ctx context.Context, name string) ([]domain.Place, error) {
	query := `
		SELECT name, lat, lon, place, region, country
		FROM places
		WHERE lower(name) = lower($1) AND place = ANY($2)
		ORDER BY id
		LIMIT 50
	`

	rows, err := g.pool.Query(ctx, query, name, settlementKinds)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query places: %w", err)
	}
	defer rows.Close()

	var results []domain.Place
	for rows.Next() {
		var p domain.Place
		var kind, region, country string
		if err := rows.Scan(&p.Name, &p.Latitude, &p.Longitude, &kind, &region, &country); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan place row: %w", err)
		}
		p.Hint = hint(region, country, kind)
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read places: %w", err)
	}

	return results, nil
}

// Enumerate lists settlements with a population within radiusKm.
// The bounding box narrows the scan; the exact radius is applied afterwards.
func (g *Gazetteer) Enumerate(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Settlement, error) {
	minLat, minLon, maxLat, maxLon := utils.BoundingBox(lat, lon, radiusKm)
	query := `
		SELECT name, lat, lon, population_text
		FROM places
		WHERE place = ANY($1)
		  AND population_text IS NOT NULL
		  AND lat BETWEEN $2 AND $3
		  AND lon BETWEEN $4 AND $5
		ORDER BY id
	`

	rows, err := g.pool.Query(ctx, query, settlementKinds, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query settlements: %w", err)
	}
	defer rows.Close()

	var results []domain.Settlement
	for rows.Next() {
		var s domain.Settlement
		if err := rows.Scan(&s.Name, &s.Latitude, &s.Longitude, &s.RawPopulation); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan settlement row: %w", err)
		}
		if utils.Haversine(lat, lon, s.Latitude, s.Longitude) > radiusKm {
			continue
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read settlements: %w", err)
	}

	return results, nil
}

const insertPlace = `
	INSERT INTO places (name, place, lat, lon, population_text, region, country)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
	ON CONFLICT (name, place, lat, lon) DO NOTHING
`

// Insert adds a settlement row; an identical place is left as is
func (g *Gazetteer) Insert(ctx context.Context, s domain.Settlement, kind, region, country string) error {
	_, err := g.pool.Exec(ctx, insertPlace, s.Name, kind, s.Latitude, s.Longitude, s.RawPopulation, region, country)
	if err != nil {
		return fmt.Errorf("postgres: failed to insert place %q: %w", s.Name, err)
	}
	return nil
}

// Import loads harvested entries in one batch and returns how many rows were new
func (g *Gazetteer) Import(ctx context.Context, entries []domain.GazetteerEntry) (int, error) {
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(insertPlace, e.Name, e.Kind, e.Latitude, e.Longitude, e.RawPopulation, e.Region, e.Country)
	}

	br := g.pool.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for _, e := range entries {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("postgres: failed to import place %q: %w", e.Name, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// Health checks database connectivity
func (g *Gazetteer) Health(ctx context.Context) error {
	if err := g.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

func hint(region, country, kind string) string {
	var parts []string
	for _, p := range []string{region, country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	h := strings.Join(parts, ", ")
	switch {
	case kind == "":
		return h
	case h == "":
		return kind
	default:
		return h + " (" + kind + ")"
	}
}

var _ domain.Gazetteer = (*Gazetteer)(nil)
