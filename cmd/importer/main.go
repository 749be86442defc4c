package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/bestweather/finder/internal/config"
	"github.com/bestweather/finder/internal/repository/postgres"
	"github.com/bestweather/finder/internal/service"
)

// importer fills the PostgreSQL places table from OpenStreetMap via Overpass.
//
//	importer -lat 50.7753 -lon 6.0839 -radius 50
func main() {
	lat := flag.Float64("lat", 0, "latitude of the area centre")
	lon := flag.Float64("lon", 0, "longitude of the area centre")
	radius := flag.Float64("radius", 50, "radius in km")
	timeout := flag.Duration("timeout", 3*time.Minute, "overall import timeout")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if *radius <= 0 {
		log.Fatal("radius must be positive")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer pool.Close()

	gazetteer := postgres.NewGazetteer(pool)
	if err := gazetteer.EnsureSchema(ctx); err != nil {
		log.Fatalf("Schema: %v", err)
	}

	// a large area can take the Overpass server well past the per-call default
	overpass := service.NewOverpassService(cfg.OverpassURL, *timeout, cfg.OverpassRPS, cfg.RateBurst)
	entries, err := overpass.Harvest(ctx, *lat, *lon, *radius)
	if err != nil {
		log.Fatalf("Overpass harvest failed: %v", err)
	}
	log.Printf("Fetched %d places within %.0f km of %.4f,%.4f", len(entries), *radius, *lat, *lon)

	n, err := gazetteer.Import(ctx, entries)
	if err != nil {
		log.Fatalf("Import failed after %d rows: %v", n, err)
	}
	log.Printf("Imported %d new places (%d already present)", n, len(entries)-n)
}
