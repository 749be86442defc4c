package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/bestweather/finder/internal/config"
	"github.com/bestweather/finder/internal/delivery/http"
	"github.com/bestweather/finder/internal/domain"
	"github.com/bestweather/finder/internal/repository/postgres"
	"github.com/bestweather/finder/internal/scoring"
	"github.com/bestweather/finder/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Gazetteer backend
	gazetteer, closeGazetteer := openGazetteer(cfg)
	defer closeGazetteer()

	// Dependency Injection: Services
	forecasts := service.NewRateLimitedForecaster(
		service.NewForecastService(cfg.OpenWeatherAPIKey, cfg.OpenWeatherURL, cfg.UpstreamTimeout),
		cfg.ForecastRPS, cfg.RateBurst,
	)
	if cfg.OpenWeatherAPIKey == "" {
		log.Println("Warning: OPENWEATHER_API_KEY not set, serving simulated forecasts")
	}

	policy, ok := scoring.PolicyByName(cfg.Finder.MatchPolicy)
	if !ok {
		log.Fatalf("Unknown match policy %q", cfg.Finder.MatchPolicy)
	}
	finder := service.NewFinder(gazetteer, gazetteer, forecasts, scoring.NewScorer(policy), service.Limits{
		MaxRadiusKm:     cfg.Finder.MaxRadiusKm,
		MaxDaysAhead:    cfg.Finder.MaxDaysAhead,
		UpstreamTimeout: cfg.UpstreamTimeout,
	})

	handler := http.NewHandler(finder, gazetteer, http.Defaults{
		RadiusKm:      cfg.Finder.DefaultRadiusKm,
		MaxRadiusKm:   cfg.Finder.MaxRadiusKm,
		MinPopulation: cfg.Finder.DefaultMinPopulation,
		MaxDaysAhead:  cfg.Finder.MaxDaysAhead,
		Weights:       cfg.Finder.DefaultWeights,
	}, cfg.RunTimeout)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Best Weather Finder v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RunTimeout + 5*time.Second,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, handler)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s (%s, gazetteer=%s, policy=%s)", cfg.Port, cfg.Env, cfg.Gazetteer, policy.Name())
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

// openGazetteer picks the place backend. A failing database falls back to
// the mock data set so the UI stays usable in development.
func openGazetteer(cfg *config.Config) (domain.Gazetteer, func()) {
	switch cfg.Gazetteer {
	case config.GazetteerMock:
		log.Println("Using mock gazetteer")
		return postgres.NewMockGazetteer(), func() {}

	case config.GazetteerPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			err = pool.Ping(ctx)
		}
		if err != nil {
			log.Printf("Warning: Could not connect to database: %v", err)
			log.Println("Running with mock data only")
			if pool != nil {
				pool.Close()
			}
			return postgres.NewMockGazetteer(), func() {}
		}
		log.Println("Connected to PostgreSQL")

		g := postgres.NewGazetteer(pool)
		if err := g.EnsureSchema(ctx); err != nil {
			log.Printf("Warning: Could not ensure places schema: %v", err)
		}
		return g, pool.Close

	default:
		return service.NewOverpassService(cfg.OverpassURL, cfg.UpstreamTimeout, cfg.OverpassRPS, cfg.RateBurst), func() {}
	}
}
