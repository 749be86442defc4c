package domain

import "context"

// Geocoder resolves a place name to zero or more matching places
type Geocoder interface {
	Resolve(ctx context.Context, name string) ([]Place, error)
}

// SettlementSource lists populated places around a point.
// Population is left unparsed; callers apply the population floor.
type SettlementSource interface {
	Enumerate(ctx context.Context, lat, lon, radiusKm float64) ([]Settlement, error)
}

// Gazetteer combines both lookups, which every backend here provides together
type Gazetteer interface {
	Geocoder
	SettlementSource

	// Health checks backend connectivity
	Health(ctx context.Context) error
}

// ForecastProvider fetches a multi-day forecast for a coordinate
type ForecastProvider interface {
	Fetch(ctx context.Context, lat, lon float64) (Forecast, error)
}
