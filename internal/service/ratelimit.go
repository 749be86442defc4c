package service

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/bestweather/finder/internal/domain"
)

// RateLimitedForecaster wraps a ForecastProvider with a token bucket
type RateLimitedForecaster struct {
	provider ForecastProvider
	limiter  *rate.Limiter
}

// NewRateLimitedForecaster allows rps requests per second with the given burst
func NewRateLimitedForecaster(provider ForecastProvider, rps float64, burst int) *RateLimitedForecaster {
	return &RateLimitedForecaster{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Fetch waits for a token, then forwards to the wrapped provider.
// A wait that cannot finish before the context deadline counts as a timeout.
func (r *RateLimitedForecaster) Fetch(ctx context.Context, lat, lon float64) (domain.Forecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.Forecast{}, fmt.Errorf("forecast: rate limit wait: %w: %w", domain.ErrUpstreamTimeout, err)
	}
	return r.provider.Fetch(ctx, lat, lon)
}

var _ ForecastProvider = (*RateLimitedForecaster)(nil)
