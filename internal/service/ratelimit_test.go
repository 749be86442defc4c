package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bestweather/finder/internal/domain"
)

func TestRateLimitedForecaster(t *testing.T) {
	inner := &fakeForecasts{byLat: map[float64]domain.Forecast{1: {IsMock: true}}}
	limited := NewRateLimitedForecaster(inner, 0.01, 1)

	f, err := limited.Fetch(context.Background(), 1, 1)
	if err != nil || !f.IsMock {
		t.Fatalf("first fetch = %+v, %v", f, err)
	}

	// the bucket is empty and refills every 100s, far beyond the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.Fetch(ctx, 1, 1)
	if !errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Fatalf("err = %v, want ErrUpstreamTimeout", err)
	}
	if len(inner.fetched) != 1 {
		t.Fatalf("inner provider called %d times", len(inner.fetched))
	}
}
