package service

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/bestweather/finder/internal/domain"
)

// Collaborator contracts are defined in domain and re-exported here for convenience
type (
	Geocoder         = domain.Geocoder
	SettlementSource = domain.SettlementSource
	ForecastProvider = domain.ForecastProvider
)

// upstreamError tags a failed external call as a timeout or a generic upstream failure
func upstreamError(op string, err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstream, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
