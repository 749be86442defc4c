package domain

import "time"

// ForecastEntry is one timestamped prediction inside a multi-day forecast
type ForecastEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"` // °C
	WindSpeed   float64   `json:"wind_speed"`  // m/s
	Rain        float64   `json:"rain"`        // mm over the preceding window, 0 when absent
}

// Forecast is the ordered forecast of a single location
type Forecast struct {
	Location Location        `json:"location"`
	Entries  []ForecastEntry `json:"entries"`
	Sunrise  time.Time       `json:"sunrise"`
	Sunset   time.Time       `json:"sunset"`
	IsMock   bool            `json:"is_mock"`
}

// Weights expresses how much the user cares about each weather dimension
type Weights struct {
	Temp float64 `json:"temp"`
	Wind float64 `json:"wind"`
	Rain float64 `json:"rain"`
}

// DefaultWeights favours temperature, then wind, then rain
var DefaultWeights = Weights{Temp: 0.5, Wind: 0.3, Rain: 0.2}

// Sum returns the total of all three weights
func (w Weights) Sum() float64 {
	return w.Temp + w.Wind + w.Rain
}

// Validate reports ErrInvalidWeights for negative weights or a zero sum.
func (w Weights) Validate() error {
	if w.Temp < 0 || w.Wind < 0 || w.Rain < 0 {
		return ErrInvalidWeights
	}
	if w.Sum() <= 0 {
		return ErrInvalidWeights
	}
	return nil
}

// Normalize rescales the weights so that they sum to 1
func (w Weights) Normalize() (Weights, error) {
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	sum := w.Sum()
	return Weights{Temp: w.Temp / sum, Wind: w.Wind / sum, Rain: w.Rain / sum}, nil
}

// TargetDate returns midnight UTC of the day daysAhead after now
func TargetDate(now time.Time, daysAhead int) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d+daysAhead, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar date
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
