package scoring

import (
	"time"

	"github.com/bestweather/finder/internal/domain"
)

// MatchPolicy decides which forecast entries count towards the target day
type MatchPolicy interface {
	Name() string
	Matches(f domain.Forecast, e domain.ForecastEntry, target time.Time) bool
}

// CalendarDay keeps entries whose UTC calendar date equals the target date
type CalendarDay struct{}

func (CalendarDay) Name() string { return "calendar" }

func (CalendarDay) Matches(_ domain.Forecast, e domain.ForecastEntry, target time.Time) bool {
	return domain.SameDay(e.Timestamp, target)
}

// Daylight keeps entries between sunrise and sunset of the forecast city.
// The sunrise time of day is moved onto the target date and the window keeps
// its real length, so daylight spanning UTC midnight stays one interval.
type Daylight struct{}

func (Daylight) Name() string { return "daylight" }

func (Daylight) Matches(f domain.Forecast, e domain.ForecastEntry, target time.Time) bool {
	if f.Sunrise.IsZero() || f.Sunset.IsZero() {
		return false
	}
	length := f.Sunset.Sub(f.Sunrise)
	if length <= 0 {
		// sunset reported for the previous day
		length += 24 * time.Hour
	}
	rise := onDate(f.Sunrise, target)
	set := rise.Add(length)
	ts := e.Timestamp.UTC()
	return !ts.Before(rise) && !ts.After(set)
}

func onDate(clock, date time.Time) time.Time {
	c := clock.UTC()
	y, m, d := date.UTC().Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
}

// PolicyByName returns the match policy with the given name
func PolicyByName(name string) (MatchPolicy, bool) {
	switch name {
	case "", "calendar":
		return CalendarDay{}, true
	case "daylight":
		return Daylight{}, true
	}
	return nil, false
}

// Scorer reduces a forecast to one desirability value in [0, 1]
type Scorer struct {
	policy MatchPolicy
}

// NewScorer creates a scorer; a nil policy means CalendarDay
func NewScorer(policy MatchPolicy) *Scorer {
	if policy == nil {
		policy = CalendarDay{}
	}
	return &Scorer{policy: policy}
}

// Policy returns the match policy in use
func (s *Scorer) Policy() MatchPolicy {
	return s.policy
}

// Score buckets every matching entry, averages each dimension and blends the
// averages by weight. No matching entry gives 0. Weights with a zero sum are a
// configuration error and yield domain.ErrInvalidWeights.
func (s *Scorer) Score(f domain.Forecast, w domain.Weights, target time.Time) (float64, error) {
	if err := w.Validate(); err != nil {
		return 0, err
	}

	var temp, wind, rain float64
	count := 0
	for _, e := range f.Entries {
		if !s.policy.Matches(f, e, target) {
			continue
		}
		temp += TempValue(e.Temperature)
		wind += WindValue(e.WindSpeed)
		rain += RainValue(e.Rain)
		count++
	}
	if count == 0 {
		return 0, nil
	}

	n := float64(count)
	total := w.Temp*(temp/n) + w.Wind*(wind/n) + w.Rain*(rain/n)
	return total / w.Sum(), nil
}

// Score uses the calendar-day policy
func Score(f domain.Forecast, w domain.Weights, target time.Time) (float64, error) {
	return NewScorer(CalendarDay{}).Score(f, w, target)
}

// TempValue: above 25°C is ideal, 20..25 acceptable
func TempValue(c float64) float64 {
	switch {
	case c > 25:
		return 1
	case c >= 20:
		return 0.5
	default:
		return 0
	}
}

// WindValue: below 5 is calm, 5..10 breezy
func WindValue(speed float64) float64 {
	switch {
	case speed < 5:
		return 1
	case speed < 10:
		return 0.5
	default:
		return 0
	}
}

// RainValue: dry is ideal, under 5mm tolerable
func RainValue(mm float64) float64 {
	switch {
	case mm == 0:
		return 1
	case mm < 5:
		return 0.5
	default:
		return 0
	}
}
