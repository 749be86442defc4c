package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bestweather/finder/internal/domain"
	"github.com/bestweather/finder/internal/scoring"
	"github.com/bestweather/finder/pkg/utils"
)

// Query holds the user's search constraints for one run
type Query struct {
	RadiusKm      float64        `json:"radius_km"`
	MinPopulation int            `json:"min_population"`
	DaysAhead     int            `json:"days_ahead"`
	Weights       domain.Weights `json:"weights"`
}

// Limits bounds accepted queries and external calls
type Limits struct {
	MaxRadiusKm     float64
	MaxDaysAhead    int
	UpstreamTimeout time.Duration
}

// ProgressFunc is called before each forecast fetch, done counts from 1
type ProgressFunc func(sessionID string, done, total int, name string)

// Finder sequences geocoding, enumeration, forecast fetching and ranking
type Finder struct {
	geocoder    Geocoder
	settlements SettlementSource
	forecasts   ForecastProvider
	scorer      *scoring.Scorer
	limits      Limits
	progress    ProgressFunc
	now         func() time.Time
}

// NewFinder creates a new finder
func NewFinder(
	geocoder Geocoder,
	settlements SettlementSource,
	forecasts ForecastProvider,
	scorer *scoring.Scorer,
	limits Limits,
) *Finder {
	return &Finder{
		geocoder:    geocoder,
		settlements: settlements,
		forecasts:   forecasts,
		scorer:      scorer,
		limits:      limits,
		progress:    logProgress,
		now:         time.Now,
	}
}

// OnProgress replaces the default progress logger
func (f *Finder) OnProgress(fn ProgressFunc) {
	if fn == nil {
		fn = func(string, int, int, string) {}
	}
	f.progress = fn
}

func logProgress(sessionID string, done, total int, name string) {
	log.Printf("finder[%s]: forecast %d/%d for %s", shortID(sessionID), done, total, name)
}

// Resolve starts a session and geocodes its place name
func (f *Finder) Resolve(ctx context.Context, name string) domain.Session {
	s := domain.NewSession(name)
	if s.Terminal() {
		return s
	}

	callCtx, cancel := context.WithTimeout(ctx, f.limits.UpstreamTimeout)
	places, err := f.geocoder.Resolve(callCtx, s.Name)
	cancel()
	if err != nil {
		return f.fail(s, err)
	}

	next, err := s.Resolved(places)
	if err != nil {
		return f.fail(s, err)
	}
	log.Printf("finder[%s]: %q resolved to %d match(es)", shortID(s.ID), s.Name, len(places))
	return next
}

// Find resolves name and, once a single home location is known, runs the search.
// choice picks among homonyms; nil leaves an ambiguous session awaiting disambiguation.
func (f *Finder) Find(ctx context.Context, name string, choice *int, q Query) domain.Session {
	if _, err := f.validate(q); err != nil {
		s := domain.NewSession(name)
		if s.Terminal() {
			return s
		}
		return f.fail(s, err)
	}

	s := f.Resolve(ctx, name)
	if s.State == domain.StateAwaitingDisambiguation {
		if choice == nil {
			return s
		}
		chosen, err := s.Choose(*choice)
		if err != nil {
			return f.fail(s, err)
		}
		s = chosen
	}
	if s.State != domain.StateLocationResolved {
		return s
	}
	return f.Run(ctx, s, q)
}

// Run enumerates candidates around the resolved home, fetches forecasts one
// location at a time and ranks them. Any failure ends the run without results.
func (f *Finder) Run(ctx context.Context, s domain.Session, q Query) domain.Session {
	if s.Terminal() {
		return s
	}
	scoringState, err := s.BeginScoring()
	if err != nil {
		return f.fail(s, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err))
	}
	s = scoringState

	weights, err := f.validate(q)
	if err != nil {
		return f.fail(s, err)
	}
	home := *s.Home
	target := domain.TargetDate(f.now(), q.DaysAhead)

	callCtx, cancel := context.WithTimeout(ctx, f.limits.UpstreamTimeout)
	settlements, err := f.settlements.Enumerate(callCtx, home.Latitude, home.Longitude, q.RadiusKm)
	cancel()
	if err != nil {
		return f.fail(s, err)
	}

	locations := candidateLocations(home, settlements, q.MinPopulation)
	if len(locations) < 2 {
		return f.fail(s, fmt.Errorf("%w: radius %.0f km, population above %d", domain.ErrNoCandidates, q.RadiusKm, q.MinPopulation))
	}

	candidates := make([]domain.Candidate, 0, len(locations))
	isMock := false
	for i, loc := range locations {
		f.progress(s.ID, i+1, len(locations), loc.Name)

		callCtx, cancel := context.WithTimeout(ctx, f.limits.UpstreamTimeout)
		forecast, err := f.forecasts.Fetch(callCtx, loc.Latitude, loc.Longitude)
		cancel()
		if err != nil {
			return f.fail(s, fmt.Errorf("fetching forecast for %s: %w", loc.Name, err))
		}
		isMock = isMock || forecast.IsMock
		candidates = append(candidates, domain.Candidate{Location: loc, Forecast: forecast, IsHome: i == 0})
	}

	ranking, err := f.scorer.Rank(candidates, weights, target)
	if err != nil {
		return f.fail(s, err)
	}
	for i := range ranking.Results {
		loc := ranking.Results[i].Location
		ranking.Results[i].DistanceKm = utils.RoundTo(utils.Haversine(home.Latitude, home.Longitude, loc.Latitude, loc.Longitude), 2)
	}

	done, err := s.Complete(domain.Report{
		Home:        home,
		TargetDate:  target,
		DaysAhead:   q.DaysAhead,
		RadiusKm:    q.RadiusKm,
		Weights:     weights,
		MatchPolicy: f.scorer.Policy().Name(),
		Results:     ranking.Results,
		MaxScore:    ranking.MaxScore,
		Best:        ranking.Best,
		GeneratedAt: f.now().UTC(),
		IsMock:      isMock,
	})
	if err != nil {
		return f.fail(s, err)
	}
	log.Printf("finder[%s]: ranked %d locations around %s, best %q (%.2f)",
		shortID(s.ID), len(ranking.Results), home.Name, ranking.Best, ranking.MaxScore)
	return done
}

// validate rejects out-of-range queries and returns normalized weights
func (f *Finder) validate(q Query) (domain.Weights, error) {
	if q.RadiusKm < 0 || q.RadiusKm > f.limits.MaxRadiusKm {
		return domain.Weights{}, fmt.Errorf("%w: radius %.1f km outside [0, %.0f]", domain.ErrInvalidQuery, q.RadiusKm, f.limits.MaxRadiusKm)
	}
	if q.MinPopulation < 0 {
		return domain.Weights{}, fmt.Errorf("%w: negative population floor", domain.ErrInvalidQuery)
	}
	if q.DaysAhead < 0 || q.DaysAhead > f.limits.MaxDaysAhead {
		return domain.Weights{}, fmt.Errorf("%w: days ahead %d outside [0, %d]", domain.ErrInvalidQuery, q.DaysAhead, f.limits.MaxDaysAhead)
	}
	return q.Weights.Normalize()
}

func (f *Finder) fail(s domain.Session, err error) domain.Session {
	if domain.KindOf(err) == domain.FailureInternal && isTimeout(err) {
		err = fmt.Errorf("%w: %w", domain.ErrUpstreamTimeout, err)
	}
	failed, ferr := s.Fail(err)
	if ferr != nil {
		return s
	}
	log.Printf("finder[%s]: run failed (%s): %v", shortID(s.ID), failed.Failure.Kind, err)
	return failed
}

// candidateLocations puts home first, then every settlement whose parsed
// population is strictly above the floor. Names are unique within the set.
func candidateLocations(home domain.Location, settlements []domain.Settlement, minPopulation int) []domain.Location {
	seen := map[string]struct{}{strings.ToLower(home.Name): {}}
	out := []domain.Location{home}
	for _, st := range settlements {
		if scoring.ParsePopulation(st.RawPopulation) <= minPopulation {
			continue
		}
		key := strings.ToLower(st.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, st.Location)
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
