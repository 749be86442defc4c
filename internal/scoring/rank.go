package scoring

import (
	"fmt"
	"time"

	"github.com/bestweather/finder/internal/domain"
)

// Rank scores every candidate once, in input order.
//
// Best is the first candidate to strictly exceed the running maximum, which
// starts at 0, so an all-zero field has no best. Highlight is set by value:
// every result equal to a positive MaxScore is highlighted.
func (s *Scorer) Rank(candidates []domain.Candidate, w domain.Weights, target time.Time) (domain.Ranking, error) {
	if len(candidates) == 0 {
		return domain.Ranking{}, domain.ErrNoCandidates
	}

	ranking := domain.Ranking{Results: make([]domain.ScoredLocation, 0, len(candidates))}
	for _, c := range candidates {
		score, err := s.Score(c.Forecast, w, target)
		if err != nil {
			return domain.Ranking{}, fmt.Errorf("scoring %s: %w", c.Location.Name, err)
		}
		if score > ranking.MaxScore {
			ranking.MaxScore = score
			ranking.Best = c.Location.Name
		}
		ranking.Results = append(ranking.Results, domain.ScoredLocation{
			Location: c.Location,
			Score:    score,
			IsHome:   c.IsHome,
		})
	}

	if ranking.MaxScore > 0 {
		for i := range ranking.Results {
			ranking.Results[i].Highlight = ranking.Results[i].Score == ranking.MaxScore
		}
	}
	return ranking, nil
}

// Rank uses the calendar-day policy
func Rank(candidates []domain.Candidate, w domain.Weights, target time.Time) (domain.Ranking, error) {
	return NewScorer(CalendarDay{}).Rank(candidates, w, target)
}
