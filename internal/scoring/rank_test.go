package scoring

import (
	"errors"
	"testing"

	"github.com/bestweather/finder/internal/domain"
)

// forecastScoring builds a forecast that scores exactly want under temp-only weights
func forecastScoring(want float64) domain.Forecast {
	switch want {
	case 1:
		return domain.Forecast{Entries: []domain.ForecastEntry{entry(12, 30, 0, 0)}}
	case 0.5:
		return domain.Forecast{Entries: []domain.ForecastEntry{entry(12, 22, 0, 0)}}
	case 0.25:
		return domain.Forecast{Entries: []domain.ForecastEntry{entry(9, 22, 0, 0), entry(12, 10, 0, 0)}}
	default:
		return domain.Forecast{Entries: []domain.ForecastEntry{entry(12, 5, 0, 0)}}
	}
}

func candidate(name string, score float64) domain.Candidate {
	return domain.Candidate{Location: domain.Location{Name: name}, Forecast: forecastScoring(score)}
}

func TestRankEmpty(t *testing.T) {
	_, err := Rank(nil, domain.DefaultWeights, day)
	if !errors.Is(err, domain.ErrNoCandidates) {
		t.Fatalf("err = %v, want ErrNoCandidates", err)
	}
}

func TestRankHighlightsByValue(t *testing.T) {
	w := domain.Weights{Temp: 1}
	ranking, err := Rank([]domain.Candidate{
		candidate("Low", 0.25),
		candidate("First", 1),
		candidate("Second", 1),
	}, w, day)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	if ranking.MaxScore != 1 {
		t.Fatalf("max = %v, want 1", ranking.MaxScore)
	}
	if ranking.Best != "First" {
		t.Fatalf("best = %q, want First", ranking.Best)
	}
	want := map[string]bool{"Low": false, "First": true, "Second": true}
	for _, r := range ranking.Results {
		if r.Highlight != want[r.Location.Name] {
			t.Errorf("%s highlight = %v, want %v", r.Location.Name, r.Highlight, want[r.Location.Name])
		}
	}
	if ranking.Results[0].Score != 0.25 {
		t.Errorf("results not in input order: %+v", ranking.Results)
	}
}

func TestRankAllZeroHasNoBest(t *testing.T) {
	ranking, err := Rank([]domain.Candidate{candidate("A", 0), candidate("B", 0)}, domain.Weights{Temp: 1}, day)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if ranking.Best != "" || ranking.MaxScore != 0 {
		t.Fatalf("best = %q max = %v, want none", ranking.Best, ranking.MaxScore)
	}
	for _, r := range ranking.Results {
		if r.Highlight {
			t.Errorf("%s highlighted with zero score", r.Location.Name)
		}
	}
}

func TestRankPropagatesHomeFlag(t *testing.T) {
	c := candidate("Home", 0.5)
	c.IsHome = true
	ranking, err := Rank([]domain.Candidate{c, candidate("Other", 0.25)}, domain.Weights{Temp: 1}, day)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if !ranking.Results[0].IsHome || ranking.Results[1].IsHome {
		t.Fatalf("home flags = %v, %v", ranking.Results[0].IsHome, ranking.Results[1].IsHome)
	}
}

func TestRankInvalidWeights(t *testing.T) {
	_, err := Rank([]domain.Candidate{candidate("A", 1)}, domain.Weights{}, day)
	if !errors.Is(err, domain.ErrInvalidWeights) {
		t.Fatalf("err = %v, want ErrInvalidWeights", err)
	}
}
