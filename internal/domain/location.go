package domain

import "time"

// Location is a named point in decimal degrees
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Place is a geocoding match for a user-entered name
type Place struct {
	Location
	Hint string `json:"hint,omitempty"` // region/country/place type, used to tell homonyms apart
}

// Settlement is a populated place returned by enumeration
type Settlement struct {
	Location
	RawPopulation string `json:"raw_population"`
	Population    int    `json:"population"`
}

// GazetteerEntry is a settlement with the attributes a local gazetteer stores
type GazetteerEntry struct {
	Settlement
	Kind    string `json:"kind"` // OSM place value: city, town or village
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// Candidate pairs a location with its forecast for ranking
type Candidate struct {
	Location Location
	Forecast Forecast
	IsHome   bool
}

// ScoredLocation is one ranked result
type ScoredLocation struct {
	Location   Location `json:"location"`
	Score      float64  `json:"score"`
	Highlight  bool     `json:"highlight"`
	IsHome     bool     `json:"is_home"`
	DistanceKm float64  `json:"distance_km"`
}

// Ranking is the output of the ranking reducer
type Ranking struct {
	Results  []ScoredLocation `json:"results"`
	MaxScore float64          `json:"max_score"`
	Best     string           `json:"best,omitempty"` // first location to reach MaxScore, empty when all scores are 0
}

// Report is everything presentation needs to render one run
type Report struct {
	Home        Location         `json:"home"`
	TargetDate  time.Time        `json:"target_date"`
	DaysAhead   int              `json:"days_ahead"`
	RadiusKm    float64          `json:"radius_km"`
	Weights     Weights          `json:"weights"`
	MatchPolicy string           `json:"match_policy"`
	Results     []ScoredLocation `json:"results"`
	MaxScore    float64          `json:"max_score"`
	Best        string           `json:"best,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
	IsMock      bool             `json:"is_mock"`
}
