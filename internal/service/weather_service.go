package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bestweather/finder/internal/domain"
	"github.com/bestweather/finder/pkg/utils"
)

// ForecastService fetches 5-day / 3-hour forecasts from OpenWeatherMap
type ForecastService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewForecastService creates a new forecast service.
// Without an API key it serves synthetic forecasts flagged IsMock.
func NewForecastService(apiKey, baseURL string, timeout time.Duration) *ForecastService {
	return &ForecastService{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// OpenWeatherForecastResponse represents the OpenWeatherMap /forecast response
type OpenWeatherForecastResponse struct {
	City struct {
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Rain *struct {
			ThreeHours float64 `json:"3h"`
		} `json:"rain,omitempty"`
	} `json:"list"`
}

// Fetch returns the forecast for a coordinate
func (s *ForecastService) Fetch(ctx context.Context, lat, lon float64) (domain.Forecast, error) {
	if s.apiKey == "" {
		return s.mockForecast(lat, lon), nil
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 5, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 5, 64))
	params.Set("appid", s.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/forecast?"+params.Encode(), nil)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("forecast: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.Forecast{}, upstreamError("forecast", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Forecast{}, fmt.Errorf("forecast: %w: status %d: %s", domain.ErrUpstream, resp.StatusCode, body)
	}

	var owResp OpenWeatherForecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		if isTimeout(err) {
			return domain.Forecast{}, upstreamError("forecast", err)
		}
		return domain.Forecast{}, fmt.Errorf("forecast: failed to decode response: %w: %w", domain.ErrUpstream, err)
	}

	forecast := domain.Forecast{
		Location: domain.Location{
			Name:      owResp.City.Name,
			Latitude:  owResp.City.Coord.Lat,
			Longitude: owResp.City.Coord.Lon,
		},
		Entries: make([]domain.ForecastEntry, 0, len(owResp.List)),
	}
	if owResp.City.Sunrise > 0 {
		forecast.Sunrise = time.Unix(owResp.City.Sunrise, 0).UTC()
	}
	if owResp.City.Sunset > 0 {
		forecast.Sunset = time.Unix(owResp.City.Sunset, 0).UTC()
	}

	for _, item := range owResp.List {
		entry := domain.ForecastEntry{
			Timestamp:   time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
			WindSpeed:   item.Wind.Speed,
		}
		if item.Rain != nil {
			entry.Rain = item.Rain.ThreeHours
		}
		forecast.Entries = append(forecast.Entries, entry)
	}

	return forecast, nil
}

// mockForecast returns a deterministic 5-day forecast in 3-hour steps.
// Values follow the season, the time of day and a per-coordinate offset so
// that neighbouring towns differ.
func (s *ForecastService) mockForecast(lat, lon float64) domain.Forecast {
	now := s.now().UTC()
	start := now.Truncate(3 * time.Hour).Add(3 * time.Hour)

	var base float64
	switch month := now.Month(); {
	case month >= 12 || month <= 2:
		base = 2
	case month >= 3 && month <= 5:
		base = 13
	case month >= 6 && month <= 8:
		base = 23
	default:
		base = 11
	}
	if lat < 0 {
		base = 25 - base
	}

	// pseudo-random but stable in [-1, 1]
	_, offset := math.Modf(math.Sin(lat*12.9898+lon*78.233) * 43758.5453)
	offset = offset*2 - math.Copysign(1, offset)

	entries := make([]domain.ForecastEntry, 0, 40)
	for i := 0; i < 40; i++ {
		ts := start.Add(time.Duration(i) * 3 * time.Hour)
		hour := float64(ts.Hour()) + lon/15
		diurnal := math.Sin(2 * math.Pi * (hour - 9) / 24)
		drift := math.Sin(float64(i)/6 + offset*3)

		entries = append(entries, domain.ForecastEntry{
			Timestamp:   ts,
			Temperature: utils.RoundTo(base+6*diurnal+4*offset+2*drift, 1),
			WindSpeed:   utils.RoundTo(utils.Clamp(5+3*offset-2*drift, 0, 25), 1),
			Rain:        utils.RoundTo(math.Max(0, 4*drift-2*offset), 1),
		})
	}

	y, m, d := now.Date()
	return domain.Forecast{
		Location: domain.Location{Latitude: lat, Longitude: lon},
		Entries:  entries,
		Sunrise:  time.Date(y, m, d, 5, 0, 0, 0, time.UTC),
		Sunset:   time.Date(y, m, d, 19, 0, 0, 0, time.UTC),
		IsMock:   true,
	}
}
