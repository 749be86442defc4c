package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bestweather/finder/internal/domain"
)

// placeFilter selects the settlement kinds used for both lookups
const placeFilter = `["place"~"^(city|town|village)$"]`

// OverpassService resolves names and enumerates settlements from OpenStreetMap via Overpass
type OverpassService struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// NewOverpassService creates a new Overpass client.
// rps and burst bound the request rate against the public instance.
func NewOverpassService(endpoint string, timeout time.Duration, rps float64, burst int) *OverpassService {
	return &OverpassService{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		timeout: timeout,
	}
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// Resolve finds settlements named exactly name, ignoring case
func (s *OverpassService) Resolve(ctx context.Context, name string) ([]domain.Place, error) {
	query := fmt.Sprintf("[out:json][timeout:%d];\nnode%s[\"name\"~\"^%s$\",i];\nout body;",
		s.serverTimeout(), placeFilter, quoteRegex(name))

	elements, err := s.query(ctx, "resolve", query)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(elements))
	places := make([]domain.Place, 0, len(elements))
	for _, el := range elements {
		n := el.Tags["name"]
		if n == "" {
			continue
		}
		key := fmt.Sprintf("%s|%.4f|%.4f", n, el.Lat, el.Lon)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		places = append(places, domain.Place{
			Location: domain.Location{Name: n, Latitude: el.Lat, Longitude: el.Lon},
			Hint:     placeHint(el.Tags),
		})
	}
	return places, nil
}

// Enumerate lists settlements with a population tag within radiusKm
func (s *OverpassService) Enumerate(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Settlement, error) {
	query := fmt.Sprintf("[out:json][timeout:%d];\nnode%s[\"population\"](around:%.0f,%.6f,%.6f);\nout body;",
		s.serverTimeout(), placeFilter, radiusKm*1000, lat, lon)

	elements, err := s.query(ctx, "enumerate", query)
	if err != nil {
		return nil, err
	}

	settlements := make([]domain.Settlement, 0, len(elements))
	for _, el := range elements {
		n := el.Tags["name"]
		if n == "" {
			continue
		}
		settlements = append(settlements, domain.Settlement{
			Location:      domain.Location{Name: n, Latitude: el.Lat, Longitude: el.Lon},
			RawPopulation: el.Tags["population"],
		})
	}
	return settlements, nil
}

// Harvest lists every named settlement within radiusKm, with or without a
// population tag, for loading into a local gazetteer
func (s *OverpassService) Harvest(ctx context.Context, lat, lon, radiusKm float64) ([]domain.GazetteerEntry, error) {
	query := fmt.Sprintf("[out:json][timeout:%d];\nnode%s(around:%.0f,%.6f,%.6f);\nout body;",
		s.serverTimeout(), placeFilter, radiusKm*1000, lat, lon)

	elements, err := s.query(ctx, "harvest", query)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.GazetteerEntry, 0, len(elements))
	for _, el := range elements {
		n := el.Tags["name"]
		if n == "" {
			continue
		}
		region, country := regionCountry(el.Tags)
		entries = append(entries, domain.GazetteerEntry{
			Settlement: domain.Settlement{
				Location:      domain.Location{Name: n, Latitude: el.Lat, Longitude: el.Lon},
				RawPopulation: el.Tags["population"],
			},
			Kind:    el.Tags["place"],
			Region:  region,
			Country: country,
		})
	}
	return entries, nil
}

// Health checks that the Overpass endpoint answers
func (s *OverpassService) Health(ctx context.Context) error {
	_, err := s.query(ctx, "health", "[out:json][timeout:5];node(1);out ids;")
	return err
}

func (s *OverpassService) query(ctx context.Context, op, query string) ([]overpassElement, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("overpass: %s: rate limit wait: %w: %w", op, domain.ErrUpstreamTimeout, err)
	}

	params := url.Values{}
	params.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("overpass: %s: failed to create request: %w", op, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, upstreamError("overpass: "+op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if resp.StatusCode == http.StatusGatewayTimeout {
			return nil, fmt.Errorf("overpass: %s: %w: status %d", op, domain.ErrUpstreamTimeout, resp.StatusCode)
		}
		return nil, fmt.Errorf("overpass: %s: %w: status %d: %s", op, domain.ErrUpstream, resp.StatusCode, body)
	}

	var out overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if isTimeout(err) {
			return nil, upstreamError("overpass: "+op, err)
		}
		return nil, fmt.Errorf("overpass: %s: failed to decode response: %w: %w", op, domain.ErrUpstream, err)
	}
	return out.Elements, nil
}

// serverTimeout is the [timeout:] hint in seconds, never below 1
func (s *OverpassService) serverTimeout() int {
	return max(1, int(s.timeout/time.Second))
}

// quoteRegex escapes a name for use inside a double-quoted Overpass regex
func quoteRegex(name string) string {
	q := regexp.QuoteMeta(name)
	q = strings.ReplaceAll(q, `\`, `\\`)
	return strings.ReplaceAll(q, `"`, `\"`)
}

// placeHint summarises region, country and place type to tell homonyms apart
func placeHint(tags map[string]string) string {
	var parts []string
	region, country := regionCountry(tags)
	if region != "" {
		parts = append(parts, region)
	}
	if country != "" {
		parts = append(parts, country)
	}
	if len(parts) == 0 {
		if v := strings.TrimSpace(tags["is_in"]); v != "" {
			parts = append(parts, v)
		}
	}

	hint := strings.Join(parts, ", ")
	if place := tags["place"]; place != "" {
		if hint == "" {
			return place
		}
		hint += " (" + place + ")"
	}
	return hint
}

func regionCountry(tags map[string]string) (region, country string) {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(tags[k]); v != "" {
				return v
			}
		}
		return ""
	}
	return first("is_in:state", "addr:state", "is_in:county", "addr:county"),
		first("is_in:country", "addr:country", "is_in:country_code")
}
