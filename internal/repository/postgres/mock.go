package postgres

import (
	"context"
	"strings"

	"github.com/bestweather/finder/internal/domain"
	"github.com/bestweather/finder/pkg/utils"
)

// MockGazetteer implements domain.Gazetteer for testing/demo mode
type MockGazetteer struct {
	places []mockPlace
}

type mockPlace struct {
	domain.Settlement
	kind   string
	region string
}

// NewMockGazetteer creates a gazetteer seeded with towns around Aachen
func NewMockGazetteer() *MockGazetteer {
	seed := func(name string, lat, lon float64, population, kind, region string) mockPlace {
		return mockPlace{
			Settlement: domain.Settlement{
				Location:      domain.Location{Name: name, Latitude: lat, Longitude: lon},
				RawPopulation: population,
			},
			kind:   kind,
			region: region,
		}
	}
	return &MockGazetteer{places: []mockPlace{
		seed("Aachen", 50.7753, 6.0839, "249070", "city", "North Rhine-Westphalia, Germany"),
		seed("Eschweiler", 50.8172, 6.2719, "56 385", "town", "North Rhine-Westphalia, Germany"),
		seed("Stolberg", 50.7706, 6.2275, "56,792", "town", "North Rhine-Westphalia, Germany"),
		seed("Herzogenrath", 50.8700, 6.0942, "46 000", "town", "North Rhine-Westphalia, Germany"),
		seed("Roetgen", 50.6500, 6.2000, "8600", "village", "North Rhine-Westphalia, Germany"),
		seed("Vaals", 50.7700, 6.0186, "9 700 (2021)", "town", "Limburg, Netherlands"),
		seed("Kelmis", 50.7167, 6.0000, "unknown", "village", "Liège, Belgium"),
		seed("Raeren", 50.6728, 6.1153, "10 700", "village", "Liège, Belgium"),
		seed("Stolberg", 51.5730, 10.9500, "1200", "town", "Saxony-Anhalt, Germany"),
	}}
}

// Resolve matches names case-insensitively
func (m *MockGazetteer) Resolve(ctx context.Context, name string) ([]domain.Place, error) {
	var out []domain.Place
	for _, p := range m.places {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			out = append(out, domain.Place{Location: p.Location, Hint: hint(p.region, "", p.kind)})
		}
	}
	return out, nil
}

// Enumerate returns seeded settlements within radiusKm
func (m *MockGazetteer) Enumerate(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Settlement, error) {
	var out []domain.Settlement
	for _, p := range m.places {
		if utils.Haversine(lat, lon, p.Latitude, p.Longitude) <= radiusKm {
			out = append(out, p.Settlement)
		}
	}
	return out, nil
}

// Health always returns nil in mock mode
func (m *MockGazetteer) Health(ctx context.Context) error {
	return nil
}

var _ domain.Gazetteer = (*MockGazetteer)(nil)
