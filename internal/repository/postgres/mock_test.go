package postgres

import (
	"context"
	"testing"
)

func TestMockGazetteerResolve(t *testing.T) {
	g := NewMockGazetteer()

	places, err := g.Resolve(context.Background(), " aachen ")
	if err != nil || len(places) != 1 {
		t.Fatalf("Resolve(aachen) = %+v, %v", places, err)
	}
	if places[0].Hint != "North Rhine-Westphalia, Germany (city)" {
		t.Errorf("hint = %q", places[0].Hint)
	}

	places, _ = g.Resolve(context.Background(), "Stolberg")
	if len(places) != 2 {
		t.Fatalf("Stolberg should be ambiguous, got %d", len(places))
	}

	places, _ = g.Resolve(context.Background(), "Atlantis")
	if len(places) != 0 {
		t.Fatalf("Atlantis resolved to %+v", places)
	}
}

func TestMockGazetteerEnumerate(t *testing.T) {
	g := NewMockGazetteer()

	got, err := g.Enumerate(context.Background(), 50.7753, 6.0839, 20)
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	names := map[string]bool{}
	for _, s := range got {
		names[s.Name] = true
	}
	for _, want := range []string{"Aachen", "Eschweiler", "Stolberg", "Vaals", "Raeren"} {
		if !names[want] {
			t.Errorf("%s missing from %v", want, names)
		}
	}
	if len(got) != 8 {
		t.Errorf("got %d settlements, the distant Stolberg must be excluded", len(got))
	}

	got, _ = g.Enumerate(context.Background(), 50.7753, 6.0839, 0)
	if len(got) != 1 || got[0].Name != "Aachen" {
		t.Errorf("zero radius = %+v", got)
	}
}

func TestHint(t *testing.T) {
	tests := []struct{ region, country, kind, want string }{
		{"Bavaria", "Germany", "town", "Bavaria, Germany (town)"},
		{"", "", "village", "village"},
		{" Limburg ", "", "", "Limburg"},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		if got := hint(tt.region, tt.country, tt.kind); got != tt.want {
			t.Errorf("hint(%q,%q,%q) = %q, want %q", tt.region, tt.country, tt.kind, got, tt.want)
		}
	}
}
