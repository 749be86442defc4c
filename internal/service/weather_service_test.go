package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bestweather/finder/internal/domain"
)

const owmForecast = `{
	"city": {"name": "Aachen", "coord": {"lat": 50.7753, "lon": 6.0839}, "sunrise": 1783828800, "sunset": 1783885800},
	"list": [
		{"dt": 1783836000, "main": {"temp": 26.3}, "wind": {"speed": 3.1}},
		{"dt": 1783846800, "main": {"temp": 21.0}, "wind": {"speed": 6.4}, "rain": {"3h": 1.25}},
		{"dt": 1783857600, "main": {"temp": 17.2}, "wind": {"speed": 11}, "rain": {}}
	]
}`

func TestForecastFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/forecast" || q.Get("lat") != "50.77530" || q.Get("lon") != "6.08390" ||
			q.Get("appid") != "secret" || q.Get("units") != "metric" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Write([]byte(owmForecast))
	}))
	defer ts.Close()

	svc := NewForecastService("secret", ts.URL, time.Second)
	f, err := svc.Fetch(context.Background(), 50.7753, 6.0839)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if f.IsMock || f.Location.Name != "Aachen" || len(f.Entries) != 3 {
		t.Fatalf("forecast = %+v", f)
	}
	if !f.Sunrise.Equal(time.Unix(1783828800, 0)) || f.Sunrise.Location() != time.UTC {
		t.Errorf("sunrise = %v", f.Sunrise)
	}
	want := []domain.ForecastEntry{
		{Timestamp: time.Unix(1783836000, 0).UTC(), Temperature: 26.3, WindSpeed: 3.1, Rain: 0},
		{Timestamp: time.Unix(1783846800, 0).UTC(), Temperature: 21.0, WindSpeed: 6.4, Rain: 1.25},
		{Timestamp: time.Unix(1783857600, 0).UTC(), Temperature: 17.2, WindSpeed: 11, Rain: 0},
	}
	for i, e := range f.Entries {
		if !e.Timestamp.Equal(want[i].Timestamp) || e.Temperature != want[i].Temperature ||
			e.WindSpeed != want[i].WindSpeed || e.Rain != want[i].Rain {
			t.Errorf("entry %d = %+v, want %+v", i, e, want[i])
		}
	}
}

func TestForecastFetchErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer ts.Close()

	_, err := NewForecastService("bad", ts.URL, time.Second).Fetch(context.Background(), 1, 1)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestForecastFetchTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	_, err := NewForecastService("key", ts.URL, 50*time.Millisecond).Fetch(context.Background(), 1, 1)
	if !errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Fatalf("err = %v, want ErrUpstreamTimeout", err)
	}
}

func TestMockForecast(t *testing.T) {
	svc := NewForecastService("", "http://unused", time.Second)
	svc.now = func() time.Time { return fixedNow }

	a, err := svc.Fetch(context.Background(), 50.77, 6.08)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	again, _ := svc.Fetch(context.Background(), 50.77, 6.08)
	other, _ := svc.Fetch(context.Background(), 50.80, 6.26)

	if !a.IsMock || len(a.Entries) != 40 {
		t.Fatalf("mock forecast = %d entries, mock %v", len(a.Entries), a.IsMock)
	}
	for i, e := range a.Entries {
		if e != again.Entries[i] {
			t.Fatalf("mock forecast not deterministic at %d", i)
		}
		if e.WindSpeed < 0 || e.Rain < 0 {
			t.Fatalf("negative value in %+v", e)
		}
		if i > 0 && e.Timestamp.Sub(a.Entries[i-1].Timestamp) != 3*time.Hour {
			t.Fatalf("entries not 3h apart at %d", i)
		}
	}
	if !a.Entries[0].Timestamp.After(fixedNow) {
		t.Errorf("first entry %v not in the future", a.Entries[0].Timestamp)
	}
	// covers today and the next four days
	last := domain.TargetDate(fixedNow, 4)
	if !domain.SameDay(a.Entries[39].Timestamp, last) && !a.Entries[39].Timestamp.After(last) {
		t.Errorf("last entry %v before %v", a.Entries[39].Timestamp, last)
	}

	differs := false
	for i := range a.Entries {
		if a.Entries[i] != other.Entries[i] {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("neighbouring towns got identical mock forecasts")
	}
}
