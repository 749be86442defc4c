package utils

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	// Aachen to Cologne is roughly 64 km
	d := Haversine(50.7753, 6.0839, 50.9375, 6.9603)
	if d < 62 || d > 66 {
		t.Fatalf("Aachen-Cologne = %.2f km", d)
	}
	if Haversine(10, 10, 10, 10) != 0 {
		t.Fatal("distance to self is not zero")
	}
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	lat, lon, r := 50.7753, 6.0839, 25.0
	minLat, minLon, maxLat, maxLon := BoundingBox(lat, lon, r)

	if minLat >= lat || maxLat <= lat || minLon >= lon || maxLon <= lon {
		t.Fatalf("box does not contain its center: %v %v %v %v", minLat, minLon, maxLat, maxLon)
	}
	// edges of the box are at least r away along the axes
	if d := Haversine(lat, lon, maxLat, lon); math.Abs(d-r) > 0.01 {
		t.Errorf("north edge at %.3f km", d)
	}
	if d := Haversine(lat, lon, lat, maxLon); d < r {
		t.Errorf("east edge at %.3f km, inside radius", d)
	}
}

func TestBoundingBoxNearPole(t *testing.T) {
	_, minLon, maxLat, maxLon := BoundingBox(89.9, 0, 50)
	if maxLat != 90 || minLon != -180 || maxLon != 180 {
		t.Fatalf("polar box = lon[%v,%v] maxLat %v", minLon, maxLon, maxLat)
	}
}

func TestBoundingBoxAcrossAntimeridian(t *testing.T) {
	// Fiji: a town on the other side of 180° is about 10 km away
	lat, lon := -16.8, 179.95
	if d := Haversine(lat, lon, lat, -179.95); d > 30 {
		t.Fatalf("fixture distance %.1f km", d)
	}
	for _, center := range []float64{lon, -lon} {
		_, minLon, _, maxLon := BoundingBox(lat, center, 30)
		if minLon != -180 || maxLon != 180 {
			t.Errorf("box around lon %v = lon[%v,%v], want full range", center, minLon, maxLon)
		}
	}
}

func TestClampRoundLerp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Error("Clamp")
	}
	if RoundTo(0.8349, 2) != 0.83 || RoundTo(0.835, 1) != 0.8 {
		t.Error("RoundTo")
	}
	if Lerp(0, 10, 0.25) != 2.5 || Lerp(200, 0, 1) != 0 {
		t.Error("Lerp")
	}
}
