package utils

import (
	"math"
)

// EarthRadiusKm is the mean Earth radius used for distance maths
const EarthRadiusKm = 6371.0

// Haversine calculates distance between two points in kilometers
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// BoundingBox returns the lat/lon rectangle enclosing a circle of radiusKm.
// Near the poles, and when the circle crosses the antimeridian, the longitude
// span is widened to the full range.
func BoundingBox(lat, lon, radiusKm float64) (minLat, minLon, maxLat, maxLon float64) {
	angular := radiusKm / EarthRadiusKm
	dLat := angular * 180 / math.Pi
	minLat = Clamp(lat-dLat, -90, 90)
	maxLat = Clamp(lat+dLat, -90, 90)

	ratio := math.Sin(angular) / math.Cos(lat*math.Pi/180)
	if ratio >= 1 || minLat == -90 || maxLat == 90 {
		return minLat, -180, maxLat, 180
	}
	dLon := math.Asin(ratio) * 180 / math.Pi
	if lon-dLon < -180 || lon+dLon > 180 {
		return minLat, -180, maxLat, 180
	}
	return minLat, lon - dLon, maxLat, lon + dLon
}

// Clamp limits a value between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RoundTo rounds a float to specified decimal places
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// Lerp performs linear interpolation between two values
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
