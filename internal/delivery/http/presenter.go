package http

import (
	"fmt"

	"github.com/bestweather/finder/internal/domain"
	"github.com/bestweather/finder/pkg/utils"
)

const highlightColor = "#2e7d32"

// marker gradient endpoints for non-highlighted results, worst to best
var (
	lowColor  = [3]float64{0xc6, 0x28, 0x28}
	highColor = [3]float64{0xef, 0x9c, 0x00}
)

// Marker is one map pin for the results map
type Marker struct {
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Score     float64 `json:"score"`
	Popup     string  `json:"popup"`
	Color     string  `json:"color"`
	Highlight bool    `json:"highlight"`
	IsHome    bool    `json:"is_home"`
}

// BuildMarkers turns a report into map markers. Highlighted results are
// green; the rest shade from red to orange relative to the best score.
func BuildMarkers(r *domain.Report) []Marker {
	if r == nil {
		return nil
	}
	markers := make([]Marker, 0, len(r.Results))
	for _, res := range r.Results {
		m := Marker{
			Name:      res.Location.Name,
			Lat:       res.Location.Latitude,
			Lon:       res.Location.Longitude,
			Score:     utils.RoundTo(res.Score, 4),
			Popup:     fmt.Sprintf("%s: %.2f", res.Location.Name, res.Score),
			Highlight: res.Highlight,
			IsHome:    res.IsHome,
		}
		if res.IsHome {
			m.Popup += " (home)"
		}
		if res.Highlight {
			m.Color = highlightColor
		} else {
			t := 0.0
			if r.MaxScore > 0 {
				t = utils.Clamp(res.Score/r.MaxScore, 0, 1)
			}
			m.Color = gradient(t)
		}
		markers = append(markers, m)
	}
	return markers
}

func gradient(t float64) string {
	var rgb [3]int
	for i := range rgb {
		rgb[i] = int(utils.RoundTo(utils.Lerp(lowColor[i], highColor[i], t), 0))
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}
