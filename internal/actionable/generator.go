package actionable

import (
	"fmt"

	"crime-insights-go/internal/aggregator"
	"crime-insights-go/internal/catalog"
)

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityElevated Intensity = "elevated"
	IntensityCritical Intensity = "critical"
)

type HeatCell struct {
	Location  string    `json:"location"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Count     int       `json:"count"`
	Intensity Intensity `json:"intensity"`
}

func intensity(count, max int) Intensity {
	ratio := float64(count) / float64(max)
	switch {
	case ratio > 0.7:
		return IntensityCritical
	case ratio > 0.4:
		return IntensityElevated
	case ratio > 0.2:
		return IntensityModerate
	default:
		return IntensityLow
	}
}

// Heatmap grades every catalog location by its share of the busiest one.
// Locations missing from the stats count as zero.
func Heatmap(stats aggregator.Stats) []HeatCell {
	max := 1
	for _, c := range stats.ByLocation {
		if c > max {
			max = c
		}
	}
	cells := make([]HeatCell, 0, len(catalog.Locations))
	for _, loc := range catalog.Locations {
		c := stats.ByLocation[loc.Name]
		cells = append(cells, HeatCell{
			Location:  loc.Name,
			Lat:       loc.Lat,
			Lng:       loc.Lng,
			Count:     c,
			Intensity: intensity(c, max),
		})
	}
	return cells
}

// Generate builds the hotspot card shown next to the charts.
func Generate(stats aggregator.Stats) ActionCard {
	locations := aggregator.Ranked(stats.ByLocation)
	crimes := aggregator.Ranked(stats.ByType)
	total := stats.Overview().TotalIncidents
	if len(locations) == 0 || total == 0 {
		return ActionCard{
			Insight: "No incidents recorded yet",
			Action:  "Seed or import a dataset to explore",
			Impact:  "Charts and predictions stay empty",
		}
	}

	top := locations[0]
	share := float64(top.Count) / float64(total)
	if share >= 0.2 {
		return ActionCard{
			Insight: fmt.Sprintf("%s accounts for %.0f%% of incidents; most common crime is %s", top.Name, share*100, crimes[0].Name),
			Action:  fmt.Sprintf("Focus feature engineering on %s: compare its time-of-day mix against other areas", top.Name),
			Impact:  "Location is likely a strong feature for the classifier",
		}
	}
	return ActionCard{
		Insight: fmt.Sprintf("Incidents are spread evenly; busiest area is %s (%.0f%%)", top.Name, share*100),
		Action:  "Try time-of-day and weekend features before location",
		Impact:  "Location alone will separate classes poorly",
	}
}
