package aggregator

import (
	"sort"

	"crime-insights-go/internal/types"
)

// Stats holds the four chart tables. Each is rebuilt from scratch on every call.
type Stats struct {
	ByType     map[string]int `json:"by_type"`
	ByLocation map[string]int `json:"by_location"`
	BySeverity map[string]int `json:"by_severity"`
	ByMonth    map[string]int `json:"by_month"`
}

type Bucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Overview struct {
	TotalIncidents  int `json:"total_incidents"`
	UniqueLocations int `json:"unique_locations"`
	UniqueTypes     int `json:"unique_crime_types"`
}

func Aggregate(incidents []types.Incident) Stats {
	s := Stats{
		ByType:     map[string]int{},
		ByLocation: map[string]int{},
		BySeverity: map[string]int{},
		ByMonth:    map[string]int{},
	}
	for _, in := range incidents {
		s.ByType[in.CrimeType]++
		s.ByLocation[in.Location]++
		if sev, err := types.ParseSeverity(string(in.Severity)); err == nil {
			s.BySeverity[string(sev)]++
		}
		s.ByMonth[month(in.Date)]++
	}
	return s
}

// month returns the YYYY-MM prefix of an ISO date.
func month(date string) string {
	if len(date) > 7 {
		return date[:7]
	}
	return date
}

// SeverityBuckets renders the fixed low/medium/high series, zeros included.
func (s Stats) SeverityBuckets() []Bucket {
	out := make([]Bucket, len(types.Severities))
	for i, sev := range types.Severities {
		out[i] = Bucket{Name: string(sev), Count: s.BySeverity[string(sev)]}
	}
	return out
}

func (s Stats) Overview() Overview {
	total := 0
	for _, c := range s.ByType {
		total += c
	}
	return Overview{
		TotalIncidents:  total,
		UniqueLocations: len(s.ByLocation),
		UniqueTypes:     len(s.ByType),
	}
}

// Ranked orders a table by count descending, then name.
func Ranked(m map[string]int) []Bucket {
	out := toBuckets(m)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Chronological orders a month table by key.
func Chronological(m map[string]int) []Bucket {
	out := toBuckets(m)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func toBuckets(m map[string]int) []Bucket {
	out := make([]Bucket, 0, len(m))
	for k, v := range m {
		out = append(out, Bucket{Name: k, Count: v})
	}
	return out
}
