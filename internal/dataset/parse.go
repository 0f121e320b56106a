package dataset

import (
	"errors"
	"strings"

	"crime-insights-go/internal/types"
)

// ErrNoDataRows marks input without a header plus at least one data row.
var ErrNoDataRows = errors.New("csv has no data rows")

// Record is one CSV row keyed by lowercased header name.
type Record map[string]string

// Parse splits raw CSV text into records. It is deliberately naive: lines are
// split on "\n" and fields on ","; quotes are stripped, never interpreted.
// Input with fewer than two lines yields nil.
func Parse(text string) []Record {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil
	}

	headers := splitFields(lines[0])
	for i, h := range headers {
		headers[i] = strings.ToLower(h)
	}

	out := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitFields(line)
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(values) {
				rec[h] = values[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(strings.ReplaceAll(p, `"`, ""))
	}
	return parts
}

// Accepted header aliases per logical field, in priority order. The spaced
// forms match the headers written by WritePredictionsCSV.
var (
	LocationAliases  = []string{"location", "area"}
	TimeOfDayAliases = []string{"time_of_day", "time", "time of day"}
	DayOfWeekAliases = []string{"day_of_week", "day", "day of week"}
)

const (
	DefaultLocation  = "Unknown"
	DefaultTimeOfDay = "Day"
	DefaultDayOfWeek = "Monday"
)

// Lookup returns the first non-empty value among aliases, or def.
func (r Record) Lookup(def string, aliases ...string) string {
	for _, a := range aliases {
		if v := r[a]; v != "" {
			return v
		}
	}
	return def
}

// ResolveQuery maps a record onto the canonical scorer input.
func ResolveQuery(r Record) types.Query {
	return types.Query{
		Location:  r.Lookup(DefaultLocation, LocationAliases...),
		TimeOfDay: r.Lookup(DefaultTimeOfDay, TimeOfDayAliases...),
		DayOfWeek: r.Lookup(DefaultDayOfWeek, DayOfWeekAliases...),
	}
}

// ParseQueries parses text and resolves every row. Unlike Parse it reports
// an empty file as ErrNoDataRows, since callers treat that as invalid input.
func ParseQueries(text string) ([]types.Query, error) {
	records := Parse(text)
	if len(records) == 0 {
		return nil, ErrNoDataRows
	}
	out := make([]types.Query, len(records))
	for i, r := range records {
		out[i] = ResolveQuery(r)
	}
	return out, nil
}
