package dataset

import (
	"strings"

	"crime-insights-go/internal/types"
)

const PageSize = 10

type Page struct {
	Items      []types.Incident `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
}

// Search keeps incidents whose crime type, location or incident id contains
// term, case-insensitively. An empty term keeps everything.
func Search(incidents []types.Incident, term string) []types.Incident {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return incidents
	}
	var out []types.Incident
	for _, in := range incidents {
		if strings.Contains(strings.ToLower(in.CrimeType), term) ||
			strings.Contains(strings.ToLower(in.Location), term) ||
			strings.Contains(strings.ToLower(in.IncidentID), term) {
			out = append(out, in)
		}
	}
	return out
}

// Paginate returns the 1-based page. Pages below 1 are treated as 1; pages
// past the end come back with no items.
func Paginate(incidents []types.Incident, page, size int) Page {
	if size <= 0 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(incidents)
	p := Page{
		Items:      []types.Incident{},
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: total / size,
	}
	if total%size != 0 {
		p.TotalPages++
	}
	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * size
	end := total
	if size < total-start {
		end = start + size
	}
	p.Items = incidents[start:end]
	return p
}
