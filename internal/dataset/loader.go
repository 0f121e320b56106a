package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"crime-insights-go/internal/types"
)

// column indices detected from a workbook header row
type incidentColumns struct {
	id, incidentID, date, time, crimeType, location, lat, lng, severity, status int
}

// detectColumns matches header cells against known names; the first match wins.
func detectColumns(header []string) incidentColumns {
	c := incidentColumns{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
	set := func(idx *int, i int) {
		if *idx == -1 {
			*idx = i
		}
	}
	for i, h := range header {
		n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), "_", " ")
		switch n {
		case "id":
			set(&c.id, i)
		case "incident id", "incidentid":
			set(&c.incidentID, i)
		case "date", "incident date":
			set(&c.date, i)
		case "time", "incident time":
			set(&c.time, i)
		case "crime type", "crime", "type":
			set(&c.crimeType, i)
		case "location", "area":
			set(&c.location, i)
		case "latitude", "lat":
			set(&c.lat, i)
		case "longitude", "lng", "lon":
			set(&c.lng, i)
		case "severity":
			set(&c.severity, i)
		case "status":
			set(&c.status, i)
		}
	}
	return c
}

func cell(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// LoadIncidentsXLSX reads incidents from the first sheet named Incidents, or
// the first sheet of the workbook. Rows that do not validate are skipped.
func LoadIncidentsXLSX(r io.Reader) ([]types.Incident, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	sheet := sheets[0]
	for _, s := range sheets {
		if s == IncidentsSheet {
			sheet = s
			break
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, ErrNoDataRows
	}

	cols := detectColumns(rows[0])
	var out []types.Incident
	for _, row := range rows[1:] {
		in := types.Incident{
			ID:         cell(row, cols.id),
			IncidentID: cell(row, cols.incidentID),
			Date:       cell(row, cols.date),
			Time:       cell(row, cols.time),
			CrimeType:  cell(row, cols.crimeType),
			Location:   cell(row, cols.location),
			Severity:   types.Severity(strings.ToLower(cell(row, cols.severity))),
			Status:     types.Status(strings.ToLower(cell(row, cols.status))),
		}
		in.Latitude, _ = strconv.ParseFloat(cell(row, cols.lat), 64)
		in.Longitude, _ = strconv.ParseFloat(cell(row, cols.lng), 64)
		// skip invalid rows quietly
		if in.Validate() != nil {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}
