package dataset

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"crime-insights-go/internal/aggregator"
	"crime-insights-go/internal/types"
)

const (
	IncidentsSheet = "Incidents"
	SummarySheet   = "Summary"
)

// WriteIncidentsXLSX writes a workbook with the raw incidents and a summary
// sheet holding the four frequency tables side by side.
func WriteIncidentsXLSX(w io.Writer, incidents []types.Incident, stats aggregator.Stats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", IncidentsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := setRow(f, IncidentsSheet, 1, toCells(IncidentsHeader)); err != nil {
		return err
	}
	for i, in := range incidents {
		row := []interface{}{
			in.ID, in.IncidentID, in.Date, in.Time, in.CrimeType, in.Location,
			in.Latitude, in.Longitude, string(in.Severity), string(in.Status),
		}
		if err := setRow(f, IncidentsSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(IncidentsSheet, "A", "J", 16); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	tables := []struct {
		title   string
		buckets []aggregator.Bucket
	}{
		{"Crime Type", aggregator.Ranked(stats.ByType)},
		{"Location", aggregator.Ranked(stats.ByLocation)},
		{"Severity", stats.SeverityBuckets()},
		{"Month", aggregator.Chronological(stats.ByMonth)},
	}
	for t, table := range tables {
		// two columns per table plus a spacer column
		col := t*3 + 1
		if err := setCell(f, col, 1, table.title); err != nil {
			return err
		}
		if err := setCell(f, col+1, 1, "Count"); err != nil {
			return err
		}
		for i, b := range table.buckets {
			if err := setCell(f, col, i+2, b.Name); err != nil {
				return err
			}
			if err := setCell(f, col+1, i+2, b.Count); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &values); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SummarySheet, axis, value); err != nil {
		return fmt.Errorf("set cell %s: %w", axis, err)
	}
	return nil
}
