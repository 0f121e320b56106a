package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"crime-insights-go/internal/types"
)

var PredictionsHeader = []string{
	"Location", "Time of Day", "Day of Week", "Predicted Crime", "Risk Level", "Probability", "Confidence",
}

var IncidentsHeader = []string{
	"ID", "Incident ID", "Date", "Time", "Crime Type", "Location", "Latitude", "Longitude", "Severity", "Status",
}

// WritePredictionsCSV writes the downloadable prediction export. Fields are
// joined without quoting so the file re-parses with Parse.
func WritePredictionsCSV(w io.Writer, preds []types.Prediction) error {
	lines := make([]string, 0, len(preds)+1)
	lines = append(lines, strings.Join(PredictionsHeader, ","))
	for _, p := range preds {
		lines = append(lines, strings.Join([]string{
			p.Location,
			p.TimeOfDay,
			p.DayOfWeek,
			p.PredictedCrimeType,
			p.RiskLevel,
			strconv.FormatFloat(p.Probability, 'f', 2, 64),
			strconv.FormatFloat(p.Confidence, 'f', 2, 64),
		}, ","))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write predictions csv: %w", err)
	}
	return nil
}

func WriteIncidentsCSV(w io.Writer, incidents []types.Incident) error {
	lines := make([]string, 0, len(incidents)+1)
	lines = append(lines, strings.Join(IncidentsHeader, ","))
	for _, in := range incidents {
		lines = append(lines, strings.Join([]string{
			in.ID,
			in.IncidentID,
			in.Date,
			in.Time,
			in.CrimeType,
			in.Location,
			strconv.FormatFloat(in.Latitude, 'f', -1, 64),
			strconv.FormatFloat(in.Longitude, 'f', -1, 64),
			string(in.Severity),
			string(in.Status),
		}, ","))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write incidents csv: %w", err)
	}
	return nil
}

// PredictionFromRecord reads a row of an exported prediction file back.
func PredictionFromRecord(r Record) (types.Prediction, error) {
	q := ResolveQuery(r)
	p := types.Prediction{
		Location:           q.Location,
		TimeOfDay:          q.TimeOfDay,
		DayOfWeek:          q.DayOfWeek,
		PredictedCrimeType: r.Lookup("", "predicted_crime_type", "predicted crime"),
		RiskLevel:          r.Lookup("", "risk_level", "risk level"),
	}
	var err error
	if p.Probability, err = strconv.ParseFloat(r.Lookup("0", "probability"), 64); err != nil {
		return types.Prediction{}, fmt.Errorf("parse probability: %w", err)
	}
	if p.Confidence, err = strconv.ParseFloat(r.Lookup("0", "confidence"), 64); err != nil {
		return types.Prediction{}, fmt.Errorf("parse confidence: %w", err)
	}
	return p, nil
}
