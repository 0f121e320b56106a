package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidSeverity = errors.New("invalid severity")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidIncident = errors.New("invalid incident")
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Severities lists the closed severity set in chart order.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}

func ParseSeverity(s string) (Severity, error) {
	v := Severity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Severities {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
}

type Status string

const (
	StatusReported      Status = "reported"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
)

var Statuses = []Status{StatusReported, StatusInvestigating, StatusResolved}

func ParseStatus(s string) (Status, error) {
	v := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Incident is one historical crime entry.
type Incident struct {
	ID          string    `json:"id" gorm:"primaryKey;column:id;size:36"`
	IncidentID  string    `json:"incident_id" gorm:"column:incident_id;size:32;uniqueIndex;not null"`
	Date        string    `json:"date" gorm:"column:incident_date;size:10;index;not null"`
	Time        string    `json:"time" gorm:"column:incident_time;size:8"`
	CrimeType   string    `json:"crime_type" gorm:"column:crime_type;size:50;index;not null"`
	Location    string    `json:"location" gorm:"column:location;size:100;index;not null"`
	Latitude    float64   `json:"latitude" gorm:"column:latitude"`
	Longitude   float64   `json:"longitude" gorm:"column:longitude"`
	Severity    Severity  `json:"severity" gorm:"column:severity;size:10;not null"`
	Status      Status    `json:"status" gorm:"column:status;size:16;not null"`
	Description *string   `json:"description,omitempty" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Incident) TableName() string {
	return "crime_incidents"
}

// Validate checks the required fields and the closed enumerations.
func (i Incident) Validate() error {
	switch {
	case strings.TrimSpace(i.IncidentID) == "":
		return fmt.Errorf("%w: incident_id is required", ErrInvalidIncident)
	case strings.TrimSpace(i.Date) == "":
		return fmt.Errorf("%w: date is required", ErrInvalidIncident)
	case strings.TrimSpace(i.CrimeType) == "":
		return fmt.Errorf("%w: crime_type is required", ErrInvalidIncident)
	case strings.TrimSpace(i.Location) == "":
		return fmt.Errorf("%w: location is required", ErrInvalidIncident)
	}
	if _, err := ParseSeverity(string(i.Severity)); err != nil {
		return err
	}
	if _, err := ParseStatus(string(i.Status)); err != nil {
		return err
	}
	return nil
}

// Query is the canonical scorer input, resolved from a CSV row or a request body.
type Query struct {
	Location  string `json:"location"`
	TimeOfDay string `json:"time_of_day"`
	DayOfWeek string `json:"day_of_week"`
}

type Prediction struct {
	Location           string  `json:"location" gorm:"column:location;size:100;not null"`
	TimeOfDay          string  `json:"time_of_day" gorm:"column:time_of_day;size:32;not null"`
	DayOfWeek          string  `json:"day_of_week" gorm:"column:day_of_week;size:32;not null"`
	PredictedCrimeType string  `json:"predicted_crime_type" gorm:"column:predicted_crime_type;size:50;not null"`
	RiskLevel          string  `json:"risk_level" gorm:"column:risk_level;size:16;not null"`
	Probability        float64 `json:"probability" gorm:"column:probability"`
	Confidence         float64 `json:"confidence" gorm:"column:confidence"`
}

// PredictionLog is a saved prediction.
type PredictionLog struct {
	ID         string `json:"id" gorm:"primaryKey;column:id;size:36"`
	Prediction `gorm:"embedded"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;index"`
}

func (PredictionLog) TableName() string {
	return "prediction_logs"
}
