// Package predictor turns a (location, time of day, day of week) query into a
// simulated crime prediction. Nothing here is learned: both scorers are fixed
// formulas standing in for a trained classifier.
package predictor

import (
	"errors"
	"fmt"
	"strings"

	"crime-insights-go/internal/types"
)

// MaxScore caps probability and confidence.
const MaxScore = 0.95

var (
	CrimeTypes = []string{"Theft", "Robbery", "Assault", "Burglary", "Fraud", "Vandalism"}
	RiskLevels = []string{"Low", "Medium", "High", "Critical"}
)

var ErrUnknownStrategy = errors.New("unknown scoring strategy")

type Scorer interface {
	Score(q types.Query) types.Prediction
}

type Strategy string

const (
	StrategyHash     Strategy = "hash"
	StrategyWeighted Strategy = "weighted"
)

// ParseStrategy maps a request value to a Strategy; empty means hash.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyHash:
		return StrategyHash, nil
	case StrategyWeighted:
		return StrategyWeighted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

func clamp(v float64) float64 {
	if v > MaxScore {
		return MaxScore
	}
	if v < 0 {
		return 0
	}
	return v
}

var ErrInvalidPrediction = errors.New("invalid prediction")

func inRange(v float64) bool {
	return v >= 0 && v <= MaxScore
}

func known(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Validate reports whether p could have come from one of the scorers: scores
// within [0, MaxScore] and labels from the closed lists.
func Validate(p types.Prediction) error {
	switch {
	case strings.TrimSpace(p.Location) == "":
		return fmt.Errorf("%w: location is required", ErrInvalidPrediction)
	case strings.TrimSpace(p.TimeOfDay) == "" || strings.TrimSpace(p.DayOfWeek) == "":
		return fmt.Errorf("%w: time_of_day and day_of_week are required", ErrInvalidPrediction)
	case !inRange(p.Probability):
		return fmt.Errorf("%w: probability %v outside [0, %v]", ErrInvalidPrediction, p.Probability, MaxScore)
	case !inRange(p.Confidence):
		return fmt.Errorf("%w: confidence %v outside [0, %v]", ErrInvalidPrediction, p.Confidence, MaxScore)
	case !known(CrimeTypes, p.PredictedCrimeType) &&
		!known(NightCrimeTypes, p.PredictedCrimeType) &&
		!known(DayCrimeTypes, p.PredictedCrimeType):
		return fmt.Errorf("%w: unknown crime type %q", ErrInvalidPrediction, p.PredictedCrimeType)
	case !known(RiskLevels, p.RiskLevel) && !known(weightedRiskLevels, p.RiskLevel):
		return fmt.Errorf("%w: unknown risk level %q", ErrInvalidPrediction, p.RiskLevel)
	}
	return nil
}
