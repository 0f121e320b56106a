package store

import (
	"context"
	"errors"

	"crime-insights-go/internal/types"
)

// MaxLogs caps how many prediction logs a list call returns.
const MaxLogs = 50

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Store is the persistence boundary for incidents and saved predictions.
type Store interface {
	ListIncidents(ctx context.Context) ([]types.Incident, error)
	CountIncidents(ctx context.Context) (int64, error)
	InsertIncident(ctx context.Context, in *types.Incident) error
	InsertIncidents(ctx context.Context, ins []types.Incident) error
	ListPredictionLogs(ctx context.Context, limit int) ([]types.PredictionLog, error)
	InsertPredictionLogs(ctx context.Context, preds []types.Prediction) ([]types.PredictionLog, error)
	Ping(ctx context.Context) error
	Close() error
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxLogs {
		return MaxLogs
	}
	return limit
}
