package processor

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"crime-insights-go/internal/auth"
	"crime-insights-go/internal/dataset"
	"crime-insights-go/internal/logger"
	"crime-insights-go/internal/metrics"
	"crime-insights-go/internal/predictor"
	"crime-insights-go/internal/seed"
	"crime-insights-go/internal/store"
	"crime-insights-go/internal/types"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotCSV        = errors.New("please upload a CSV file")
	ErrBusy          = errors.New("a prediction is already running")
	ErrLoginRequired = errors.New("login required")
	ErrNothingToSave = errors.New("no predictions to save")
	ErrStore         = errors.New("data store failure")
)

type Options struct {
	// Delay is the artificial pause before prediction results are returned.
	Delay   time.Duration
	Rand    *rand.Rand
	Metrics *metrics.Metrics
}

// Service runs predictions and dashboard reads against a store. The busy
// gates belong to the instance: one batch and one single prediction may be
// in flight at a time.
type Service struct {
	store    store.Store
	hash     predictor.HashScorer
	weighted *predictor.WeightedScorer
	rng      *rand.Rand
	delay    time.Duration
	metrics  *metrics.Metrics
	log      *logger.Logger

	batchBusy  atomic.Bool
	singleBusy atomic.Bool

	// dashboardGen counts incident writes; a snapshot built before the
	// latest write is never published.
	dashboardMu  sync.Mutex
	dashboardGen uint64
	dashboard    *Dashboard
}

func New(st store.Store, opts Options, log *logger.Logger) *Service {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		store:    st,
		weighted: predictor.NewWeightedScorer(rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))),
		rng:      rng,
		delay:    opts.Delay,
		metrics:  m,
		log:      log.Component("processor"),
	}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// wait sleeps for the configured delay unless ctx ends first.
func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// CheckUpload accepts files named *.csv or sent as text/csv.
func CheckUpload(filename, contentType string) error {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return nil
	}
	if strings.HasPrefix(strings.ToLower(contentType), "text/csv") {
		return nil
	}
	return ErrNotCSV
}

// PredictBatch scores every data row of a CSV upload with the hash scorer.
// Nothing is persisted.
func (s *Service) PredictBatch(ctx context.Context, text string) ([]types.Prediction, error) {
	if !s.batchBusy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.batchBusy.Store(false)

	queries, err := dataset.ParseQueries(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	out := make([]types.Prediction, len(queries))
	for i, q := range queries {
		out[i] = s.hash.Score(q)
		s.metrics.RecordPrediction(string(predictor.StrategyHash), out[i].RiskLevel)
	}
	s.metrics.RecordBatch(len(out))
	s.log.WithField("rows", len(out)).Info("batch scored")
	return out, nil
}

// PredictOne scores a single query. Blank time and day fall back to the
// same defaults a CSV row gets.
func (s *Service) PredictOne(ctx context.Context, q types.Query, strategy predictor.Strategy) (types.Prediction, error) {
	q.Location = strings.TrimSpace(q.Location)
	q.TimeOfDay = strings.TrimSpace(q.TimeOfDay)
	q.DayOfWeek = strings.TrimSpace(q.DayOfWeek)
	if q.Location == "" {
		return types.Prediction{}, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	if q.TimeOfDay == "" {
		q.TimeOfDay = dataset.DefaultTimeOfDay
	}
	if q.DayOfWeek == "" {
		q.DayOfWeek = dataset.DefaultDayOfWeek
	}

	var scorer predictor.Scorer
	switch strategy {
	case predictor.StrategyHash, "":
		strategy, scorer = predictor.StrategyHash, s.hash
	case predictor.StrategyWeighted:
		scorer = s.weighted
	default:
		return types.Prediction{}, fmt.Errorf("%w: %w", ErrInvalidInput, predictor.ErrUnknownStrategy)
	}

	if !s.singleBusy.CompareAndSwap(false, true) {
		return types.Prediction{}, ErrBusy
	}
	defer s.singleBusy.Store(false)

	if err := s.wait(ctx); err != nil {
		return types.Prediction{}, err
	}
	p := scorer.Score(q)
	s.metrics.RecordPrediction(string(strategy), p.RiskLevel)
	return p, nil
}

// SavePredictions persists predictions for a signed in user. Every
// prediction must look like scorer output; otherwise nothing is stored.
func (s *Service) SavePredictions(ctx context.Context, user *auth.User, preds []types.Prediction) ([]types.PredictionLog, error) {
	if user == nil {
		return nil, ErrLoginRequired
	}
	if len(preds) == 0 {
		return nil, ErrNothingToSave
	}
	for i, p := range preds {
		if err := predictor.Validate(p); err != nil {
			return nil, fmt.Errorf("%w: prediction %d: %w", ErrInvalidInput, i+1, err)
		}
	}
	logs, err := s.store.InsertPredictionLogs(ctx, preds)
	if err != nil {
		s.log.WithError(err).WithField("user", user.ID).Warn("saving predictions failed")
		return nil, storeErr("save predictions", err)
	}
	s.metrics.RecordSaved(len(logs))
	s.log.WithField("user", user.ID).WithField("count", len(logs)).Info("predictions saved")
	return logs, nil
}

func (s *Service) ListLogs(ctx context.Context, limit int) ([]types.PredictionLog, error) {
	logs, err := s.store.ListPredictionLogs(ctx, limit)
	if err != nil {
		return nil, storeErr("list prediction logs", err)
	}
	return logs, nil
}

func (s *Service) Incidents(ctx context.Context) ([]types.Incident, error) {
	incidents, err := s.store.ListIncidents(ctx)
	if err != nil {
		return nil, storeErr("list incidents", err)
	}
	return incidents, nil
}

// Table returns one page of the searchable incident table.
func (s *Service) Table(ctx context.Context, term string, page int) (dataset.Page, error) {
	incidents, err := s.Incidents(ctx)
	if err != nil {
		return dataset.Page{}, err
	}
	return dataset.Paginate(dataset.Search(incidents, term), page, dataset.PageSize), nil
}

func (s *Service) CreateIncident(ctx context.Context, in *types.Incident) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.store.InsertIncident(ctx, in); err != nil {
		return storeErr("insert incident", err)
	}
	s.invalidateDashboard()
	return nil
}

// SeedIfEmpty fills an empty store with n synthetic incidents and reports
// how many were written.
func (s *Service) SeedIfEmpty(ctx context.Context, n int) (int, error) {
	count, err := s.store.CountIncidents(ctx)
	if err != nil {
		return 0, storeErr("count incidents", err)
	}
	if count > 0 {
		return 0, nil
	}
	incidents := seed.Generate(n, s.rng)
	if err := s.store.InsertIncidents(ctx, incidents); err != nil {
		return 0, storeErr("seed incidents", err)
	}
	s.invalidateDashboard()
	s.log.WithField("count", len(incidents)).Info("seeded empty store")
	return len(incidents), nil
}

func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

// ImportIncidents validates and stores a batch of incidents, for example
// one read back from an exported workbook.
func (s *Service) ImportIncidents(ctx context.Context, incidents []types.Incident) (int, error) {
	for i := range incidents {
		if err := incidents[i].Validate(); err != nil {
			return 0, fmt.Errorf("%w: row %d: %w", ErrInvalidInput, i+1, err)
		}
	}
	if err := s.store.InsertIncidents(ctx, incidents); err != nil {
		return 0, storeErr("import incidents", err)
	}
	s.invalidateDashboard()
	return len(incidents), nil
}
