package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"crime-insights-go/internal/logger"
)

// Refresher rebuilds a cached snapshot.
type Refresher interface {
	RefreshDashboard(ctx context.Context) error
}

// RefresherFunc adapts a plain function to Refresher.
type RefresherFunc func(ctx context.Context) error

func (f RefresherFunc) RefreshDashboard(ctx context.Context) error { return f(ctx) }

type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New registers r to run on schedule (standard cron syntax or descriptors such as
// "@every 5m"). Each run gets its own timeout; overlapping runs are skipped.
func New(schedule string, timeout time.Duration, r Refresher, log *logger.Logger) (*Scheduler, error) {
	log = log.Component("scheduler")
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := r.RefreshDashboard(ctx); err != nil {
			log.WithError(err).Warn("scheduled stats refresh failed")
			return
		}
		log.Debug("scheduled stats refresh done")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule %q: %w", schedule, err)
	}
	return &Scheduler{cron: c, log: log}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop prevents new runs and waits for a running one until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
