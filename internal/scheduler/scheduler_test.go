package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crime-insights-go/internal/logger"
)

func TestSchedulerRuns(t *testing.T) {
	var runs atomic.Int32
	s, err := New("@every 1s", time.Second, RefresherFunc(func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}), logger.Discard())
	require.NoError(t, err)

	s.Start()
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	_, err := New("every now and then", time.Second, RefresherFunc(func(context.Context) error { return nil }), logger.Discard())
	assert.Error(t, err)
}
