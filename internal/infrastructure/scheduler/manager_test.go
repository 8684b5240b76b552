package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

func TestSchedulerManager_RegisterSLAJobs(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop(), nil)
	require.NoError(t, err)

	var runs atomic.Int32
	job := BatchJobFunc(func(ctx context.Context) (int, error) {
		runs.Add(1)
		return 2, nil
	})

	require.NoError(t, m.RegisterSLAJobs(job, time.Hour))

	jobs := m.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, slaJobName, jobs[0].Name())
	assert.ElementsMatch(t, []string{"sla", "escalation"}, jobs[0].Tags())

	m.Start()
	assert.True(t, m.IsStarted())

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	assert.NoError(t, m.Stop())
}

func TestSchedulerManager_JobErrorDoesNotStopScheduler(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop(), nil)
	require.NoError(t, err)

	var runs atomic.Int32
	job := BatchJobFunc(func(ctx context.Context) (int, error) {
		runs.Add(1)
		return 0, errors.New("database unavailable")
	})

	require.NoError(t, m.RegisterSLAJobs(job, 0))

	m.Start()
	m.Start()
	defer m.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, m.IsStarted())
}

type fakeLocker struct {
	lockFunc func(ctx context.Context, key string) (gocron.Lock, error)
}

func (f *fakeLocker) Lock(ctx context.Context, key string) (gocron.Lock, error) {
	return f.lockFunc(ctx, key)
}

type fakeLock struct {
	unlocked *atomic.Int32
}

func (l fakeLock) Unlock(context.Context) error {
	l.unlocked.Add(1)
	return nil
}

func TestSchedulerManager_DistributedLock(t *testing.T) {
	t.Run("runs when lock acquired", func(t *testing.T) {
		var keys atomic.Value
		var unlocked atomic.Int32
		locker := &fakeLocker{lockFunc: func(_ context.Context, key string) (gocron.Lock, error) {
			keys.Store(key)
			return fakeLock{unlocked: &unlocked}, nil
		}}

		m, err := NewSchedulerManager(logger.NewNop(), locker)
		require.NoError(t, err)

		var runs atomic.Int32
		require.NoError(t, m.RegisterSLAJobs(BatchJobFunc(func(ctx context.Context) (int, error) {
			runs.Add(1)
			return 0, nil
		}), time.Hour))

		m.Start()
		defer m.Stop()

		assert.Eventually(t, func() bool { return runs.Load() == 1 && unlocked.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, slaJobName, keys.Load())
	})

	t.Run("skips when lock held elsewhere", func(t *testing.T) {
		var attempts atomic.Int32
		locker := &fakeLocker{lockFunc: func(context.Context, string) (gocron.Lock, error) {
			attempts.Add(1)
			return nil, errors.New("held")
		}}

		m, err := NewSchedulerManager(logger.NewNop(), locker)
		require.NoError(t, err)

		var runs atomic.Int32
		require.NoError(t, m.RegisterSLAJobs(BatchJobFunc(func(ctx context.Context) (int, error) {
			runs.Add(1)
			return 0, nil
		}), time.Hour))

		m.Start()
		defer m.Stop()

		assert.Eventually(t, func() bool { return attempts.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
		assert.Zero(t, runs.Load())
	})
}
