package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnce(t *testing.T) {
	s := New(NewLocalLocker(), time.Minute, logger.NewNop())
	s.Register(Job{Name: JobQuoteExpiry, Run: func(ctx context.Context) (model.BatchResult, error) {
		return model.BatchResult{Processed: 3, Succeeded: 2, Failed: 1}, nil
	}})

	res, err := s.RunOnce(context.Background(), JobQuoteExpiry)
	require.NoError(t, err)
	assert.Equal(t, model.BatchResult{Processed: 3, Succeeded: 2, Failed: 1}, res)

	_, err = s.RunOnce(context.Background(), "backup")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestRunOnceRefusesWhileLocked(t *testing.T) {
	locker := NewLocalLocker()
	s := New(locker, time.Minute, logger.NewNop())

	var runs int32
	s.Register(Job{Name: JobSubscriptionBilling, Run: func(ctx context.Context) (model.BatchResult, error) {
		atomic.AddInt32(&runs, 1)
		return model.BatchResult{}, nil
	}})

	ok, err := locker.AcquireLock(context.Background(), "scheduler:lock:"+JobSubscriptionBilling, "other-replica", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.RunOnce(context.Background(), JobSubscriptionBilling)
	assert.True(t, apperror.Is(err, apperror.KindInvalidTransition))
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))

	require.NoError(t, locker.ReleaseLock(context.Background(), "scheduler:lock:"+JobSubscriptionBilling, "other-replica"))
	_, err = s.RunOnce(context.Background(), JobSubscriptionBilling)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestRunOnceReleasesLockOnFailure(t *testing.T) {
	s := New(NewLocalLocker(), time.Minute, logger.NewNop())
	boom := errors.New("boom")
	s.Register(Job{Name: JobLowStockAlert, Run: func(ctx context.Context) (model.BatchResult, error) {
		return model.BatchResult{}, boom
	}})

	_, err := s.RunOnce(context.Background(), JobLowStockAlert)
	assert.ErrorIs(t, err, boom)
	_, err = s.RunOnce(context.Background(), JobLowStockAlert)
	assert.ErrorIs(t, err, boom)
}

func TestLocalLockerExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.clock = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := l.AcquireLock(ctx, "k", "a", time.Minute)
	assert.True(t, ok)
	ok, _ = l.AcquireLock(ctx, "k", "b", time.Minute)
	assert.False(t, ok)

	// a stale holder cannot release someone else's lock
	require.NoError(t, l.ReleaseLock(ctx, "k", "b"))
	ok, _ = l.AcquireLock(ctx, "k", "b", time.Minute)
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = l.AcquireLock(ctx, "k", "b", time.Minute)
	assert.True(t, ok)
}

func TestStartRunsPeriodicJobsUntilCancelled(t *testing.T) {
	s := New(NewLocalLocker(), time.Minute, logger.NewNop())
	var runs, manual int32
	s.Register(Job{Name: JobSubscriptionDeliveries, Interval: 5 * time.Millisecond, Run: func(ctx context.Context) (model.BatchResult, error) {
		atomic.AddInt32(&runs, 1)
		return model.BatchResult{}, nil
	}})
	s.Register(Job{Name: JobQuoteExpiry, Run: func(ctx context.Context) (model.BatchResult, error) {
		atomic.AddInt32(&manual, 1)
		return model.BatchResult{}, nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&manual))
	assert.Equal(t, []string{JobQuoteExpiry, JobSubscriptionDeliveries}, s.Jobs())
}
