// Package scheduler runs the periodic batch jobs: subscription deliveries and
// billing, quote expiry and the low-stock alert.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	JobSubscriptionDeliveries = "subscription-deliveries"
	JobSubscriptionBilling    = "subscription-billing"
	JobQuoteExpiry            = "quote-expiry"
	JobLowStockAlert          = "low-stock-alert"
)

// Locker is satisfied by *cache.RedisClient.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type Job struct {
	Name string
	// Interval of zero keeps the job available on demand only.
	Interval time.Duration
	Run      func(ctx context.Context) (model.BatchResult, error)
}

type Scheduler struct {
	mu      sync.RWMutex
	jobs    map[string]Job
	locker  Locker
	lockTTL time.Duration
	logger  logger.ZapLogger
}

func New(locker Locker, lockTTL time.Duration, log logger.ZapLogger) *Scheduler {
	return &Scheduler{
		jobs:    make(map[string]Job),
		locker:  locker,
		lockTTL: lockTTL,
		logger:  log,
	}
}

func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name] = job
}

func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunOnce runs the named job if no other replica holds its lock.
func (s *Scheduler) RunOnce(ctx context.Context, name string) (model.BatchResult, error) {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return model.BatchResult{}, apperror.NotFound("job", name)
	}

	key := "scheduler:lock:" + name
	token := uuid.New().String()
	acquired, err := s.locker.AcquireLock(ctx, key, token, s.lockTTL)
	if err != nil {
		return model.BatchResult{}, fmt.Errorf("failed to acquire lock for %s: %w", name, err)
	}
	if !acquired {
		return model.BatchResult{}, apperror.New(apperror.KindInvalidTransition, "job %s is already running", name)
	}
	defer func() {
		if err := s.locker.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
			s.logger.Warn("failed to release job lock", zap.String("job", name), zap.Error(err))
		}
	}()

	started := time.Now()
	res, err := job.Run(ctx)
	if err != nil {
		s.logger.Error("job failed", zap.String("job", name), zap.Error(err))
		return res, err
	}
	s.logger.Info("job finished",
		zap.String("job", name),
		zap.Int("processed", res.Processed),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
		zap.Duration("took", time.Since(started)),
	)
	return res, nil
}

// Start runs every job with a positive interval on its own ticker and blocks
// until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.RLock()
	jobs := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if j.Interval > 0 {
			jobs = append(jobs, j)
		}
	}
	s.mu.RUnlock()

	s.logger.Info("Starting scheduler", zap.Int("jobs", len(jobs)))
	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			s.loop(ctx, j)
		}(j)
	}
	wg.Wait()
	s.logger.Info("Stopping scheduler")
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx, j.Name); err != nil && !apperror.Is(err, apperror.KindInvalidTransition) {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("scheduled run failed", zap.String("job", j.Name), zap.Error(err))
			}
		}
	}
}
