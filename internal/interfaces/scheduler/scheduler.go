package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultDigestSpec fires the daily digest at 21:00 server time.
const DefaultDigestSpec = "0 0 21 * * *"

// JobProvider lists the jobs of one scheduled run.
type JobProvider func(ctx context.Context) ([]Job, error)

// Config holds configuration for the scheduler.
type Config struct {
	Spec         string // cron expression with a seconds field
	WorkerCount  int
	JobDelay     time.Duration
	QueueSize    int
	RunOnStartup bool
	JobProvider  JobProvider
}

// Scheduler submits the provider's jobs to a worker pool on a cron schedule.
type Scheduler struct {
	cron         *cron.Cron
	entry        cron.EntryID
	workerPool   *WorkerPool
	jobProvider  JobProvider
	runOnStartup bool
	logger       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler. The spec is validated here, not at Start.
func New(cfg Config, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Spec == "" {
		cfg.Spec = DefaultDigestSpec
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:         cron.New(cron.WithSeconds()),
		workerPool:   NewWorkerPool(cfg.WorkerCount, cfg.JobDelay, cfg.QueueSize, logger),
		jobProvider:  cfg.JobProvider,
		runOnStartup: cfg.RunOnStartup,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}

	entry, err := s.cron.AddFunc(cfg.Spec, s.runJobs)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", cfg.Spec, err)
	}
	s.entry = entry

	logger.Info("scheduler initialized",
		zap.String("spec", cfg.Spec),
		zap.Int("workers", cfg.WorkerCount),
		zap.Duration("job_delay", cfg.JobDelay))
	return s, nil
}

// Start launches the worker pool and the cron loop.
func (s *Scheduler) Start() {
	s.workerPool.Start()
	s.cron.Start()

	if s.runOnStartup {
		s.TriggerNow()
	}
	s.logger.Info("scheduler started", zap.Time("next_run", s.Next()))
}

// TriggerNow runs the provider immediately in the background.
func (s *Scheduler) TriggerNow() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runJobs()
	}()
}

// Next returns the next scheduled run, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// runJobs executes the job provider and submits jobs to the worker pool.
func (s *Scheduler) runJobs() {
	if s.jobProvider == nil {
		s.logger.Warn("scheduler has no job provider")
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	jobs, err := s.jobProvider(ctx)
	if err != nil {
		s.logger.Error("failed to fetch jobs", zap.Error(err))
		return
	}
	if len(jobs) == 0 {
		s.logger.Info("no jobs to process")
		return
	}

	s.workerPool.SubmitBatch(jobs)
}

// Shutdown stops the cron loop, then drains the worker pool.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	cronCtx := s.cron.Stop()
	s.cancel()

	done := make(chan struct{})
	go func() {
		<-cronCtx.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		s.logger.Warn("timeout waiting for scheduled runs to stop")
	}

	s.workerPool.ShutdownWithTimeout(timeout)
	s.logger.Info("scheduler stopped")
}
