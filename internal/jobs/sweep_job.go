// Package jobs runs scheduled background work using github.com/robfig/cron/v3.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"courier-dispatch/internal/logx"
)

// Expirer drops dispatch state that outlived its ttl and reports how much was dropped.
type Expirer interface {
	ExpireStale(ctx context.Context) int
}

// SweepJob periodically expires abandoned dispatch state.
type SweepJob struct {
	expirer  Expirer
	interval time.Duration
	cron     *cron.Cron
	logger   logx.Logger
}

// NewSweepJob creates a sweep job running every interval.
func NewSweepJob(expirer Expirer, interval time.Duration, logger logx.Logger) *SweepJob {
	if logger == nil {
		logger = logx.Nop()
	}
	return &SweepJob{
		expirer:  expirer,
		interval: interval,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With(logx.String("component", "dispatch_sweep_job")),
	}
}

// Spec returns the cron schedule of the job.
func (j *SweepJob) Spec() string {
	return fmt.Sprintf("@every %s", j.interval)
}

// Start schedules the job. It is a no-op for a non-positive interval.
func (j *SweepJob) Start() error {
	if j.interval <= 0 {
		j.logger.Info("dispatch sweep disabled")
		return nil
	}
	if _, err := j.cron.AddFunc(j.Spec(), j.RunOnce); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	j.cron.Start()
	j.logger.Info("dispatch sweep started", logx.Duration("interval", j.interval))
	return nil
}

// RunOnce performs a single sweep.
func (j *SweepJob) RunOnce() {
	if n := j.expirer.ExpireStale(context.Background()); n > 0 {
		j.logger.Info("dispatch sweep expired orders", logx.Int("expired", n))
	}
}

// Stop stops scheduling and waits for a running sweep to finish.
func (j *SweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("dispatch sweep stopped")
}
