package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"silenced-backend/shared/monitoring"
)

// Job is a unit of periodic background work.
type Job interface {
	Name() string
	// RunOnce performs one run and returns a short human readable summary.
	RunOnce(ctx context.Context) (string, error)
}

// Scheduler runs a single Job on a cron schedule and records each outcome
// on the monitor.
type Scheduler struct {
	schedule string
	monitor  *monitoring.Monitor
	job      Job
	cron     *cron.Cron
}

func New(schedule string, monitor *monitoring.Monitor, job Job) *Scheduler {
	logger := cron.PrintfLogger(logrus.StandardLogger())
	return &Scheduler{
		schedule: schedule,
		monitor:  monitor,
		job:      job,
		// Prevent overlapping runs
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(logger))),
	}
}

// Start blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(ctx); err != nil {
			logrus.WithError(err).WithField("job", s.job.Name()).Error("Scheduled job failed")
		}
	})
	if err != nil {
		return errors.Wrapf(err, "failed to add cron job %q", s.schedule)
	}

	logrus.WithFields(logrus.Fields{
		"job":      s.job.Name(),
		"schedule": s.schedule,
	}).Info("Scheduler started")
	s.cron.Start()

	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	logrus.WithField("job", s.job.Name()).Info("Scheduler stopped")
	return ctx.Err()
}

func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()
	name := s.job.Name()

	logrus.WithField("job", name).Debug("Starting run")

	summary, err := s.job.RunOnce(ctx)
	duration := time.Since(start)
	if err != nil {
		s.monitor.RecordFailure(errors.Wrapf(err, "%s failed", name), duration)
		return errors.Wrapf(err, "%s run failed", name)
	}

	s.monitor.RecordSuccess(summary, duration)
	return nil
}
