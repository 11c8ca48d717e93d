package scheduler

import (
	"context"
	"fmt"
	"time"

	"advance/internal/config"
	"advance/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 30 * time.Minute

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron   *cron.Cron
	jobs   *Jobs
	config config.ScheduleConfig
	log    *zap.Logger
}

func NewScheduler(jobs *Jobs, cfg config.ScheduleConfig, loc *time.Location, log *zap.Logger) *Scheduler {
	log = logger.OrNop(log).Named("scheduler")
	if loc == nil {
		loc = time.UTC
	}
	cronLog := cronLogger{log.Sugar()}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc), cron.WithLogger(cronLog), cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog))),
		jobs:   jobs,
		config: cfg,
		log:    log,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() error {
	specs := []struct {
		name     string
		schedule string
		run      func(context.Context) (int, error)
	}{
		{"monthly statement", s.config.MonthlyReport, s.jobs.SendMonthlyStatements},
		{"contribution reminder", s.config.DepositReminder, s.jobs.SendContributionReminders},
	}
	for _, spec := range specs {
		spec := spec
		if _, err := s.cron.AddFunc(spec.schedule, func() { s.run(spec.name, spec.run) }); err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", spec.name, err)
		}
		s.log.Info("scheduled job", zap.String("job", spec.name), zap.String("schedule", spec.schedule))
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) run(name string, job func(context.Context) (int, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := job(ctx)
	if err != nil {
		s.log.Error("job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.log.Info("job finished", zap.String("job", name), zap.Int("notified", n), zap.Duration("duration", time.Since(start)))
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
