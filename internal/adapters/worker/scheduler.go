package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kirillkom/ticket-analyzer/internal/core/usecase"
	"github.com/kirillkom/ticket-analyzer/internal/observability/metrics"
)

type Sweeper interface {
	Sweep(ctx context.Context) (usecase.SweepReport, error)
}

// BacklogScheduler runs the backlog sweep on a cron schedule. Accepts
// 5-field expressions and descriptors such as "@every 5m" or "@hourly".
type BacklogScheduler struct {
	schedule cron.Schedule
	spec     string
	sweeper  Sweeper
	metrics  *metrics.WorkerMetrics
	logger   *slog.Logger
	now      func() time.Time
}

func ParseSchedule(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(strings.TrimSpace(spec))
	if err != nil {
		return nil, fmt.Errorf("parse backlog schedule %q: %w", spec, err)
	}
	// cron reports "never" as the zero time, e.g. for "0 0 30 2 *".
	if sched.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("backlog schedule %q never fires", spec)
	}
	return sched, nil
}

// NewBacklogScheduler returns nil, nil when spec is empty.
func NewBacklogScheduler(spec string, sweeper Sweeper, m *metrics.WorkerMetrics, logger *slog.Logger) (*BacklogScheduler, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	sched, err := ParseSchedule(spec)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BacklogScheduler{
		schedule: sched,
		spec:     spec,
		sweeper:  sweeper,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Run blocks until ctx is done. Sweeps never overlap.
func (s *BacklogScheduler) Run(ctx context.Context) {
	s.logger.Info("backlog_sweep_scheduled", "schedule", s.spec)
	for {
		now := s.now()
		next := s.schedule.Next(now)
		if next.IsZero() {
			s.logger.Error("backlog_sweep_stopped", "schedule", s.spec, "reason", "schedule has no next activation")
			return
		}
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.RunOnce(ctx)
	}
}

func (s *BacklogScheduler) RunOnce(ctx context.Context) {
	start := time.Now()
	report, err := s.sweeper.Sweep(ctx)
	if s.metrics != nil {
		s.metrics.RecordSweep(serviceName, err)
	}
	attrs := []any{
		"pending", report.Pending,
		"processed", report.Processed,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		s.logger.Error("backlog_sweep_failed", append(attrs, "error", err)...)
		return
	}
	s.logger.Info("backlog_sweep_complete", attrs...)
}
