package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var frequencySpecs = map[ScheduleFrequency]string{
	ScheduleDaily:   "0 6 * * *",
	ScheduleWeekly:  "0 6 * * 1",
	ScheduleMonthly: "0 6 1 * *",
}

const sessionSweepSpec = "@every 5m"

// CronSpec returns the standard cron expression for the frequency
func (f ScheduleFrequency) CronSpec() (string, error) {
	spec, ok := frequencySpecs[f]
	if !ok {
		return "", fmt.Errorf("unknown schedule frequency %q", f)
	}
	return spec, nil
}

func nextRun(f ScheduleFrequency, from time.Time) (time.Time, error) {
	spec, err := f.CronSpec()
	if err != nil {
		return time.Time{}, err
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(from), nil
}

// cronLogger routes cron's own logging through zap
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Scheduler delivers saved reports on their schedules and sweeps idle sessions
type Scheduler struct {
	service  ReportService
	sessions *SessionStore
	logger   *zap.Logger
	enabled  bool

	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
}

func NewScheduler(service ReportService, sessions *SessionStore, logger *zap.Logger, enabled bool) *Scheduler {
	return &Scheduler{
		service:  service,
		sessions: sessions,
		logger:   logger.Named("scheduler"),
		enabled:  enabled,
		entries:  make(map[string]cron.EntryID),
	}
}

// Start loads active schedules and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	clog := cronLogger{sugar: s.logger.Sugar()}

	s.mu.Lock()
	s.cron = cron.New(cron.WithLogger(clog), cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)))
	if _, err := s.cron.AddFunc(sessionSweepSpec, func() {
		if n := s.sessions.Sweep(); n > 0 {
			s.logger.Debug("Evicted idle report sessions", zap.Int("count", n))
		}
	}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to add session sweep: %w", err)
	}
	s.mu.Unlock()

	if s.enabled {
		reports, err := s.service.ListScheduledReports(ctx)
		if err != nil {
			s.logger.Error("Failed to load scheduled reports", zap.Error(err))
		}
		for i := range reports {
			if err := s.Register(&reports[i]); err != nil {
				s.logger.Warn("Failed to register scheduled report",
					zap.String("saved_report_id", reports[i].ID.Hex()),
					zap.Error(err),
				)
			}
		}
	}

	s.cron.Start()
	s.logger.Info("Report scheduler started", zap.Bool("deliveries_enabled", s.enabled), zap.Int("schedules", s.Len()))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.cron
	s.mu.Unlock()
	if c == nil {
		return nil
	}
	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Register adds or replaces the cron entry for a saved report
func (s *Scheduler) Register(report *SavedReport) error {
	if report.Schedule == nil {
		return fmt.Errorf("saved report %s has no schedule", report.ID.Hex())
	}
	spec, err := report.Schedule.Frequency.CronSpec()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return fmt.Errorf("scheduler not initialized")
	}

	id := report.ID.Hex()
	if entryID, ok := s.entries[id]; ok {
		s.cron.Remove(entryID)
	}
	entryID, err := s.cron.AddFunc(spec, func() {
		_ = s.service.DeliverScheduled(context.Background(), id)
	})
	if err != nil {
		return fmt.Errorf("failed to add scheduled report: %w", err)
	}
	s.entries[id] = entryID
	return nil
}

// Unregister removes the cron entry for a saved report, if any
func (s *Scheduler) Unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entryID, ok := s.entries[id]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, id)
	}
}

// Sync aligns the cron entry of one saved report with its stored state
func (s *Scheduler) Sync(ctx context.Context, id string) {
	if !s.enabled {
		return
	}
	report, err := s.service.GetSavedReport(ctx, id)
	if errors.Is(err, ErrSavedReportNotFound) {
		s.Unregister(id)
		return
	}
	if err != nil {
		s.logger.Warn("Failed to sync scheduled report", zap.String("saved_report_id", id), zap.Error(err))
		return
	}
	if report.Schedule == nil || report.Status != SavedReportStatusActive {
		s.Unregister(id)
		return
	}
	if err := s.Register(report); err != nil {
		s.logger.Warn("Failed to register scheduled report", zap.String("saved_report_id", id), zap.Error(err))
	}
}

// Len returns the number of registered report schedules
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
