package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/metrics"
)

const (
	DefaultSweepSchedule = "@daily"
	DefaultSweepTimeout  = 10 * time.Minute
)

// Sweeper purges projects that have been in the bin longer than the retention window.
type Sweeper struct {
	manager  *Manager
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   zerolog.Logger
}

func NewSweeper(manager *Manager, schedule string, timeout time.Duration) *Sweeper {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if timeout <= 0 {
		timeout = DefaultSweepTimeout
	}
	return &Sweeper{
		manager:  manager,
		schedule: schedule,
		timeout:  timeout,
		logger:   log.With().Str("component", "retentionSweeper").Logger(),
	}
}

// Run purges every eligible project and returns how many records were deleted. A
// project whose assets could not all be removed still counts once its record is gone.
// Failures on single projects are logged and skipped.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	m := s.manager
	cutoff := m.now().Add(-m.Retention())
	logger := s.logger.With().Time("cutoff", cutoff).Logger()

	eligible, err := m.projects.Find(ctx, database.BinnedBefore(cutoff))
	if err != nil {
		metrics.SweepRunsTotal.WithLabelValues("error").Inc()
		logger.Error().Err(err).Msg("failed to query binned projects")
		return 0, err
	}

	purged := 0
	for i, project := range eligible {
		if ctx.Err() != nil {
			logger.Warn().Err(ctx.Err()).Int("remaining", len(eligible)-i).Msg("sweep interrupted")
			break
		}
		if err := m.purgeRecord(ctx, project); err != nil {
			metrics.SweepFailuresTotal.Inc()
			logger.Error().Err(err).Str("projectId", project.ID).Msg("failed to purge project")
			continue
		}
		purged++
	}

	metrics.SweepRunsTotal.WithLabelValues("ok").Inc()
	metrics.SweepPurgedTotal.Add(float64(purged))
	logger.Info().Int("eligible", len(eligible)).Int("purged", purged).Msg("retention sweep finished")
	return purged, nil
}

// Start schedules Run in UTC. A trigger that fires while a run is still in progress is skipped.
func (s *Sweeper) Start() error {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.logger})),
	)
	if _, err := c.AddFunc(s.schedule, s.runScheduled); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}
	s.cron = c
	c.Start()
	s.logger.Info().Str("schedule", s.schedule).Int("retentionDays", s.manager.RetentionDays()).Msg("retention sweeper scheduled")
	return nil
}

func (s *Sweeper) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, _ = s.Run(ctx)
}

// Stop prevents new runs and waits for a running one until ctx is done.
func (s *Sweeper) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("retention sweep still running at shutdown")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
