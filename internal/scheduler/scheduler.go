package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"

	"github.com/omarshaarawi/leaguedash/internal/service"
)

const reportTimeout = 30 * time.Second

// SessionPruner drops browser sessions that have gone quiet.
type SessionPruner interface {
	PruneIdle(maxAge time.Duration) int
}

type Config struct {
	LeagueID   string
	ReportCron string
	Timezone   string
	PruneEvery time.Duration
	// Sessions and SessionIdle are optional; idle sessions are only pruned
	// when both are set.
	Sessions    SessionPruner
	SessionIdle time.Duration
	// SendMessage is nil when no chat is configured; the weekly report job
	// is skipped in that case.
	SendMessage func(string) error
	Clock       clockwork.Clock
}

type Scheduler struct {
	s             gocron.Scheduler
	leagueService *service.LeagueService
	cfg           Config
}

// ValidateCron checks a standard five-field cron expression.
func ValidateCron(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

func NewScheduler(leagueService *service.LeagueService, cfg Config) (*Scheduler, error) {
	if cfg.SendMessage != nil {
		if err := ValidateCron(cfg.ReportCron); err != nil {
			return nil, err
		}
	}
	if cfg.PruneEvery <= 0 {
		cfg.PruneEvery = leagueService.TTL()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Error("Failed to load location, using UTC", "timezone", cfg.Timezone, "error", err)
		location = time.UTC
	}

	opts := []gocron.SchedulerOption{gocron.WithLocation(location)}
	if cfg.Clock != nil {
		opts = append(opts, gocron.WithClock(cfg.Clock))
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:             s,
		leagueService: leagueService,
		cfg:           cfg,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.cfg.PruneEvery),
		gocron.NewTask(s.prune),
	)
	if err != nil {
		return fmt.Errorf("failed to create prune job: %w", err)
	}

	if s.cfg.SendMessage != nil {
		_, err = s.s.NewJob(
			gocron.CronJob(s.cfg.ReportCron, false),
			gocron.NewTask(s.sendWeeklyReport),
		)
		if err != nil {
			return fmt.Errorf("failed to create weekly report job: %w", err)
		}
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.s.Jobs())
}

func (s *Scheduler) prune() {
	if removed := s.leagueService.PruneExpired(); removed > 0 {
		slog.Info("Pruned expired league cache entries", "removed", removed)
	}
	if s.cfg.Sessions == nil || s.cfg.SessionIdle <= 0 {
		return
	}
	if removed := s.cfg.Sessions.PruneIdle(s.cfg.SessionIdle); removed > 0 {
		slog.Info("Pruned idle sessions", "removed", removed)
	}
}

func (s *Scheduler) sendWeeklyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	report, err := s.leagueService.GetWeeklyReport(ctx, s.cfg.LeagueID)
	if err != nil {
		slog.Error("Failed to build weekly report", "error", err)
		return
	}
	if err := s.cfg.SendMessage(report); err != nil {
		slog.Error("Failed to send weekly report", "error", err)
	}
}
