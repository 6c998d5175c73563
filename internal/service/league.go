package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/omarshaarawi/leaguedash/internal/api/sleeper"
	"github.com/omarshaarawi/leaguedash/internal/models"
	"github.com/omarshaarawi/leaguedash/internal/repository/memory"
)

const DefaultCacheTTL = 600 * time.Second

type LeagueAPI interface {
	GetUsers(ctx context.Context, leagueID string) ([]models.User, error)
	GetRosters(ctx context.Context, leagueID string) ([]models.Roster, error)
}

type LeagueService struct {
	api   LeagueAPI
	repo  *memory.Repository
	clock clockwork.Clock
	ttl   time.Duration
}

func NewLeagueService(api LeagueAPI, repo *memory.Repository, ttl time.Duration, clock clockwork.Clock) *LeagueService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LeagueService{api: api, repo: repo, clock: clock, ttl: ttl}
}

func (s *LeagueService) TTL() time.Duration {
	return s.ttl
}

// LoadLeague returns the cached league while it is younger than the TTL and
// fetches users then rosters otherwise. Failures are never cached.
func (s *LeagueService) LoadLeague(ctx context.Context, leagueID string) (*models.League, error) {
	league := s.repo.GetLeague(leagueID)
	if league != nil && s.clock.Since(league.FetchedAt) < s.ttl {
		return league, nil
	}

	users, err := s.api.GetUsers(ctx, leagueID)
	if err != nil {
		return nil, upstreamError(leagueID, err)
	}
	rosters, err := s.api.GetRosters(ctx, leagueID)
	if err != nil {
		return nil, upstreamError(leagueID, err)
	}

	league = &models.League{
		LeagueID:  leagueID,
		Users:     users,
		Rosters:   rosters,
		FetchedAt: s.clock.Now(),
	}
	s.repo.SaveLeague(league)
	slog.Info("Fetched league", "league_id", leagueID, "users", len(users), "rosters", len(rosters))

	return league, nil
}

func upstreamError(leagueID string, err error) error {
	ue := &UpstreamError{LeagueID: leagueID, Err: err}
	var statusErr *sleeper.StatusError
	if errors.As(err, &statusErr) {
		ue.StatusCode = statusErr.StatusCode
	}
	slog.Error("Failed to load league", "league_id", leagueID, "status", ue.StatusCode, "error", err)
	return ue
}

// Refresh invalidates the whole cache.
func (s *LeagueService) Refresh() {
	s.repo.Clear()
	slog.Info("League cache cleared")
}

// PruneExpired drops cache entries older than the TTL.
func (s *LeagueService) PruneExpired() int {
	return s.repo.DeleteFetchedBefore(s.clock.Now().Add(-s.ttl))
}

// Analyze runs the full pipeline for one league: load, build standings and,
// when the league has rosters, compute insights.
func (s *LeagueService) Analyze(ctx context.Context, leagueID string) (*models.Analysis, error) {
	league, err := s.LoadLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	analysis := &models.Analysis{
		LeagueID:  leagueID,
		Standings: BuildStandings(league.Users, league.Rosters),
		FetchedAt: league.FetchedAt,
	}
	if len(analysis.Standings) == 0 {
		analysis.Empty = true
		return analysis, nil
	}

	insights, err := ComputeInsights(analysis.Standings)
	if err != nil {
		return nil, err
	}
	analysis.Insights = insights

	return analysis, nil
}
