package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/leaguedash/internal/gate"
	"github.com/omarshaarawi/leaguedash/internal/models"
	"github.com/omarshaarawi/leaguedash/internal/repository/memory"
	"github.com/omarshaarawi/leaguedash/internal/service"
)

type stubAPI struct{}

func (stubAPI) GetUsers(_ context.Context, _ string) ([]models.User, error) {
	return []models.User{{UserID: "a", DisplayName: "Alice"}}, nil
}

func (stubAPI) GetRosters(_ context.Context, _ string) ([]models.Roster, error) {
	return []models.Roster{{OwnerID: "a", Settings: models.RosterSettings{Wins: 2, Fpts: 300}}}, nil
}

func newService() *service.LeagueService {
	return service.NewLeagueService(stubAPI{}, memory.NewRepository(), time.Minute, nil)
}

func TestValidateCron(t *testing.T) {
	require.NoError(t, ValidateCron("30 7 * * 2"))
	require.Error(t, ValidateCron("every tuesday"))
	require.Error(t, ValidateCron(""))
}

func TestNewScheduler_RejectsBadCronWhenReporting(t *testing.T) {
	_, err := NewScheduler(newService(), Config{
		ReportCron:  "not a cron",
		Timezone:    "UTC",
		SendMessage: func(string) error { return nil },
	})
	require.ErrorContains(t, err, "invalid cron expression")
}

func TestStart_RegistersJobs(t *testing.T) {
	tests := []struct {
		name string
		send func(string) error
		want int
	}{
		{name: "prune only", send: nil, want: 1},
		{name: "prune and report", send: func(string) error { return nil }, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheduler(newService(), Config{
				LeagueID:    "L1",
				ReportCron:  "30 7 * * 2",
				Timezone:    "America/Chicago",
				SendMessage: tt.send,
			})
			require.NoError(t, err)
			require.NoError(t, s.Start())
			t.Cleanup(func() { require.NoError(t, s.Stop()) })

			require.Equal(t, tt.want, s.Jobs())
		})
	}
}

func TestSendWeeklyReport(t *testing.T) {
	var sent []string
	s, err := NewScheduler(newService(), Config{
		LeagueID:    "L1",
		ReportCron:  "30 7 * * 2",
		Timezone:    "UTC",
		SendMessage: func(text string) error { sent = append(sent, text); return nil },
	})
	require.NoError(t, err)

	s.sendWeeklyReport()

	require.Len(t, sent, 1)
	require.Contains(t, sent[0], "League Standings")
	require.Contains(t, sent[0], "Alice has 2 wins despite their scoring!")
}

func TestPrune_DropsIdleSessions(t *testing.T) {
	clock := clockwork.NewFakeClock()
	g := gate.New("pw", gate.WithClock(clock))
	stale := g.NewSession()
	clock.Advance(2 * time.Hour)
	fresh := g.NewSession()

	s, err := NewScheduler(newService(), Config{
		Timezone:    "UTC",
		Sessions:    g,
		SessionIdle: time.Hour,
	})
	require.NoError(t, err)

	s.prune()

	require.False(t, g.Known(stale))
	require.True(t, g.Known(fresh))
	require.Equal(t, 1, g.Len())
}

func TestPrune_WithoutSessions(t *testing.T) {
	svc := newService()
	_, err := svc.LoadLeague(context.Background(), "L1")
	require.NoError(t, err)

	s, err := NewScheduler(svc, Config{Timezone: "UTC"})
	require.NoError(t, err)

	require.NotPanics(t, s.prune)
}
