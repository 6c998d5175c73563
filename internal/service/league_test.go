package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/leaguedash/internal/api/sleeper"
	"github.com/omarshaarawi/leaguedash/internal/models"
	"github.com/omarshaarawi/leaguedash/internal/repository/memory"
)

type fakeLeagueAPI struct {
	users       []models.User
	rosters     []models.Roster
	usersErr    error
	rostersErr  error
	userCalls   int
	rosterCalls int
}

func (f *fakeLeagueAPI) GetUsers(_ context.Context, _ string) ([]models.User, error) {
	f.userCalls++
	return f.users, f.usersErr
}

func (f *fakeLeagueAPI) GetRosters(_ context.Context, _ string) ([]models.Roster, error) {
	f.rosterCalls++
	return f.rosters, f.rostersErr
}

func sampleAPI() *fakeLeagueAPI {
	return &fakeLeagueAPI{
		users: []models.User{
			{UserID: "a", DisplayName: "Alice"},
			{UserID: "b", DisplayName: "Bob"},
			{UserID: "c", DisplayName: "Cara"},
		},
		rosters: []models.Roster{
			{RosterID: 1, OwnerID: "a", Settings: models.RosterSettings{Wins: 5, Losses: 2, Fpts: 100}},
			{RosterID: 2, OwnerID: "b", Settings: models.RosterSettings{Wins: 5, Losses: 2, Fpts: 80}},
			{RosterID: 3, OwnerID: "c", Settings: models.RosterSettings{Wins: 3, Losses: 4, Fpts: 200}},
		},
	}
}

func newTestService(api LeagueAPI) (*LeagueService, clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC))
	return NewLeagueService(api, memory.NewRepository(), 600*time.Second, clock), clock
}

func TestLoadLeague_CachesWithinTTL(t *testing.T) {
	api := sampleAPI()
	svc, clock := newTestService(api)
	ctx := context.Background()

	first, err := svc.LoadLeague(ctx, "L1")
	require.NoError(t, err)
	require.Equal(t, clock.Now(), first.FetchedAt)

	clock.Advance(599 * time.Second)
	second, err := svc.LoadLeague(ctx, "L1")
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, 1, api.userCalls)
	require.Equal(t, 1, api.rosterCalls)
}

func TestLoadLeague_RefetchesAfterTTL(t *testing.T) {
	api := sampleAPI()
	svc, clock := newTestService(api)
	ctx := context.Background()

	_, err := svc.LoadLeague(ctx, "L1")
	require.NoError(t, err)

	clock.Advance(600 * time.Second)
	_, err = svc.LoadLeague(ctx, "L1")
	require.NoError(t, err)

	require.Equal(t, 2, api.userCalls)
	require.Equal(t, 2, api.rosterCalls)
}

func TestLoadLeague_RefetchesAfterRefresh(t *testing.T) {
	api := sampleAPI()
	svc, _ := newTestService(api)
	ctx := context.Background()

	_, err := svc.LoadLeague(ctx, "L1")
	require.NoError(t, err)

	svc.Refresh()
	_, err = svc.LoadLeague(ctx, "L1")
	require.NoError(t, err)

	require.Equal(t, 2, api.userCalls)
	require.Equal(t, 2, api.rosterCalls)
}

func TestLoadLeague_KeyedByLeagueID(t *testing.T) {
	api := sampleAPI()
	svc, _ := newTestService(api)
	ctx := context.Background()

	_, err := svc.LoadLeague(ctx, "L1")
	require.NoError(t, err)
	_, err = svc.LoadLeague(ctx, "L2")
	require.NoError(t, err)

	require.Equal(t, 2, api.userCalls)
}

func TestLoadLeague_UsersFailureSkipsRosters(t *testing.T) {
	api := sampleAPI()
	api.usersErr = errors.New("dial tcp: connection refused")
	svc, _ := newTestService(api)

	_, err := svc.LoadLeague(context.Background(), "L1")

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Zero(t, ue.StatusCode)
	require.Equal(t, "L1", ue.LeagueID)
	require.Equal(t, 0, api.rosterCalls)
}

func TestLoadLeague_FailuresAreNotCached(t *testing.T) {
	api := sampleAPI()
	api.rostersErr = &sleeper.StatusError{Endpoint: "/league/L1/rosters", StatusCode: 503}
	svc, _ := newTestService(api)
	ctx := context.Background()

	_, err := svc.LoadLeague(ctx, "L1")
	require.Error(t, err)

	api.rostersErr = nil
	league, err := svc.LoadLeague(ctx, "L1")
	require.NoError(t, err)
	require.Len(t, league.Rosters, 3)
	require.Equal(t, 2, api.userCalls)
}

func TestPruneExpired(t *testing.T) {
	svc, clock := newTestService(sampleAPI())
	ctx := context.Background()

	_, err := svc.LoadLeague(ctx, "old")
	require.NoError(t, err)
	clock.Advance(700 * time.Second)
	_, err = svc.LoadLeague(ctx, "fresh")
	require.NoError(t, err)

	require.Equal(t, 1, svc.PruneExpired())
	require.Zero(t, svc.PruneExpired())
}

// Exercises the real HTTP client: two pairs of requests across a refresh,
// and a 500 on either endpoint surfaced with its status code.
func TestLoadLeague_OverHTTP(t *testing.T) {
	var usersHits, rostersHits atomic.Int32
	var rostersStatus atomic.Int32
	rostersStatus.Store(http.StatusOK)

	mux := http.NewServeMux()
	mux.HandleFunc("/league/L1/users", func(w http.ResponseWriter, r *http.Request) {
		usersHits.Add(1)
		_, _ = w.Write([]byte(`[{"user_id":"a","display_name":"Alice"}]`))
	})
	mux.HandleFunc("/league/L1/rosters", func(w http.ResponseWriter, r *http.Request) {
		rostersHits.Add(1)
		if code := int(rostersStatus.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		_, _ = w.Write([]byte(`[{"owner_id":"a","settings":{"wins":1,"fpts":90}}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api := sleeper.NewAPI(sleeper.NewClient(srv.URL, time.Second))
	svc, _ := newTestService(api)
	ctx := context.Background()

	_, err := svc.LoadLeague(ctx, "L1")
	require.NoError(t, err)
	_, err = svc.LoadLeague(ctx, "L1")
	require.NoError(t, err)
	require.EqualValues(t, 1, usersHits.Load())
	require.EqualValues(t, 1, rostersHits.Load())

	svc.Refresh()
	rostersStatus.Store(http.StatusInternalServerError)

	analysis, err := svc.Analyze(ctx, "L1")
	require.Nil(t, analysis)
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, http.StatusInternalServerError, ue.StatusCode)
	require.Equal(t, "Sleeper API error (Status: 500)", ue.Error())
	require.EqualValues(t, 2, usersHits.Load())
	require.EqualValues(t, 2, rostersHits.Load())
}

func TestAnalyze(t *testing.T) {
	svc, _ := newTestService(sampleAPI())

	analysis, err := svc.Analyze(context.Background(), "L1")
	require.NoError(t, err)
	require.False(t, analysis.Empty)
	require.Len(t, analysis.Standings, 3)
	require.NotNil(t, analysis.Insights)
	require.Equal(t, "Bob", analysis.Insights.Villain.Owner)
	require.InDelta(t, 126.666, analysis.Insights.AveragePoints, 0.001)
}

func TestAnalyze_EmptyLeagueIsWarningNotError(t *testing.T) {
	api := sampleAPI()
	api.rosters = []models.Roster{}
	svc, _ := newTestService(api)

	analysis, err := svc.Analyze(context.Background(), "L1")
	require.NoError(t, err)
	require.True(t, analysis.Empty)
	require.Empty(t, analysis.Standings)
	require.Nil(t, analysis.Insights)
}
