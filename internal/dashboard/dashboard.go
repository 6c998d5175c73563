// Package dashboard turns user actions into render states. Each handler runs
// the gate and, when it allows, the league pipeline, then returns a fresh
// State for the caller to render.
package dashboard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/omarshaarawi/leaguedash/internal/gate"
	"github.com/omarshaarawi/leaguedash/internal/models"
)

// ErrUnauthenticated is returned by Analysis for sessions that have not
// passed the gate.
var ErrUnauthenticated = errors.New("session not authenticated")

type Analyzer interface {
	Analyze(ctx context.Context, leagueID string) (*models.Analysis, error)
	Refresh()
}

type Dashboard struct {
	gate     *gate.Gatekeeper
	analyzer Analyzer
	leagueID string
}

func New(g *gate.Gatekeeper, analyzer Analyzer, leagueID string) *Dashboard {
	return &Dashboard{gate: g, analyzer: analyzer, leagueID: leagueID}
}

func (d *Dashboard) View(ctx context.Context, sessionID string) State {
	return d.render(ctx, sessionID)
}

func (d *Dashboard) SubmitPassword(ctx context.Context, sessionID, candidate string) State {
	if err := d.gate.Submit(sessionID, candidate); err != nil {
		slog.Info("Rejected dashboard password", "session", shortID(sessionID))
		return State{Auth: gate.StateRejected, AuthError: MessageIncorrectPassword}
	}
	slog.Info("Dashboard session authenticated", "session", shortID(sessionID))
	return d.render(ctx, sessionID)
}

// Refresh clears the league cache and re-runs the pipeline. Unauthenticated
// sessions get the login state and the cache is left alone.
func (d *Dashboard) Refresh(ctx context.Context, sessionID string) State {
	if !d.gate.Authenticated(sessionID) {
		return d.gateState(sessionID)
	}
	d.analyzer.Refresh()
	return d.render(ctx, sessionID)
}

func (d *Dashboard) Logout(sessionID string) State {
	d.gate.Reset(sessionID)
	return State{Auth: gate.StateUnset}
}

// Analysis returns the current pipeline output for an authenticated session.
func (d *Dashboard) Analysis(ctx context.Context, sessionID string) (*models.Analysis, error) {
	if !d.gate.Authenticated(sessionID) {
		return nil, ErrUnauthenticated
	}
	return d.analyzer.Analyze(ctx, d.leagueID)
}

func (d *Dashboard) render(ctx context.Context, sessionID string) State {
	if !d.gate.Authenticated(sessionID) {
		return d.gateState(sessionID)
	}

	state := State{Auth: gate.StateAuthenticated}
	analysis, err := d.analyzer.Analyze(ctx, d.leagueID)
	if err != nil {
		state.Error = "Couldn't load data: " + err.Error()
		state.ErrorHint = MessageUpstreamHint
		return state
	}

	state.FetchedAt = analysis.FetchedAt
	if analysis.Empty {
		state.Warning = MessageNoRosters
		return state
	}
	state.Standings = analysis.Standings
	state.Insights = analysis.Insights
	return state
}

func (d *Dashboard) gateState(sessionID string) State {
	s := State{Auth: d.gate.State(sessionID)}
	if s.Auth == gate.StateRejected {
		s.AuthError = MessageIncorrectPassword
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
