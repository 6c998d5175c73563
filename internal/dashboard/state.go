package dashboard

import (
	"time"

	"github.com/omarshaarawi/leaguedash/internal/gate"
	"github.com/omarshaarawi/leaguedash/internal/models"
)

const (
	MessageIncorrectPassword = "Password incorrect"
	MessageUpstreamHint      = "Check if your League ID is correct and you have internet access."
	MessageNoRosters         = "League found, but it appears to have no rosters yet."
)

// State is everything a page render needs. League fields are only populated
// when Auth is authenticated.
type State struct {
	Auth      gate.State
	AuthError string

	Standings []models.StandingsRow
	Insights  *models.Insights
	FetchedAt time.Time

	Error     string
	ErrorHint string
	Warning   string
}

func (s State) Authenticated() bool {
	return s.Auth == gate.StateAuthenticated
}

// HasData reports whether the standings table, chart and callout can render.
func (s State) HasData() bool {
	return s.Authenticated() && s.Error == "" && s.Insights != nil && len(s.Standings) > 0
}
