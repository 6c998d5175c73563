package service

import "github.com/omarshaarawi/leaguedash/internal/models"

// BuildStandings emits one row per roster, in roster order.
func BuildStandings(users []models.User, rosters []models.Roster) []models.StandingsRow {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.UserID] = u.DisplayName
	}

	rows := make([]models.StandingsRow, 0, len(rosters))
	for _, r := range rosters {
		owner, ok := names[r.OwnerID]
		if !ok || r.OwnerID == "" {
			owner = models.UnknownOwner
		}
		rows = append(rows, models.StandingsRow{
			Owner:     owner,
			Wins:      r.Settings.Wins,
			Losses:    r.Settings.Losses,
			Ties:      r.Settings.Ties,
			PointsFor: r.Settings.Fpts,
		})
	}
	return rows
}
