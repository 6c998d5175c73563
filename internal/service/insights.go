package service

import (
	"fmt"
	"sort"

	"github.com/omarshaarawi/leaguedash/internal/models"
)

// AveragePoints returns the mean points-for, or 0 for no rows.
func AveragePoints(rows []models.StandingsRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	var total float64
	for _, r := range rows {
		total += r.PointsFor
	}
	return total / float64(len(rows))
}

// SelectVillain orders rows by wins descending then points-for ascending and
// returns the first. Rows that tie on both keep their input order.
func SelectVillain(rows []models.StandingsRow) (models.StandingsRow, bool) {
	if len(rows) == 0 {
		return models.StandingsRow{}, false
	}

	sorted := make([]models.StandingsRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Wins != sorted[j].Wins {
			return sorted[i].Wins > sorted[j].Wins
		}
		return sorted[i].PointsFor < sorted[j].PointsFor
	})

	return sorted[0], true
}

func VillainCallout(villain models.StandingsRow) string {
	return fmt.Sprintf("League Villain Alert: %s has %d wins despite their scoring!", villain.Owner, villain.Wins)
}

func ComputeInsights(rows []models.StandingsRow) (*models.Insights, error) {
	villain, ok := SelectVillain(rows)
	if !ok {
		return nil, ErrNoStandings
	}
	return &models.Insights{
		AveragePoints: AveragePoints(rows),
		Villain:       villain,
		Callout:       VillainCallout(villain),
	}, nil
}
