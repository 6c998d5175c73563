package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/leaguedash/internal/models"
)

func TestSelectVillain(t *testing.T) {
	rows := []models.StandingsRow{
		{Owner: "A", Wins: 5, PointsFor: 100},
		{Owner: "B", Wins: 5, PointsFor: 80},
		{Owner: "C", Wins: 3, PointsFor: 200},
	}

	villain, ok := SelectVillain(rows)

	require.True(t, ok)
	require.Equal(t, "B", villain.Owner)
	require.Equal(t, "A", rows[0].Owner, "input must not be reordered")
}

func TestSelectVillain_FullTieKeepsInputOrder(t *testing.T) {
	rows := []models.StandingsRow{
		{Owner: "First", Wins: 2, PointsFor: 50},
		{Owner: "Second", Wins: 2, PointsFor: 50},
	}

	villain, ok := SelectVillain(rows)

	require.True(t, ok)
	require.Equal(t, "First", villain.Owner)
}

func TestSelectVillain_Empty(t *testing.T) {
	_, ok := SelectVillain(nil)
	require.False(t, ok)
}

func TestAveragePoints(t *testing.T) {
	rows := []models.StandingsRow{{PointsFor: 100}, {PointsFor: 80}, {PointsFor: 200}}
	require.InDelta(t, 126.6667, AveragePoints(rows), 0.0001)
	require.Zero(t, AveragePoints(nil))
}

func TestComputeInsights(t *testing.T) {
	rows := []models.StandingsRow{
		{Owner: "A", Wins: 5, PointsFor: 100},
		{Owner: "B", Wins: 5, PointsFor: 80},
	}

	insights, err := ComputeInsights(rows)

	require.NoError(t, err)
	require.Equal(t, 90.0, insights.AveragePoints)
	require.Equal(t, "B", insights.Villain.Owner)
	require.Equal(t, "League Villain Alert: B has 5 wins despite their scoring!", insights.Callout)
}

func TestComputeInsights_Empty(t *testing.T) {
	_, err := ComputeInsights([]models.StandingsRow{})
	require.ErrorIs(t, err, ErrNoStandings)
}
