package models

import "time"

// UnknownOwner labels a roster whose owner is not among the league users.
const UnknownOwner = "Unknown"

// League is one fetch of a league's users and rosters.
type League struct {
	LeagueID  string
	Users     []User
	Rosters   []Roster
	FetchedAt time.Time
}

type StandingsRow struct {
	Owner     string
	Wins      int
	Losses    int
	Ties      int
	PointsFor float64
}

type Insights struct {
	AveragePoints float64
	Villain       StandingsRow
	Callout       string
}

// Analysis is the output of the fetch, standings and insights pipeline.
// Insights is nil when Empty is true.
type Analysis struct {
	LeagueID  string
	Standings []StandingsRow
	Insights  *Insights
	FetchedAt time.Time
	Empty     bool
}
