package models

// User is an entry of GET /league/{id}/users.
type User struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Roster is an entry of GET /league/{id}/rosters. Absent or null numeric
// fields decode to zero, and a null owner_id decodes to "".
type Roster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	Settings RosterSettings `json:"settings"`
}

type RosterSettings struct {
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Ties   int     `json:"ties"`
	Fpts   float64 `json:"fpts"`
}
