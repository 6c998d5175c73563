package service

import (
	"errors"
	"fmt"
)

// ErrNoStandings is returned when insights are requested for an empty table.
var ErrNoStandings = errors.New("no standings rows")

// UpstreamError wraps any failure to load a league from Sleeper. StatusCode is
// zero when the failure was not an HTTP status (network, timeout, bad JSON).
type UpstreamError struct {
	LeagueID   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Sleeper API error (Status: %d)", e.StatusCode)
	}
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
