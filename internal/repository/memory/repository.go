package memory

import (
	"sync"
	"time"

	"github.com/omarshaarawi/leaguedash/internal/models"
)

// Repository holds fetched leagues keyed by league id.
type Repository struct {
	leagues map[string]*models.League
	mu      sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{leagues: make(map[string]*models.League)}
}

func (r *Repository) SaveLeague(league *models.League) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leagues[league.LeagueID] = league
}

func (r *Repository) GetLeague(leagueID string) *models.League {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.leagues[leagueID]
}

// Clear drops every cached league.
func (r *Repository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leagues = make(map[string]*models.League)
}

// DeleteFetchedBefore drops leagues fetched before cutoff and returns how
// many were removed.
func (r *Repository) DeleteFetchedBefore(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, league := range r.leagues {
		if league.FetchedAt.Before(cutoff) {
			delete(r.leagues, id)
			removed++
		}
	}
	return removed
}

func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leagues)
}
