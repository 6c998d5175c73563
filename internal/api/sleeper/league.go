package sleeper

import (
	"context"
	"fmt"
	"net/url"

	"github.com/omarshaarawi/leaguedash/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) GetUsers(ctx context.Context, leagueID string) ([]models.User, error) {
	var users []models.User
	endpoint := fmt.Sprintf("/league/%s/users", url.PathEscape(leagueID))

	if err := a.client.Get(ctx, endpoint, &users); err != nil {
		return nil, fmt.Errorf("fetching league users: %w", err)
	}

	return users, nil
}

func (a *API) GetRosters(ctx context.Context, leagueID string) ([]models.Roster, error) {
	var rosters []models.Roster
	endpoint := fmt.Sprintf("/league/%s/rosters", url.PathEscape(leagueID))

	if err := a.client.Get(ctx, endpoint, &rosters); err != nil {
		return nil, fmt.Errorf("fetching league rosters: %w", err)
	}

	return rosters, nil
}
