package bot

import (
	"context"
	"net/http"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/leaguedash/internal/api/sleeper"
	"github.com/omarshaarawi/leaguedash/internal/models"
	"github.com/omarshaarawi/leaguedash/internal/repository/memory"
	"github.com/omarshaarawi/leaguedash/internal/service"
)

type stubAPI struct {
	rosters    []models.Roster
	rostersErr error
	calls      int
}

func (s *stubAPI) GetUsers(_ context.Context, _ string) ([]models.User, error) {
	s.calls++
	return []models.User{
		{UserID: "a", DisplayName: "Alice"},
		{UserID: "b", DisplayName: "Bob"},
	}, nil
}

func (s *stubAPI) GetRosters(_ context.Context, _ string) ([]models.Roster, error) {
	return s.rosters, s.rostersErr
}

func newHandler(rosters []models.Roster) (*Handler, *stubAPI) {
	api := &stubAPI{rosters: rosters}
	svc := service.NewLeagueService(api, memory.NewRepository(), time.Minute, nil)
	return NewHandler(svc, "L1"), api
}

func defaultRosters() []models.Roster {
	return []models.Roster{
		{OwnerID: "a", Settings: models.RosterSettings{Wins: 4, Losses: 1, Fpts: 600}},
		{OwnerID: "b", Settings: models.RosterSettings{Wins: 4, Losses: 1, Fpts: 510}},
	}
}

func commandUpdate(text string) tgbotapi.Update {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: 42},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
		},
	}
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "/start", want: "Welcome"},
		{text: "/help", want: "/villain"},
		{text: "/standings", want: "1. *Alice*"},
		{text: "/villain", want: "Bob has 4 wins despite their scoring!"},
		{text: "/luck", want: "League average: 555.00 pts"},
		{text: "/owner ali", want: "*Alice*"},
		{text: "/owner", want: "Usage: /owner <name>"},
		{text: "/owner nobody-at-all", want: "No owner found"},
		{text: "/bogus", want: "Unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			h, _ := newHandler(defaultRosters())

			msg := h.HandleCommand(context.Background(), commandUpdate(tt.text))

			require.Equal(t, int64(42), msg.ChatID)
			require.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
			require.Contains(t, msg.Text, tt.want)
		})
	}
}

func TestHandleCommand_EmptyLeague(t *testing.T) {
	h, _ := newHandler(nil)

	msg := h.HandleCommand(context.Background(), commandUpdate("/villain"))
	require.Contains(t, msg.Text, "no rosters yet")

	msg = h.HandleCommand(context.Background(), commandUpdate("/luck"))
	require.Contains(t, msg.Text, "no rosters yet")
}

func TestHandleCommand_Refresh(t *testing.T) {
	h, api := newHandler(defaultRosters())
	ctx := context.Background()

	h.HandleCommand(ctx, commandUpdate("/standings"))
	h.HandleCommand(ctx, commandUpdate("/standings"))
	require.Equal(t, 1, api.calls)

	msg := h.HandleCommand(ctx, commandUpdate("/refresh"))
	require.Contains(t, msg.Text, "fetched fresh")

	h.HandleCommand(ctx, commandUpdate("/standings"))
	require.Equal(t, 2, api.calls)
}

func TestHandleCommand_UpstreamErrorPrefixedOnce(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "/standings", want: "Error fetching standings: Sleeper API error (Status: 500)"},
		{text: "/villain", want: "Error selecting villain: Sleeper API error (Status: 500)"},
		{text: "/luck", want: "Error building luck report: Sleeper API error (Status: 500)"},
		{text: "/owner ali", want: "Error looking up owner: Sleeper API error (Status: 500)"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			h, api := newHandler(defaultRosters())
			api.rostersErr = &sleeper.StatusError{Endpoint: "/league/L1/rosters", StatusCode: http.StatusInternalServerError}

			msg := h.HandleCommand(context.Background(), commandUpdate(tt.text))

			require.Equal(t, tt.want, msg.Text)
		})
	}
}
