package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/leaguedash/internal/service"
)

const helpText = "Available commands:\n" +
	"/standings - League standings\n" +
	"/villain - Most wins on the least scoring\n" +
	"/luck - Points vs. wins against the league average\n" +
	"/owner <name> - One owner's record\n" +
	"/refresh - Drop cached league data"

const noRostersText = "League found, but it appears to have no rosters yet."

type Handler struct {
	leagueService *service.LeagueService
	leagueID      string
}

func NewHandler(leagueService *service.LeagueService, leagueID string) *Handler {
	return &Handler{leagueService: leagueService, leagueID: leagueID}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = tgbotapi.ModeMarkdown

	switch command {
	case "start":
		msg.Text = "Welcome to the league dashboard bot! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "standings":
		h.handleStandings(ctx, &msg)
	case "villain":
		h.handleVillain(ctx, &msg)
	case "luck":
		h.handleLuck(ctx, &msg)
	case "owner":
		h.handleOwner(ctx, &msg, args)
	case "refresh":
		h.leagueService.Refresh()
		msg.Text = "League data will be fetched fresh on the next request."
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleStandings(ctx context.Context, msg *tgbotapi.MessageConfig) {
	standings, err := h.leagueService.GetStandings(ctx, h.leagueID)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching standings: %v", err)
	} else {
		msg.Text = standings
	}
}

func (h *Handler) handleVillain(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.leagueService.GetVillain(ctx, h.leagueID)
	switch {
	case errors.Is(err, service.ErrNoStandings):
		msg.Text = noRostersText
	case err != nil:
		msg.Text = fmt.Sprintf("Error selecting villain: %v", err)
	default:
		msg.Text = report
	}
}

func (h *Handler) handleLuck(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.leagueService.GetLuckReport(ctx, h.leagueID)
	switch {
	case errors.Is(err, service.ErrNoStandings):
		msg.Text = noRostersText
	case err != nil:
		msg.Text = fmt.Sprintf("Error building luck report: %v", err)
	default:
		msg.Text = report
	}
}

func (h *Handler) handleOwner(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide an owner name. Usage: /owner <name>"
		return
	}
	result, err := h.leagueService.GetOwner(ctx, h.leagueID, args)
	if err != nil {
		msg.Text = fmt.Sprintf("Error looking up owner: %v", err)
	} else {
		msg.Text = result
	}
}
