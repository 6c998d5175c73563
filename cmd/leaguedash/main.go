package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/omarshaarawi/leaguedash/internal/api/sleeper"
	"github.com/omarshaarawi/leaguedash/internal/bot"
	"github.com/omarshaarawi/leaguedash/internal/config"
	"github.com/omarshaarawi/leaguedash/internal/dashboard"
	"github.com/omarshaarawi/leaguedash/internal/gate"
	"github.com/omarshaarawi/leaguedash/internal/repository/memory"
	"github.com/omarshaarawi/leaguedash/internal/scheduler"
	"github.com/omarshaarawi/leaguedash/internal/service"
	"github.com/omarshaarawi/leaguedash/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	sleeperAPI := sleeper.NewAPI(sleeper.NewClient(cfg.HTTP.SleeperBaseURL, cfg.HTTP.RequestTimeout))
	repo := memory.NewRepository()
	clock := clockwork.NewRealClock()
	leagueService := service.NewLeagueService(sleeperAPI, repo, cfg.HTTP.CacheTTL, clock)

	gatekeeper := gate.New(cfg.League.Password, gate.WithClock(clock))
	dash := dashboard.New(gatekeeper, leagueService, cfg.League.ID)

	key, err := csrfKey(cfg.HTTP.CSRFKey)
	if err != nil {
		return err
	}
	server := web.NewServer(dash, gatekeeper, web.Options{
		CSRFKey:       key,
		SecureCookies: cfg.HTTP.SecureCookies,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schedCfg := scheduler.Config{
		LeagueID:    cfg.League.ID,
		ReportCron:  cfg.Schedule.ReportCron,
		Timezone:    cfg.Schedule.Timezone,
		Sessions:    gatekeeper,
		SessionIdle: cfg.HTTP.SessionIdle,
		Clock:       clock,
	}

	if cfg.BotEnabled() {
		telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, leagueService, cfg.League.ID)
		if err != nil {
			return err
		}
		schedCfg.SendMessage = telegramBot.SendMessage

		go func() {
			if err := telegramBot.Start(ctx); err != nil {
				slog.Error("Error running telegram bot", "error", err)
			}
		}()
	} else {
		slog.Info("Telegram bot disabled, TELEGRAM_TOKEN not set")
	}

	sched, err := scheduler.NewScheduler(leagueService, schedCfg)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "addr", cfg.HTTP.Addr, "league_id", cfg.League.ID)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	return nil
}

// csrfKey returns the configured key, or a random one that lasts for the
// process lifetime. Sessions are in memory, so tokens never outlive it anyway.
func csrfKey(configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating csrf key: %w", err)
	}
	return key, nil
}
