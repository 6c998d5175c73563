package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("LEAGUE_ID", "123456789")
	t.Setenv("LEAGUE_PASSWORD", "hunter2")
}

func TestNew_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := New()
	require.NoError(t, err)

	require.Equal(t, "123456789", cfg.League.ID)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, "https://api.sleeper.app/v1", cfg.HTTP.SleeperBaseURL)
	require.Equal(t, 5*time.Second, cfg.HTTP.RequestTimeout)
	require.Equal(t, 600*time.Second, cfg.HTTP.CacheTTL)
	require.Equal(t, 24*time.Hour, cfg.HTTP.SessionIdle)
	require.Equal(t, "30 7 * * 2", cfg.Schedule.ReportCron)
	require.False(t, cfg.BotEnabled())
}

func TestNew_MissingRequired(t *testing.T) {
	unsetenv(t, "LEAGUE_ID")
	unsetenv(t, "LEAGUE_PASSWORD")

	_, err := New()
	require.Error(t, err)
}

func TestNew_BotNeedsChatID(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_TOKEN", "token")
	unsetenv(t, "CHAT_ID")

	_, err := New()
	require.ErrorContains(t, err, "CHAT_ID")
}

func TestNew_RejectsNonPositiveSessionIdle(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_IDLE_TIMEOUT", "0s")

	_, err := New()
	require.ErrorContains(t, err, "SESSION_IDLE_TIMEOUT")
}

func TestNew_RejectsShortCSRFKey(t *testing.T) {
	setRequired(t)
	t.Setenv("CSRF_KEY", "too-short")

	_, err := New()
	require.ErrorContains(t, err, "CSRF_KEY")
}

func TestNew_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("CHAT_ID", "-100200")

	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, cfg.HTTP.CacheTTL)
	require.Equal(t, int64(-100200), cfg.TelegramBot.ChatID)
	require.True(t, cfg.BotEnabled())
}
