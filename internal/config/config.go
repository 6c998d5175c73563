package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	League      League
	HTTP        HTTP
	TelegramBot TelegramBot
	Schedule    Schedule
}

type League struct {
	ID       string `envconfig:"LEAGUE_ID" required:"true"`
	Password string `envconfig:"LEAGUE_PASSWORD" required:"true"`
}

type HTTP struct {
	Addr           string        `envconfig:"HTTP_ADDR" default:":8080"`
	SleeperBaseURL string        `envconfig:"SLEEPER_BASE_URL" default:"https://api.sleeper.app/v1"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"5s"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"600s"`
	SessionIdle    time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"24h"`
	CSRFKey        string        `envconfig:"CSRF_KEY"`
	SecureCookies  bool          `envconfig:"SECURE_COOKIES" default:"false"`
}

// TelegramBot is optional; the bot is disabled when Token is empty.
type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

type Schedule struct {
	ReportCron string `envconfig:"REPORT_CRON" default:"30 7 * * 2"`
	Timezone   string `envconfig:"TIMEZONE" default:"America/Chicago"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.HTTP.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.HTTP.RequestTimeout)
	}
	if c.HTTP.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.HTTP.CacheTTL)
	}
	if c.HTTP.SessionIdle <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %s", c.HTTP.SessionIdle)
	}
	if c.HTTP.CSRFKey != "" && len(c.HTTP.CSRFKey) != 32 {
		return fmt.Errorf("CSRF_KEY must be exactly 32 bytes, got %d", len(c.HTTP.CSRFKey))
	}
	if c.TelegramBot.Token != "" && c.TelegramBot.ChatID == 0 {
		return fmt.Errorf("CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	return nil
}

// BotEnabled reports whether a Telegram token was configured.
func (c *Config) BotEnabled() bool {
	return c.TelegramBot.Token != ""
}
