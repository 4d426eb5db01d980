package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/diegoclair/slack-duty-bot/internal/domain"
	"github.com/joho/godotenv"
)

type Config struct {
	SlackBotToken      string `env:"SLACK_BOT_TOKEN,required,notEmpty"`
	SlackSigningSecret string `env:"SLACK_SIGNING_SECRET,required,notEmpty"`
	SlackChannelID     string `env:"SLACK_CHANNEL_ID,required,notEmpty"`
	Port               string `env:"PORT" envDefault:"3000"`

	StateDir     string `env:"STATE_DIR" envDefault:"./data"`
	DatabasePath string `env:"DATABASE_PATH"`

	// TeamMembers seeds the roster when no state file exists yet.
	TeamMembers  []string `env:"TEAM_MEMBERS" envSeparator:","`
	AdminUserIDs []string `env:"ADMIN_USER_IDS" envSeparator:","`

	ReminderTime     string        `env:"REMINDER_TIME" envDefault:"09:00"`
	ReminderTimezone string        `env:"REMINDER_TIMEZONE" envDefault:"UTC"`
	ReminderDays     string        `env:"REMINDER_DAYS" envDefault:"1,2,3,4,5"`
	Role             string        `env:"ROLE" envDefault:"On duty"`
	ResponseTimeout  time.Duration `env:"RESPONSE_TIMEOUT" envDefault:"8h"`

	SlackTimeout   time.Duration `env:"SLACK_TIMEOUT" envDefault:"10s"`
	SlackRateLimit float64       `env:"SLACK_RATE_LIMIT" envDefault:"1"`
	SlackRateBurst int           `env:"SLACK_RATE_BURST" envDefault:"3"`

	// SchedulerEnabled pins the daily reminder to one instance; replicas set it to false.
	SchedulerEnabled bool `env:"SCHEDULER_ENABLED" envDefault:"true"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	location      *time.Location
	hour, minute  int
	activeDays    []int
	envFileLoaded bool
}

// Load reads .env (when present) and the process environment. Every error it
// returns wraps domain.ErrConfiguration.
func Load() (*Config, error) {
	// godotenv.Load will not override existing env variables.
	envErr := godotenv.Load()
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: failed to read .env: %v", domain.ErrConfiguration, envErr)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	cfg.envFileLoaded = envErr == nil

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	c.TeamMembers = cleanIDs(c.TeamMembers)
	c.AdminUserIDs = cleanIDs(c.AdminUserIDs)
	c.Role = strings.TrimSpace(c.Role)
	if c.Role == "" {
		c.Role = domain.DefaultRole
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.StateDir, "rotation.db")
	}

	at, err := time.Parse("15:04", strings.TrimSpace(c.ReminderTime))
	if err != nil {
		return fmt.Errorf("invalid REMINDER_TIME %q, use HH:MM (24-hour format)", c.ReminderTime)
	}
	c.hour, c.minute = at.Hour(), at.Minute()

	loc, err := time.LoadLocation(c.ReminderTimezone)
	if err != nil {
		return fmt.Errorf("invalid REMINDER_TIMEZONE %q: %v", c.ReminderTimezone, err)
	}
	c.location = loc

	c.activeDays = domain.ParseDays(c.ReminderDays)
	if len(c.activeDays) == 0 {
		return fmt.Errorf("invalid REMINDER_DAYS %q, use numbers 1-7 (1=Mon ... 7=Sun)", c.ReminderDays)
	}

	if c.ResponseTimeout <= 0 {
		return fmt.Errorf("RESPONSE_TIMEOUT must be positive")
	}
	if c.SlackTimeout <= 0 {
		return fmt.Errorf("SLACK_TIMEOUT must be positive")
	}
	if c.SlackRateLimit <= 0 || c.SlackRateBurst < 1 {
		return fmt.Errorf("SLACK_RATE_LIMIT must be positive and SLACK_RATE_BURST at least 1")
	}

	return nil
}

func (c *Config) Location() *time.Location {
	return c.location
}

// ReminderAt returns the configured hour and minute of the daily reminder.
func (c *Config) ReminderAt() (hour, minute int) {
	return c.hour, c.minute
}

// ActiveDays returns ISO weekdays (1=Monday ... 7=Sunday).
func (c *Config) ActiveDays() []int {
	return c.activeDays
}

func (c *Config) EnvFileLoaded() bool {
	return c.envFileLoaded
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
