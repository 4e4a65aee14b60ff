// Package config loads bug-bot configuration from the environment or a
// JSON file. All values are resolved once at startup; nothing re-reads
// the environment at request time.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the top-level bug-bot configuration.
type Config struct {
	Server  ServerConfig  `json:"server"`
	Slack   SlackConfig   `json:"slack"`
	Tracker TrackerConfig `json:"tracker"`
	Trello  TrelloConfig  `json:"trello"`
	Notify  NotifyConfig  `json:"notify"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// SlackConfig holds Slack API credentials. VerificationToken is the
// shared secret on the inbound trust boundary.
type SlackConfig struct {
	AccessToken       string `json:"access_token"`
	VerificationToken string `json:"verification_token"`
}

// TrackerConfig selects and configures the issue tracker backend.
type TrackerConfig struct {
	Backend   string `json:"backend"` // "shortcut" or "trello"
	Token     string `json:"token"`
	ProjectID int64  `json:"project_id"`
	Workspace string `json:"workspace,omitempty"`
}

// TrelloConfig holds the alternate tracker's credentials, used when
// tracker.backend is "trello".
type TrelloConfig struct {
	Key    string `json:"key"`
	Token  string `json:"token"`
	ListID string `json:"list_id"`
	Org    string `json:"org"`
}

// NotifyConfig holds notification routing. DebugMode sends every post to
// DebugChannel instead of the real targets.
type NotifyConfig struct {
	ConfirmationChannel string `json:"confirmation_channel"`
	DebugChannel        string `json:"debug_channel"`
	DebugMode           bool   `json:"debug_mode"`
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv builds the configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getenv("HOST", "0.0.0.0"),
			Port: getenvInt("PORT", 8080),
		},
		Slack: SlackConfig{
			AccessToken:       os.Getenv("SLACK_ACCESS_TOKEN"),
			VerificationToken: os.Getenv("SLACK_VERIFICATION_TOKEN"),
		},
		Tracker: TrackerConfig{
			Backend:   getenv("TRACKER_BACKEND", "shortcut"),
			Token:     os.Getenv("TRACKER_API_TOKEN"),
			ProjectID: getenvInt64("TRACKER_PROJECT_ID", 0),
			Workspace: os.Getenv("TRACKER_WORKSPACE"),
		},
		Trello: TrelloConfig{
			Key:    os.Getenv("TRELLO_KEY"),
			Token:  os.Getenv("TRELLO_ACCESS_TOKEN"),
			ListID: os.Getenv("TRELLO_LIST_ID"),
			Org:    os.Getenv("TRELLO_ORG"),
		},
		Notify: NotifyConfig{
			ConfirmationChannel: getenv("CONFIRMATION_CHANNEL", "#bugs"),
			DebugChannel:        getenv("DEBUG_CHANNEL", "#integration-sandbox"),
			DebugMode:           getenvBool("DEBUG_MODE", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Tracker.Backend == "" {
		cfg.Tracker.Backend = "shortcut"
	}
	if cfg.Notify.ConfirmationChannel == "" {
		cfg.Notify.ConfirmationChannel = "#bugs"
	}
	if cfg.Notify.DebugChannel == "" {
		cfg.Notify.DebugChannel = "#integration-sandbox"
	}
}

// Validate checks for required fields, collecting every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Slack.AccessToken == "" {
		errs = append(errs, "slack.access_token is required")
	}
	if c.Slack.VerificationToken == "" {
		errs = append(errs, "slack.verification_token is required")
	}

	switch c.Tracker.Backend {
	case "shortcut":
		if c.Tracker.Token == "" {
			errs = append(errs, "tracker.token is required")
		}
		if c.Tracker.ProjectID == 0 {
			errs = append(errs, "tracker.project_id is required")
		}
	case "trello":
		if c.Trello.Key == "" {
			errs = append(errs, "trello.key is required")
		}
		if c.Trello.Token == "" {
			errs = append(errs, "trello.token is required")
		}
		if c.Trello.ListID == "" {
			errs = append(errs, "trello.list_id is required")
		}
		if c.Trello.Org == "" {
			errs = append(errs, "trello.org is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("tracker.backend must be \"shortcut\" or \"trello\", got %q", c.Tracker.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
