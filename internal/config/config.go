// Package config loads application configuration from TOML with environment
// overrides for the deployment surface.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath    = "config.toml"
	DefaultHTTPAddr      = ":3000"
	DefaultChannelPrefix = "sms"
	DefaultPGHost        = "127.0.0.1"
	DefaultPGPort        = 5432
	DefaultPGUser        = "postgres"
	DefaultPGDatabase    = "relayline"
	DefaultPGSSLMode     = "disable"
	DefaultTimeoutSecs   = 10
	DefaultHistoryLimit  = 100
)

// Config is the root application configuration.
type Config struct {
	Log        LogConfig        `toml:"log"`
	Server     ServerConfig     `toml:"server"`
	Slack      SlackConfig      `toml:"slack"`
	Twilio     TwilioConfig     `toml:"twilio"`
	Postgres   PostgresConfig   `toml:"postgres"`
	TriggerAPI TriggerAPIConfig `toml:"trigger_api"`
	Bridge     BridgeConfig     `toml:"bridge"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// SlackConfig holds Slack credentials and identity. BotID is the bot
// authorship marker on relayed posts; BotUserID is the workspace user
// invited into newly created conversation channels.
type SlackConfig struct {
	SigningSecret string `toml:"signing_secret"`
	BotToken      string `toml:"bot_token"`
	UserToken     string `toml:"user_token"`
	BotID         string `toml:"bot_id"`
	BotUserID     string `toml:"bot_user_id"`
	ChannelPrefix string `toml:"channel_prefix"`
}

// TwilioConfig holds SMS gateway credentials.
type TwilioConfig struct {
	AccountSID string `toml:"account_sid"`
	AuthToken  string `toml:"auth_token"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// TriggerAPIConfig holds the shared secret for the programmatic trigger endpoint.
type TriggerAPIConfig struct {
	Token string `toml:"token"`
}

// BridgeConfig tunes the relay core: per-call timeout for external APIs and
// how much channel history the reaction relay inspects.
type BridgeConfig struct {
	ExternalTimeoutSeconds int `toml:"external_timeout_seconds"`
	HistoryLimit           int `toml:"history_limit"`
}

// Load reads the TOML config at path (missing file is fine), applies defaults,
// then applies environment overrides. Call Validate before using the result.
func Load(path string) (Config, error) {
	cfg := Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{Addr: DefaultHTTPAddr},
		Slack:  SlackConfig{ChannelPrefix: DefaultChannelPrefix},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Bridge: BridgeConfig{
			ExternalTimeoutSeconds: DefaultTimeoutSecs,
			HistoryLimit:           DefaultHistoryLimit,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Slack.SigningSecret, "SLACK_SIGNING_SECRET")
	setString(&cfg.Slack.BotToken, "SLACK_BOT_TOKEN")
	setString(&cfg.Slack.UserToken, "SLACK_USER_TOKEN")
	setString(&cfg.Slack.BotID, "SLACK_BOT_ID")
	setString(&cfg.Slack.BotUserID, "SLACK_BOT_USER_ID")
	setString(&cfg.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	setString(&cfg.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	setString(&cfg.Postgres.Host, "POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "POSTGRES_PORT")
	setString(&cfg.Postgres.User, "POSTGRES_USER")
	setString(&cfg.Postgres.Password, "POSTGRES_PASSWORD")
	setString(&cfg.Postgres.Database, "POSTGRES_DATABASE")
	setString(&cfg.Postgres.SSLMode, "POSTGRES_SSLMODE")
	setString(&cfg.TriggerAPI.Token, "TRIGGER_API_TOKEN")

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate reports every missing required value at once. A non-nil error is a
// startup-fatal condition, not something to recover from at runtime.
func (c Config) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"slack signing secret", c.Slack.SigningSecret},
		{"slack bot token", c.Slack.BotToken},
		{"slack user token", c.Slack.UserToken},
		{"slack bot id", c.Slack.BotID},
		{"slack bot user id", c.Slack.BotUserID},
		{"twilio account sid", c.Twilio.AccountSID},
		{"twilio auth token", c.Twilio.AuthToken},
		{"trigger api token", c.TriggerAPI.Token},
		{"postgres user", c.Postgres.User},
		{"postgres database", c.Postgres.Database},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
