package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the process-wide modflag configuration, loaded once at startup.
type Config struct {
	Env          string
	LogLevel     string
	DatabasePath string
	FlagReport   FlagReportConfig
	EmailServer  EmailServerConfig
	Slack        SlackConfig
	Redis        RedisConfig
}

// FlagReportConfig controls the flag workflow and its moderation recipients.
type FlagReportConfig struct {
	Recipients          []Recipient
	TemplateID          string
	EscalationCount     int
	StrictNotifications bool // Propagate email/chat-ops failures instead of logging them
}

// Recipient is one configured moderation email address.
type Recipient struct {
	Email   string
	CanSend bool
}

// EmailServerConfig points at the transactional email job server.
type EmailServerConfig struct {
	URL          string
	AuthUser     string
	AuthPassword string
}

// SlackConfig configures the flagging webhook.
type SlackConfig struct {
	FlaggingURL string
	FooterLink  string
}

// RedisConfig configures the base alert stream.
type RedisConfig struct {
	URL    string
	Stream string
}

// Load loads configuration from environment variables.
// In development, a .env file in the working directory is loaded first if present.
func Load() (Config, error) {
	if getEnv("MODFLAG_ENV", EnvDevelopment) == EnvDevelopment {
		_ = godotenv.Load(".env")
	}

	dbPath := getEnv("MODFLAG_DB_PATH", "")
	if dbPath == "" {
		var err error
		dbPath, err = DefaultDatabasePath()
		if err != nil {
			return Config{}, err
		}
	}

	escalation, err := getEnvInt("FLAG_ESCALATION_COUNT", 0)
	if err != nil {
		return Config{}, err
	}
	strict, err := getEnvBool("FLAG_NOTIFY_STRICT", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Env:          getEnv("MODFLAG_ENV", EnvDevelopment),
		LogLevel:     getEnv("LOG_LEVEL", ""),
		DatabasePath: dbPath,
		FlagReport: FlagReportConfig{
			Recipients:          ParseFlagReportEmails(getEnv("FLAG_REPORT_EMAIL", "")),
			TemplateID:          getEnv("FLAG_REPORT_TEMPLATE", "flag-report-to-mods-with-comments"),
			EscalationCount:     escalation,
			StrictNotifications: strict,
		},
		EmailServer: EmailServerConfig{
			URL:          getEnv("EMAIL_SERVER_URL", ""),
			AuthUser:     getEnv("EMAIL_SERVER_AUTH_USER", ""),
			AuthPassword: getEnv("EMAIL_SERVER_AUTH_PASSWORD", ""),
		},
		Slack: SlackConfig{
			FlaggingURL: getEnv("SLACK_FLAGGING_URL", ""),
			FooterLink:  getEnv("SLACK_FLAGGING_FOOTER_LINK", ""),
		},
		Redis: RedisConfig{
			URL:    getEnv("REDIS_URL", ""),
			Stream: getEnv("FLAG_ALERT_STREAM", "moderation_flags"),
		},
	}

	return cfg, nil
}

// ParseFlagReportEmails turns a comma separated list of addresses into
// recipients, preserving order. Every configured address can receive reports.
func ParseFlagReportEmails(raw string) []Recipient {
	var recipients []Recipient
	for _, email := range strings.Split(raw, ",") {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		recipients = append(recipients, Recipient{Email: email, CanSend: true})
	}
	return recipients
}

// IsDevelopment reports whether the process runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction reports whether the process runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// DefaultDatabasePath returns ~/.modflag/modflag.db.
func DefaultDatabasePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".modflag", "modflag.db"), nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
