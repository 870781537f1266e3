// Package config loads aide's configuration from the environment.
//
// All credentials come from environment variables. A .env file in the
// working directory is honored if present, matching how the Python
// tooling around the Google APIs is usually configured.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Default model used when ANTHROPIC_MODEL is not set.
const DefaultModel = "claude-sonnet-4-5"

// Config holds all runtime configuration for aide.
type Config struct {
	// Anthropic agent runtime
	AnthropicAPIKey string
	AnthropicModel  string

	// Slack bot (Socket Mode needs both tokens)
	SlackBotToken string // xoxb-...
	SlackAppToken string // xapp-...

	// Google OAuth files
	GoogleCredentialsFile string // client secret JSON from Google Cloud Console
	GoogleTokenFile       string // cached token, written after `aide auth`

	// Metrics endpoint
	MetricsEnabled bool
	MetricsAddr    string
}

// Load reads configuration from the environment. A .env file is loaded
// first if one exists; real environment variables take precedence.
func Load() *Config {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		AnthropicAPIKey:       os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:        getenvDefault("ANTHROPIC_MODEL", DefaultModel),
		SlackBotToken:         os.Getenv("SLACK_BOT_TOKEN"),
		SlackAppToken:         os.Getenv("SLACK_APP_TOKEN"),
		GoogleCredentialsFile: getenvDefault("AIDE_GOOGLE_CREDENTIALS", "credentials.json"),
		GoogleTokenFile:       getenvDefault("AIDE_GOOGLE_TOKEN", "token.json"),
		MetricsAddr:           getenvDefault("AIDE_METRICS_ADDR", ":9090"),
	}

	if v, err := strconv.ParseBool(os.Getenv("AIDE_METRICS_ENABLED")); err == nil {
		cfg.MetricsEnabled = v
	}

	return cfg
}

// RequireAgent validates the configuration needed to talk to the hosted
// agent runtime.
func (c *Config) RequireAgent() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY must be set")
	}
	return nil
}

// RequireSlack validates the configuration needed to run the Slack bot.
func (c *Config) RequireSlack() error {
	if c.SlackBotToken == "" || c.SlackAppToken == "" {
		return fmt.Errorf("SLACK_BOT_TOKEN and SLACK_APP_TOKEN must be set")
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
