package cmd

import (
	"context"
	"fmt"

	"github.com/aide-assistant/aide/internal/agent"
	"github.com/aide-assistant/aide/internal/calendar"
	"github.com/aide-assistant/aide/internal/config"
	"github.com/aide-assistant/aide/internal/gmail"
	"github.com/aide-assistant/aide/internal/google"
	"github.com/aide-assistant/aide/internal/instrumentation"
	"github.com/aide-assistant/aide/internal/logging"
)

// googleClients builds the Gmail and Calendar clients from the cached
// OAuth token. It fails with a hint to run `aide auth` when no token
// has been cached yet.
func googleClients(ctx context.Context, cfg *config.Config, logger logging.Logger) (*gmail.Client, *calendar.Client, error) {
	creds, err := google.NewCredentialManager(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load Google credentials: %w", err)
	}

	gmailClient, err := gmail.NewClient(ctx, creds)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Gmail client: %w", err)
	}

	calendarClient, err := calendar.NewClient(ctx, creds)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Calendar client: %w", err)
	}

	return gmailClient, calendarClient, nil
}

// buildAssistant wires the full agent stack: Google backends, tool
// dispatcher and the Anthropic client.
func buildAssistant(ctx context.Context, cfg *config.Config, logger logging.Logger, metrics *instrumentation.Metrics) (*agent.Assistant, error) {
	if err := cfg.RequireAgent(); err != nil {
		return nil, err
	}

	gmailClient, calendarClient, err := googleClients(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	assistant := agent.New(agent.Config{
		APIKey: cfg.AnthropicAPIKey,
		Model:  cfg.AnthropicModel,
	}, gmailClient, calendarClient, logger, metrics)

	return assistant, nil
}
