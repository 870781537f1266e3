package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/config"
	"github.com/aide-assistant/aide/internal/server"
	"github.com/aide-assistant/aide/internal/tools"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start an MCP (Model Context Protocol) server on stdio exposing the
assistant's Gmail and Calendar tools to AI assistants such as Claude
Desktop. The hosted agent runtime is not involved; callers drive the
tools directly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()
			logger := newLogger()

			gmailClient, calendarClient, err := googleClients(ctx, cfg, logger)
			if err != nil {
				return err
			}

			dispatcher := tools.NewDispatcher(tools.All(gmailClient, calendarClient), logger)

			srv, err := server.New(dispatcher, version)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			logger.Info("starting MCP server on stdio")
			if err := server.ServeStdio(srv); err != nil {
				return fmt.Errorf("MCP server failed: %w", err)
			}
			return nil
		},
	}

	return cmd
}
