package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/calendar"
	"github.com/aide-assistant/aide/internal/config"
)

func newScheduleCmd() *cobra.Command {
	var input calendar.EventInput

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Create a Google Calendar event",
		Long: `Create an event on your primary Google Calendar. Start and end times are
ISO 8601 timestamps, e.g. '2026-09-01T14:00:00Z' or
'2026-09-01T14:00:00'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()

			_, calendarClient, err := googleClients(ctx, cfg, newLogger())
			if err != nil {
				return err
			}

			created, err := calendarClient.CreateEvent(ctx, input)
			if err != nil {
				return fmt.Errorf("failed to create event: %w", err)
			}

			fmt.Printf("Created event %s\n", created.EventID)
			if created.HTMLLink != "" {
				fmt.Printf("Link: %s\n", created.HTMLLink)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Summary, "summary", "", "Event title (required)")
	cmd.Flags().StringVar(&input.Start, "start", "", "Start time, ISO 8601 (required)")
	cmd.Flags().StringVar(&input.End, "end", "", "End time, ISO 8601 (required)")
	cmd.Flags().StringVar(&input.Description, "description", "", "Event description")
	cmd.Flags().StringVar(&input.Location, "location", "", "Event location")
	cmd.Flags().StringArrayVar(&input.Attendees, "attendee", nil, "Attendee email address (repeatable)")
	_ = cmd.MarkFlagRequired("summary")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
