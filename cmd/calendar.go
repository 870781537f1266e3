package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/config"
)

func newCalendarCmd() *cobra.Command {
	var maxResults int64

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "List upcoming Google Calendar events",
		Long:  `List events from your primary Google Calendar over the next seven days.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()

			_, calendarClient, err := googleClients(ctx, cfg, newLogger())
			if err != nil {
				return err
			}

			result, err := calendarClient.ListUpcoming(ctx, maxResults)
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}

			if result.Count == 0 {
				fmt.Println("No upcoming events")
				return nil
			}

			for _, event := range result.Events {
				fmt.Printf("%s\n    Start: %s\n    End:   %s\n", event.Summary, event.Start, event.End)
				if event.Location != "" {
					fmt.Printf("    Where: %s\n", event.Location)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&maxResults, "max", "n", 10, "Maximum number of events to list")

	return cmd
}
