package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/config"
)

func newEmailsCmd() *cobra.Command {
	var (
		maxResults int64
		query      string
	)

	cmd := &cobra.Command{
		Use:   "emails",
		Short: "List recent Gmail messages",
		Long: `List recent messages from your Gmail inbox without going through the
assistant. The query flag accepts Gmail search syntax, e.g. 'is:unread'
or 'from:alice@example.com'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()

			gmailClient, _, err := googleClients(ctx, cfg, newLogger())
			if err != nil {
				return err
			}

			result, err := gmailClient.ListRecent(ctx, query, maxResults)
			if err != nil {
				return fmt.Errorf("failed to list emails: %w", err)
			}

			if result.Count == 0 {
				fmt.Println("No emails found")
				return nil
			}

			for _, email := range result.Emails {
				marker := " "
				if email.Unread {
					marker = "*"
				}
				fmt.Printf("%s %s\n    From: %s\n    Date: %s\n", marker, email.Subject, email.From, email.Date)
				if email.Snippet != "" {
					fmt.Printf("    %s\n", email.Snippet)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&maxResults, "max", "n", 10, "Maximum number of emails to list")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Gmail search query")

	return cmd
}
