package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/config"
	"github.com/aide-assistant/aide/internal/google"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Gmail and Google Calendar",
		Long: `Run the Google OAuth consent flow. A consent URL is printed; open it in
a browser, approve access, and paste the authorization code back here.
The resulting token is cached on disk and refreshed automatically
afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()

			creds, err := google.NewCredentialManager(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile, newLogger())
			if err != nil {
				return fmt.Errorf("failed to load Google credentials: %w", err)
			}

			if creds.HasToken() {
				fmt.Println("A token is already cached. Continuing will replace it.")
			}

			fmt.Printf("Open the following URL in your browser:\n\n%s\n\n", creds.AuthURL())
			fmt.Print("Enter the authorization code: ")

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			if err := creds.Authorize(ctx, code); err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}

			fmt.Printf("Token saved to %s\n", cfg.GoogleTokenFile)
			return nil
		},
	}

	return cmd
}
