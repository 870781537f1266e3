package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/config"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the assistant a question",
		Long: `Send a natural-language request to the assistant. The assistant can read
your Gmail inbox and read or create Google Calendar events while
answering.

Without arguments an interactive session is started. Type 'quit' or
'exit' to leave it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()

			assistant, err := buildAssistant(ctx, cfg, newLogger(), nil)
			if err != nil {
				return err
			}

			question := strings.TrimSpace(strings.Join(args, " "))
			if question != "" {
				answer, err := assistant.Query(ctx, question)
				if err != nil {
					return fmt.Errorf("query failed: %w", err)
				}
				fmt.Println(answer)
				return nil
			}

			fmt.Println("aide ready. Type 'quit' to exit.")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "quit" || line == "exit" {
					break
				}

				answer, err := assistant.Query(ctx, line)
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					continue
				}
				fmt.Println(answer)
			}
			return scanner.Err()
		},
	}

	return cmd
}
