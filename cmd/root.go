package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/logging"
)

var debugMode bool

// rootCmd represents the base command for the aide application
var rootCmd = &cobra.Command{
	Use:   "aide",
	Short: "Personal assistant agent for email and calendar",
	Long: `aide is a personal-assistant chat agent. Natural-language requests are
forwarded to a hosted language-model agent runtime which can read your
Gmail inbox and read or create Google Calendar events on your behalf.

It can run as:
  - A one-shot or interactive CLI (ask, emails, calendar, schedule)
  - A Slack bot using Socket Mode (slack)
  - An MCP (Model Context Protocol) server for AI assistants (serve)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "aide version %s\n" .Version}}`)

	// If no subcommand is provided, run the ask command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "ask")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger honoring the --debug flag.
func newLogger() logging.Logger {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newEmailsCmd())
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newScheduleCmd())
	rootCmd.AddCommand(newSlackCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
