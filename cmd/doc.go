// Package cmd implements the command-line interface for aide.
//
// This package provides the following commands:
//   - ask: Send a question to the assistant, or start an interactive session
//   - emails: List recent Gmail messages without going through the agent
//   - calendar: List upcoming Google Calendar events
//   - schedule: Create a Google Calendar event
//   - slack: Run the Slack Socket Mode bot
//   - serve: Start the MCP server to provide tools for AI assistants
//   - auth: Run the Google OAuth consent flow and cache a token
//   - version: Display version information
//
// The ask command is the default command when no subcommand is specified.
package cmd
