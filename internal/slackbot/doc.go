// Package slackbot connects the assistant to Slack over Socket Mode.
//
// The bot subscribes to direct messages, app mentions, and the
// /assistant slash command. Each incoming event is treated as an
// independent single-turn query: the text is forwarded to the agent and
// the textual response is posted back to the originating channel. No
// session or thread state is tracked across messages. Transport errors
// are handled by the socket client's own reconnect logic.
package slackbot
