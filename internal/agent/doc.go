// Package agent wraps the hosted conversational agent runtime.
//
// The Assistant sends each user request to the Anthropic Messages API
// together with a system prompt and the declared tool schemas. When the
// model answers with a tool invocation, the request is dispatched to the
// local tool set and the result is returned to the model as the next
// conversation turn, repeating until a final text answer is produced.
// Conversation turns are held only for the duration of one Query call;
// nothing is persisted across calls.
package agent
