// Package tools declares the closed set of functions the hosted agent
// may invoke, and the dispatcher that executes them.
//
// The set is an explicit enumeration: one Tool implementation per
// function, assembled by All. There is no dynamic registration, so the
// set of valid tool names is checkable at compile time; only the hosted
// agent can produce an unknown name, and that case is answered with an
// error-described result rather than a failure.
//
// Error policy: any failure from an underlying API call is converted
// into a descriptive result handed back to the agent, never raised to
// the caller. The agent decides whether to retry or explain the failure
// to the user. No retry, backoff, or idempotency logic lives here.
package tools
