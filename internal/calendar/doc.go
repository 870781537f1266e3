// Package calendar provides a client for reading and creating events
// through the Google Calendar API.
//
// Upcoming events are listed from the primary calendar over a seven-day
// window. Event creation issues a single insert; no local representation
// of the event persists after the call returns.
package calendar
