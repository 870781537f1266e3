// Package google manages OAuth2 credentials for the Google APIs used by
// aide (Gmail and Calendar).
//
// Credentials are read from two files: the client secret JSON downloaded
// from the Google Cloud Console, and a token cache written after the
// one-time authorization flow (`aide auth`). Expired access tokens are
// refreshed through the standard refresh-token flow and the refreshed
// token is persisted back to the cache file.
//
// The CredentialManager is an explicitly owned object. A single instance
// is created at process start and passed by reference to every component
// that needs Google access; token refresh happens under a single-writer
// mutex inside the manager.
package google
