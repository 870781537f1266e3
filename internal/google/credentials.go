package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/aide-assistant/aide/internal/logging"
)

// Scopes requested during authorization. Gmail access is read-only;
// Calendar needs write access for event creation.
var Scopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/calendar",
}

// CredentialManager owns the OAuth2 client configuration and the on-disk
// token cache for one Google account.
type CredentialManager struct {
	conf      *oauth2.Config
	tokenFile string
	logger    logging.Logger

	mu    sync.Mutex // guards token refresh and cache writes
	token *oauth2.Token
}

// NewCredentialManager loads the OAuth client configuration from the
// client secret file. The token cache file does not need to exist yet.
func NewCredentialManager(credentialsFile, tokenFile string, logger logging.Logger) (*CredentialManager, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials from %s: %w (download it from the Google Cloud Console)", credentialsFile, err)
	}

	conf, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	if logger == nil {
		logger = logging.NewSlogAdapter(nil)
	}

	return &CredentialManager{conf: conf, tokenFile: tokenFile, logger: logger}, nil
}

// HasToken reports whether a cached token exists on disk.
func (m *CredentialManager) HasToken() bool {
	_, err := os.Stat(m.tokenFile)
	return err == nil
}

// AuthURL returns the consent URL for the one-time authorization flow.
func (m *CredentialManager) AuthURL() string {
	return m.conf.AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// Authorize exchanges an authorization code for a token pair and saves it
// to the token cache file.
func (m *CredentialManager) Authorize(ctx context.Context, authCode string) error {
	token, err := m.conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("exchange auth code: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return m.saveLocked(token)
}

// TokenSource returns an auto-refreshing token source backed by the cache
// file. Refreshed tokens are written back so the next process start does
// not need to refresh again.
func (m *CredentialManager) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil {
		token, err := m.loadLocked()
		if err != nil {
			return nil, err
		}
		m.token = token
	}

	return &persistingTokenSource{
		mgr:  m,
		base: m.conf.TokenSource(ctx, m.token),
	}, nil
}

// HTTPClient returns an HTTP client that authenticates requests with the
// managed token.
func (m *CredentialManager) HTTPClient(ctx context.Context) (*http.Client, error) {
	ts, err := m.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			ForceAttemptHTTP2: false,
		}
	}

	return client, nil
}

func (m *CredentialManager) loadLocked() (*oauth2.Token, error) {
	data, err := os.ReadFile(m.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("no Google OAuth token found at %s: %w (run `aide auth` first)", m.tokenFile, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse token cache %s: %w", m.tokenFile, err)
	}
	if token.RefreshToken == "" && token.AccessToken == "" {
		return nil, fmt.Errorf("token cache %s holds no usable token", m.tokenFile)
	}

	return &token, nil
}

func (m *CredentialManager) saveLocked(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.tokenFile, data, 0o600); err != nil {
		return fmt.Errorf("write token cache %s: %w", m.tokenFile, err)
	}
	return nil
}

// persistingTokenSource refreshes through the wrapped source and writes
// refreshed tokens back to the cache file. All refreshes go through the
// manager's mutex, so there is exactly one writer.
type persistingTokenSource struct {
	mgr  *CredentialManager
	base oauth2.TokenSource
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	s.mgr.mu.Lock()
	defer s.mgr.mu.Unlock()

	token, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	if s.mgr.token == nil || token.AccessToken != s.mgr.token.AccessToken {
		s.mgr.token = token
		if saveErr := s.mgr.saveLocked(token); saveErr != nil {
			// Non-fatal: the token is still valid for this process.
			s.mgr.logger.Warn("could not save refreshed token", "file", s.mgr.tokenFile, "err", saveErr)
		}
	}

	return token, nil
}
