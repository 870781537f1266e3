package gmail

import (
	"context"
	"fmt"

	gm "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/aide-assistant/aide/internal/google"
)

// Client wraps the Gmail Users service.
type Client struct {
	svc *gm.UsersService
}

// NewClient creates a new Gmail client authenticated through the
// credential manager.
func NewClient(ctx context.Context, creds *google.CredentialManager) (*Client, error) {
	httpClient, err := creds.HTTPClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token: %w", err)
	}

	svc, err := gm.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return NewClientFromService(svc), nil
}

// NewClientFromService wraps an existing Gmail service. Used by tests to
// point the client at a mock API.
func NewClientFromService(svc *gm.Service) *Client {
	return &Client{svc: svc.Users}
}

// ListRecent lists up to maxResults messages matching the Gmail search
// query and returns normalized summaries. The query uses Gmail's own
// filter grammar (e.g. "is:unread", "from:someone@example.com") and is
// passed through unmodified. An empty result is not an error.
func (c *Client) ListRecent(ctx context.Context, query string, maxResults int64) (*ListResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	ids, err := c.listMessageIDs(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	result := &ListResult{Emails: []EmailSummary{}}
	for _, id := range ids {
		msg, err := c.svc.Messages.Get("me", id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", id, err)
		}
		result.Emails = append(result.Emails, toEmailSummary(msg))
	}

	result.Count = len(result.Emails)
	return result, nil
}

// listMessageIDs pages through the message list until maxResults IDs are
// collected or the listing is exhausted.
func (c *Client) listMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		remaining := maxResults - int64(len(ids))
		if remaining <= 0 {
			break
		}

		// Gmail caps the page size at 100.
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Messages.List("me").Q(query).MaxResults(pageSize).Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, err
		}

		for _, msg := range res.Messages {
			ids = append(ids, msg.Id)
		}

		pageToken = res.NextPageToken
		if pageToken == "" || int64(len(ids)) >= maxResults {
			break
		}
	}

	if int64(len(ids)) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}
