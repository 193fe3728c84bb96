// Package notify provides the side-channel that posts human-readable status
// messages back to the originating ticket thread. Notifier failures are
// always swallowed by callers; a notification outage never fails ingestion.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Notifier posts a human-readable message.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Discard is a Notifier that drops every message.
type Discard struct{}

func (Discard) Notify(context.Context, string) error { return nil }

// CommentPoster posts messages as issue comments over HTTP.
type CommentPoster struct {
	URL    string
	Token  string
	Client *http.Client
}

// NewCommentPoster creates a poster targeting the given comments URL.
func NewCommentPoster(url, token string) *CommentPoster {
	return &CommentPoster{
		URL:    url,
		Token:  token,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *CommentPoster) Notify(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{"body": message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("comment post returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
