// Package avatar fetches an identicon SVG for a signed-in user from the
// avatar service. Failures are non-fatal: sign-in proceeds without one.
package avatar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Client fetches avatars. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given avatar service base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fetch returns the SVG text for a name-derived identicon: the slug is the
// first initial plus the last name, the overlay text the two initials.
func (c *Client) Fetch(ctx context.Context, name string) (string, error) {
	slug, text := identicon(name)
	if slug == "" {
		return "", fmt.Errorf("avatar: empty name")
	}

	endpoint := fmt.Sprintf("%s/%s.svg?text=%s", c.baseURL, url.PathEscape(slug), url.QueryEscape(text))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("avatar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("avatar request failed with status %d", resp.StatusCode)
	}

	svg, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	return string(svg), nil
}

func identicon(name string) (slug, text string) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	if len(fields) == 0 || fields[0] == "" {
		return "", ""
	}

	// First rune, not first byte: names may start with a multi-byte rune.
	first, _ := utf8.DecodeRuneInString(fields[0])
	last := ""
	if len(fields) > 1 {
		last = fields[len(fields)-1]
	}

	slug = string(first) + last
	text = strings.ToUpper(string(first))
	if last != "" {
		lastInitial, _ := utf8.DecodeRuneInString(last)
		text += strings.ToUpper(string(lastInitial))
	}
	return slug, text
}
