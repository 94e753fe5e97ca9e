// Package catalog is the typed client for the Woofinder adoption catalog
// service. Session state is a cookie the service sets on login; the client
// keeps it in a jar and sends it on every call.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// MaxBatchSize is the service's cap on IDs or zip codes per batch request.
// The client splits larger inputs; exceeding the cap is never surfaced.
const MaxBatchSize = 100

// Config holds configuration for the catalog client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// DefaultConfig returns sensible defaults for the hosted service.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://frontend-take-home-service.fetch.com",
		Timeout: 30 * time.Second,
	}
}

// Client talks to the catalog service. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the given base URL with default settings.
func NewClient(baseURL string) *Client {
	cfg := DefaultConfig()
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom config.
func NewClientWithConfig(cfg Config) *Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Login starts a session. The service sets the fetch-access-token cookie
// (it expires after an hour); the jar carries it on subsequent calls.
func (c *Client) Login(ctx context.Context, name, email string) error {
	body := map[string]string{"name": name, "email": email}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, nil); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	c.logger.Info("session started", zap.String("email", email))
	return nil
}

// Logout ends the session and invalidates the cookie server-side.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, struct{}{}, nil); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	c.logger.Info("session ended")
	return nil
}

// Breeds returns every breed name the service knows. Static reference data;
// callers cache it for the session.
func (c *Client) Breeds(ctx context.Context) ([]string, error) {
	var breeds []string
	if err := c.do(ctx, http.MethodGet, "/dogs/breeds", nil, nil, &breeds); err != nil {
		return nil, fmt.Errorf("breed list failed: %w", err)
	}
	return breeds, nil
}

// SearchDogs runs a cursor-paginated search and returns one page of IDs.
func (c *Client) SearchDogs(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	values := url.Values{}
	for _, breed := range q.Breeds {
		values.Add("breeds", breed)
	}
	for _, zip := range q.ZipCodes {
		values.Add("zipCodes", zip)
	}
	if q.AgeMin != nil {
		values.Set("ageMin", strconv.Itoa(*q.AgeMin))
	}
	if q.AgeMax != nil {
		values.Set("ageMax", strconv.Itoa(*q.AgeMax))
	}
	if q.Size > 0 {
		values.Set("size", strconv.Itoa(q.Size))
	}
	if q.From != "" {
		values.Set("from", q.From)
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}

	var result SearchResult
	if err := c.do(ctx, http.MethodGet, "/dogs/search", values, nil, &result); err != nil {
		return nil, fmt.Errorf("dog search failed: %w", err)
	}
	c.logger.Debug("search page",
		zap.Int("results", len(result.ResultIDs)),
		zap.Int("total", result.Total))
	return &result, nil
}

// Dogs fetches full records for the given IDs, in the given order. Inputs
// larger than MaxBatchSize are split into multiple calls transparently.
func (c *Client) Dogs(ctx context.Context, ids []string) ([]Dog, error) {
	dogs, err := fetchBatched(ctx, ids, func(ctx context.Context, batch []string) ([]Dog, error) {
		var out []Dog
		if err := c.do(ctx, http.MethodPost, "/dogs", nil, batch, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("dog lookup failed: %w", err)
	}
	return dogs, nil
}

// Match asks the service to pick one ID from the list: the dog the visitor
// has been matched with for adoption.
func (c *Client) Match(ctx context.Context, ids []string) (string, error) {
	var result struct {
		Match string `json:"match"`
	}
	if err := c.do(ctx, http.MethodPost, "/dogs/match", nil, ids, &result); err != nil {
		return "", fmt.Errorf("match selection failed: %w", err)
	}
	return result.Match, nil
}

// Locations fetches location records for the given zip codes. Entries come
// back nil for zip codes the service does not know; positions are preserved.
func (c *Client) Locations(ctx context.Context, zipCodes []string) ([]*Location, error) {
	locs, err := fetchBatched(ctx, zipCodes, func(ctx context.Context, batch []string) ([]*Location, error) {
		var out []*Location
		if err := c.do(ctx, http.MethodPost, "/locations", nil, batch, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("location lookup failed: %w", err)
	}
	return locs, nil
}

// SearchLocations searches locations by city, state or geo bounding box.
func (c *Client) SearchLocations(ctx context.Context, q LocationQuery) (*LocationPage, error) {
	var page LocationPage
	if err := c.do(ctx, http.MethodPost, "/locations/search", nil, q, &page); err != nil {
		return nil, fmt.Errorf("location search failed: %w", err)
	}
	return &page, nil
}

// do performs one request and funnels every failure through the single
// error boundary: non-2xx becomes *Error, transport failures are wrapped.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("request rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
