// Package status posts commit statuses to the GitHub REST API.
package status

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultBaseURL is the GitHub REST API used when GITHUB_API_URL is unset.
const DefaultBaseURL = "https://api.github.com"

// MaxDescriptionLength is the longest description the statuses API accepts.
const MaxDescriptionLength = 140

// maxErrorBody bounds the response body kept in an APIError.
const maxErrorBody = 512

// Commit states.
const (
	StateSuccess = "success"
	StateFailure = "failure"
	StatePending = "pending"
	StateError   = "error"
)

var (
	// ErrNoToken is returned when posting without a token.
	ErrNoToken = errors.New("no token configured")

	// ErrInvalidTarget is returned when the repository or commit is empty
	// or malformed.
	ErrInvalidTarget = errors.New("invalid repository or commit")
)

// Status is the body of a commit status.
type Status struct {
	State       string `json:"state"`
	Context     string `json:"context"`
	Description string `json:"description"`
	TargetURL   string `json:"target_url,omitempty"`
}

// APIError represents a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Client posts commit statuses with Bearer auth.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client. An empty baseURL selects DefaultBaseURL.
func New(baseURL, token string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post creates a status for sha in repo ("owner/name"). The description is
// truncated to MaxDescriptionLength characters. There are no retries.
func (c *Client) Post(ctx context.Context, repo, sha string, s Status) error {
	if c.token == "" {
		return ErrNoToken
	}
	if sha == "" || strings.Count(repo, "/") != 1 || strings.HasPrefix(repo, "/") || strings.HasSuffix(repo, "/") {
		return fmt.Errorf("%w: repository %q, commit %q", ErrInvalidTarget, repo, sha)
	}

	s.Description = Truncate(s.Description, MaxDescriptionLength)
	body, err := json.Marshal(s)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/repos/%s/statuses/%s", c.baseURL, repo, sha)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return err
	}
	return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
}

// Truncate shortens s to at most n characters, marking the cut with an
// ellipsis.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
