package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the workspace API endpoint.
	DefaultBaseURL = "https://api.notion.com/v1"

	// apiVersion is sent in the Notion-Version header on every request.
	// The API requires a pinned version so response shapes stay stable.
	apiVersion = "2022-06-28"

	// DefaultTimeout is the per-request timeout. This is independent of
	// the rate-limit backoff timer in the page creator: the timeout bounds
	// one network call, the backoff spaces calls apart.
	DefaultTimeout = 30 * time.Second

	// maxErrorBodySize bounds how much of an error response body we read.
	maxErrorBodySize = 64 * 1024
)

// API is the remote client surface consumed by the import orchestrator.
// The production implementation is Client; tests substitute fakes.
//
// Design decision: Collaborators are passed into the orchestrator as
// explicit interface values rather than looked up from package-level
// state. Keeping the interface here, next to the production type, gives
// every consumer one import for both.
type API interface {
	// Authenticate verifies the configured token against the remote API.
	Authenticate(ctx context.Context) error

	// CreatePage creates one remote page and returns its remote identity.
	// Rate-limit responses are returned as *RateLimitError; everything
	// else surfaces as *APIError or a transport error.
	CreatePage(ctx context.Context, parent Parent, title, content string, properties map[string]any) (*PageRef, error)
}

// Parent addresses where a new remote page is created: directly under a
// database (for hierarchy roots) or under an existing remote page.
// Exactly one field is set.
type Parent struct {
	// DatabaseID places the page at the top of a database.
	DatabaseID string `json:"database_id,omitempty"`

	// PageID places the page under an existing page.
	PageID string `json:"page_id,omitempty"`
}

// PageRef identifies a page created on the remote workspace.
type PageRef struct {
	// ID is the remote page identifier, used as the parent for children.
	ID string `json:"id"`

	// URL is the browsable URL of the created page.
	URL string `json:"url"`
}

// Client talks to the workspace HTTP API.
// It injects the bearer token and API version into every request through a
// wrapping RoundTripper, so call sites never handle credentials.
type Client struct {
	// baseURL is the API endpoint without a trailing slash.
	baseURL string

	// httpClient carries the per-request timeout and the auth transport.
	httpClient *http.Client

	// logger for structured logging.
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint. Used in tests against httptest
// servers and for self-hosted workspace deployments.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithClientLogger sets a custom logger for the client.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a workspace API client using the given bearer token.
//
// This function validates the token is present but does not verify it
// against the API. Call Authenticate() to verify.
//
// Design decision: We don't authenticate in the constructor because it
// separates object creation from network operations and lets dry runs
// build a client without touching the network.
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &authTransport{
				base:  http.DefaultTransport,
				token: token,
			},
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Authenticate verifies connectivity and the token by fetching the bot
// user the token belongs to.
func (c *Client) Authenticate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/me", nil)
	if err != nil {
		return fmt.Errorf("failed to build authentication request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("authentication request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only response body

	switch {
	case resp.StatusCode == http.StatusOK:
		c.logger.Debug("authenticated against workspace API")
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrAuthenticationFailed, resp.StatusCode)
	default:
		return c.errorFromResponse(resp)
	}
}

// createPageRequest is the page-creation payload.
type createPageRequest struct {
	Parent     Parent         `json:"parent"`
	Title      string         `json:"title"`
	Content    string         `json:"content,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// CreatePage issues one page-creation call. It performs no retries; the
// page creator owns the retry policy.
func (c *Client) CreatePage(ctx context.Context, parent Parent, title, content string, properties map[string]any) (*PageRef, error) {
	payload, err := json.Marshal(createPageRequest{
		Parent:     parent,
		Title:      title,
		Content:    content,
		Properties: properties,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode page payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build page request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("page creation request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only response body

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.errorFromResponse(resp)
	}

	var ref PageRef
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return nil, fmt.Errorf("failed to decode page response: %w", err)
	}

	c.logger.Debug("created remote page",
		"title", title,
		"remote_id", ref.ID,
	)
	return &ref, nil
}

// apiErrorBody is the error response shape of the workspace API.
type apiErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorFromResponse classifies a non-success response.
// 429 responses and responses carrying the "rate_limited" code become
// *RateLimitError so the creator knows to back off and retry; everything
// else becomes *APIError.
func (c *Client) errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize)) //nolint:errcheck // Best-effort body read

	var apiErr apiErrorBody
	_ = json.Unmarshal(body, &apiErr) //nolint:errcheck // Non-JSON error bodies are acceptable

	if resp.StatusCode == http.StatusTooManyRequests || apiErr.Code == "rate_limited" {
		return &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}

	message := apiErr.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       apiErr.Code,
		Message:    message,
	}
}

// parseRetryAfter parses a Retry-After header given in seconds.
// HTTP-date values are rare from this API and are treated as absent.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// authTransport wraps an http.RoundTripper to inject the bearer token and
// API version header into every request, including redirects.
type authTransport struct {
	base  http.RoundTripper
	token string
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.token)
	clone.Header.Set("Notion-Version", apiVersion)
	return t.base.RoundTrip(clone)
}
