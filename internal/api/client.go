package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ThePrior/Navigation/internal/ctxlog"
	"github.com/ThePrior/Navigation/internal/navmenu"
)

const (
	// DefaultListEndpoint is the list REST path appended to the site URL.
	DefaultListEndpoint = "/sites/ReusableResources/_api/web/lists/getbytitle"
	// SelectQuery selects the menu columns and expands the parent lookup.
	SelectQuery = "$select=Title,Url,Clickable,LookupParentName/Title&$expand=LookupParentName"
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second
	// MaxRetries for rate limit errors
	MaxRetries = 3
	// InitialBackoff for rate limit retries
	InitialBackoff = 2 * time.Second

	acceptNoMetadata = "application/json; odata.metadata=none"
)

// Error types for specific API errors
type (
	// AuthenticationError indicates an authentication failure
	AuthenticationError struct{ Message string }
	// RateLimitError indicates rate limit exceeded
	RateLimitError struct{ Message string }
	// NotFoundError indicates a resource was not found
	NotFoundError struct{ Message string }
	// ValidationError indicates invalid input
	ValidationError struct{ Message string }
)

func (e AuthenticationError) Error() string { return e.Message }
func (e RateLimitError) Error() string      { return e.Message }
func (e NotFoundError) Error() string       { return e.Message }
func (e ValidationError) Error() string     { return e.Message }

// Client reads navigation lists from a SharePoint site over REST.
type Client struct {
	siteURL    string
	endpoint   string
	token      string
	lists      ListNames
	httpClient *http.Client
	backoff    time.Duration
	maxRetries int
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// WithListEndpoint overrides the list REST path.
func WithListEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithLists sets the list names read for each level.
func WithLists(lists ListNames) ClientOption {
	return func(c *Client) {
		c.lists = lists.WithDefaults()
	}
}

// WithTimeout sets a custom timeout for the HTTP client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBackoff sets the initial delay between rate-limit retries.
func WithBackoff(backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.backoff = backoff
	}
}

// NewClient creates a client for the site at siteURL. An empty token sends
// unauthenticated requests.
func NewClient(siteURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		siteURL:    strings.TrimRight(siteURL, "/"),
		endpoint:   DefaultListEndpoint,
		token:      token,
		lists:      DefaultLists,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		backoff:    InitialBackoff,
		maxRetries: MaxRetries,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Describe returns the site URL.
func (c *Client) Describe() string {
	return c.siteURL
}

// ListName returns the list backing level.
func (c *Client) ListName(level navmenu.Level) string { return c.lists.For(level) }

// Lists returns the configured list names.
func (c *Client) Lists() ListNames {
	return c.lists
}

// Close is a no-op; the client holds no open resources.
func (c *Client) Close() error {
	return nil
}

// FetchLevel reads the list configured for level.
func (c *Client) FetchLevel(ctx context.Context, level navmenu.Level) ([]navmenu.RawEntry, error) {
	return fetchLevel(ctx, c.lists, level, c.FetchList)
}

// FetchList reads every item of the named list.
func (c *Client) FetchList(ctx context.Context, list string) ([]navmenu.RawEntry, error) {
	body, err := c.getWithRetry(ctx, c.itemsURL(list))
	if err != nil {
		return nil, &navmenu.SourceError{List: list, Message: err.Error(), Err: err}
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &navmenu.SourceError{List: list, Message: "failed to parse list response", Err: err}
	}

	switch {
	case resp.Value != nil:
		entries := make([]navmenu.RawEntry, 0, len(*resp.Value))
		for _, item := range *resp.Value {
			entries = append(entries, item.entry())
		}
		return entries, nil
	case resp.message() != "":
		return nil, &navmenu.SourceError{List: list, Message: resp.message()}
	default:
		return nil, &navmenu.SourceError{
			List:    list,
			Message: fmt.Sprintf("unexpected error reading menu entries from %s: %s", list, compactJSON(body)),
		}
	}
}

// Verify checks that the site answers for the level 0 list with the
// configured credentials.
func (c *Client) Verify(ctx context.Context) error {
	_, err := c.FetchList(ctx, c.lists.Level0)
	return err
}

func (c *Client) itemsURL(list string) string {
	title := url.PathEscape(strings.ReplaceAll(list, "'", "''"))
	return fmt.Sprintf("%s%s('%s')/items?%s", c.siteURL, c.endpoint, title, SelectQuery)
}

// get makes a single GET request and maps HTTP failures to typed errors.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", acceptNoMetadata)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("sharepoint request", "url", target, "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode == http.StatusOK {
		return respBody, nil
	}

	detail := errorDetail(respBody)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, AuthenticationError{Message: "access denied: " + detail}
	case http.StatusNotFound:
		return nil, NotFoundError{Message: "list not found: " + detail}
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return nil, RateLimitError{Message: "rate limit exceeded: " + detail}
	case http.StatusBadRequest:
		return nil, ValidationError{Message: "invalid request: " + detail}
	default:
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, detail)
	}
}

// getWithRetry retries rate-limited requests with exponential backoff.
func (c *Client) getWithRetry(ctx context.Context, target string) ([]byte, error) {
	backoff := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		body, err := c.get(ctx, target)
		if err == nil {
			return body, nil
		}

		// Only retry on rate limit errors
		if _, ok := err.(RateLimitError); !ok {
			return nil, err
		}

		if attempt < c.maxRetries {
			ctxlog.FromContext(ctx).Debug("sharepoint throttled", "attempt", attempt+1, "backoff", backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return nil, RateLimitError{Message: "rate limit exceeded after retries"}
}

// listItem is one SharePoint list item as selected by SelectQuery.
type listItem struct {
	Title            string `json:"Title"`
	URL              string `json:"Url"`
	Clickable        bool   `json:"Clickable"`
	LookupParentName *struct {
		Title string `json:"Title"`
	} `json:"LookupParentName"`
}

func (i listItem) entry() navmenu.RawEntry {
	e := navmenu.RawEntry{Title: i.Title, URL: i.URL, Clickable: i.Clickable}
	if i.LookupParentName != nil {
		parent := i.LookupParentName.Title
		e.ParentName = &parent
	}
	return e
}

type listResponse struct {
	Value      *[]listItem    `json:"value"`
	Error      *responseError `json:"error"`
	ODataError *responseError `json:"odata.error"`
}

func (r listResponse) message() string {
	if r.Error != nil && r.Error.Message != "" {
		return string(r.Error.Message)
	}
	if r.ODataError != nil && r.ODataError.Message != "" {
		return string(r.ODataError.Message)
	}
	return ""
}

type responseError struct {
	Code    string       `json:"code"`
	Message errorMessage `json:"message"`
}

// errorMessage accepts both `"message": "text"` and the verbose OData form
// `"message": {"lang": "en-US", "value": "text"}`.
type errorMessage string

func (m *errorMessage) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = errorMessage(s)
		return nil
	}
	var v struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = errorMessage(v.Value)
	return nil
}

// errorDetail extracts the server's error message from a failed response,
// falling back to the raw body.
func errorDetail(body []byte) string {
	var resp listResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		if msg := resp.message(); msg != "" {
			return msg
		}
	}
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return "empty response"
	}
	return detail
}

func compactJSON(body []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return strings.TrimSpace(string(body))
	}
	return buf.String()
}

// Ensure Client implements Source at compile time
var (
	_ Source            = (*Client)(nil)
	_ navmenu.ListNamer = (*Client)(nil)
)
