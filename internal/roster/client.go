package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zjrosen/rosterboard/internal/log"
)

// DefaultTimeout bounds one request when the caller's context has no deadline.
const DefaultTimeout = 10 * time.Second

const maxBody = 1 << 20

// Service is the Roster Service as seen by the sync controller.
type Service interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Signup(ctx context.Context, activity, email string) (Result, error)
	Unregister(ctx context.Context, activity, email string) (Result, error)
}

// Result is a successful mutation response.
type Result struct {
	Message string `json:"message"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Client talks to a Roster Service over HTTP.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
}

var _ Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing roster url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("roster url %q: scheme must be http or https", baseURL)
	}

	c := &Client{base: u, http: http.DefaultClient, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Snapshot fetches every activity.
func (c *Client) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if err := c.do(ctx, http.MethodGet, c.endpoint(nil, "activities"), &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Signup registers email for activity.
func (c *Client) Signup(ctx context.Context, activity, email string) (Result, error) {
	return c.mutate(ctx, activity, "signup", email)
}

// Unregister removes email from activity.
func (c *Client) Unregister(ctx context.Context, activity, email string) (Result, error) {
	return c.mutate(ctx, activity, "unregister", email)
}

func (c *Client) mutate(ctx context.Context, activity, verb, email string) (Result, error) {
	var res Result
	target := c.endpoint(url.Values{"email": {email}}, "activities", activity, verb)
	if err := c.do(ctx, http.MethodPost, target, &res); err != nil {
		return Result{}, err
	}
	return res, nil
}

// endpoint joins escaped path segments onto the base URL.
func (c *Client) endpoint(query url.Values, segments ...string) string {
	u := *c.base
	raw := strings.TrimRight(c.base.EscapedPath(), "/")
	for _, s := range segments {
		raw += "/" + url.PathEscape(s)
	}
	u.RawPath = raw
	if p, err := url.PathUnescape(raw); err == nil {
		u.Path = p
	}
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) do(ctx context.Context, method, target string, out any) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.ErrorErr(log.CatAPI, "request failed", err, "method", method, "url", target)
		return &NetworkError{Op: method + " " + req.URL.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &NetworkError{Op: method + " " + req.URL.Path, Err: err}
	}
	log.Debug(log.CatAPI, "response", "method", method, "url", target, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A body that is not JSON at all is treated like any other
		// unreadable response, not as a rejection.
		if !json.Valid(body) {
			return fmt.Errorf("decoding %s %s error response (status %d): %w", method, req.URL.Path, resp.StatusCode, ErrMalformedResponse)
		}
		var eb errorBody
		_ = json.Unmarshal(body, &eb) // a non-string detail leaves Detail empty
		return &RejectionError{Status: resp.StatusCode, Detail: eb.Detail}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, req.URL.Path, errors.Join(ErrMalformedResponse, err))
	}
	return nil
}
