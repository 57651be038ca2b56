// Package fetch issues outbound read requests against the hosting APIs,
// respecting host-side throttling signals. Retry behavior is pluggable per
// host: the GitHub path waits for the advertised rate-limit reset, the salsa
// path backs off exponentially with a bounded attempt count.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrRetriesExhausted is returned when a policy gives up on a request.
// Callers on the salsa path treat it as "not found" for the one call site;
// the GitHub path surfaces it as a terminal rate-limit error.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Result is the outcome of a successful round trip. The body is fully read
// and the connection released before Result is returned.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 200 response.
func (r *Result) OK() bool { return r.StatusCode == http.StatusOK }

// NotFound reports a 404 response.
func (r *Result) NotFound() bool { return r.StatusCode == http.StatusNotFound }

// Policy decides how a client reacts to throttling and transport failures.
// Attempts are numbered from zero.
type Policy interface {
	// Throttled reports whether the response is this host's rate-limit signal.
	Throttled(resp *http.Response) bool
	// ShouldRetry returns the delay before the next attempt. resp is non-nil
	// for a throttled response and nil for a transport failure. retry=false
	// means give up.
	ShouldRetry(attempt int, resp *http.Response, err error) (delay time.Duration, retry bool)
}

// Authorizer decorates outbound requests with credentials.
type Authorizer func(*http.Request)

// BasicAuth authenticates with an empty username and the token as password,
// as the GitHub API accepts.
func BasicAuth(token string) Authorizer {
	return func(req *http.Request) {
		req.SetBasicAuth("", token)
	}
}

// HeaderToken authenticates with a token header, as the GitLab API expects
// (e.g. PRIVATE-TOKEN).
func HeaderToken(name, token string) Authorizer {
	return func(req *http.Request) {
		req.Header.Set(name, token)
	}
}

// Client wraps one shared http.Client with a per-call timeout, an auth
// decorator, and a retry policy. One Client serves a whole run; it is safe
// for concurrent use.
type Client struct {
	http   *http.Client
	auth   Authorizer
	policy Policy
	log    *slog.Logger
}

// NewClient builds a Client. timeout applies per attempt, not across
// retries. A nil logger falls back to slog.Default.
func NewClient(timeout time.Duration, auth Authorizer, policy Policy, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		auth:   auth,
		policy: policy,
		log:    log,
	}
}

// Get fetches url, retrying per the client's policy until a non-throttled
// response arrives, the policy gives up (ErrRetriesExhausted), or ctx is
// canceled. Non-200 statuses are not errors; callers inspect the Result.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Result, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.do(ctx, url, headers)
		if err == nil {
			var body []byte
			body, err = io.ReadAll(resp.Body)
			resp.Body.Close()
			if err == nil {
				if !c.policy.Throttled(resp) {
					return &Result{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
				}
				delay, retry := c.policy.ShouldRetry(attempt, resp, nil)
				if !retry {
					return nil, fmt.Errorf("fetching %s: %w", url, ErrRetriesExhausted)
				}
				c.log.Warn("rate limit exceeded, waiting before retry",
					"url", url, "wait", delay, "attempt", attempt+1)
				if err := sleep(ctx, delay); err != nil {
					return nil, err
				}
				continue
			}
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		delay, retry := c.policy.ShouldRetry(attempt, nil, err)
		if !retry {
			return nil, fmt.Errorf("fetching %s: %w", url, err)
		}
		c.log.Warn("request failed, retrying", "url", url, "error", err, "wait", delay)
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (c *Client) do(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.auth != nil {
		c.auth(req)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.http.Do(req)
}

// sleep blocks for d or until ctx is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
