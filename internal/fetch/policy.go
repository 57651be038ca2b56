package fetch

import (
	"net/http"
	"strconv"
	"time"
)

const (
	// gitHubMinInterval is the pacing interval when no usable reset hint is
	// present: 60s divided by the 30 requests/minute budget.
	gitHubMinInterval = 2 * time.Second
	// transientRetryDelay is the pause after a timeout or transport error.
	transientRetryDelay = 1 * time.Second
	// defaultBackoffBase is the initial backoff for the salsa host.
	defaultBackoffBase = 1 * time.Second
	// defaultMaxRetries bounds backoff attempts on the salsa host.
	defaultMaxRetries = 5
)

// WaitForReset is the GitHub-style policy: a 403 carries an
// X-RateLimit-Reset epoch hint, and the client sleeps until that epoch (or a
// fixed minimum interval when the hint is absent or already past). Transport
// errors retry after a short fixed delay. With MaxAttempts zero the policy
// retries indefinitely, matching the host's historical behavior; setting a
// ceiling turns persistent throttling into a terminal error.
type WaitForReset struct {
	// MinInterval replaces an absent or stale reset hint. Zero means the
	// 2s default.
	MinInterval time.Duration
	// RetryDelay is the pause after transport failures. Zero means 1s.
	RetryDelay time.Duration
	// MaxAttempts caps total attempts per request. Zero means unbounded.
	MaxAttempts int
	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// Throttled reports GitHub's rate-limit signal.
func (p *WaitForReset) Throttled(resp *http.Response) bool {
	return resp.StatusCode == http.StatusForbidden
}

// ShouldRetry implements Policy.
func (p *WaitForReset) ShouldRetry(attempt int, resp *http.Response, _ error) (time.Duration, bool) {
	if p.MaxAttempts > 0 && attempt+1 >= p.MaxAttempts {
		return 0, false
	}
	if resp == nil {
		return p.retryDelay(), true
	}
	return p.resetDelay(resp), true
}

// resetDelay reads the reset-epoch hint and returns how long to wait.
func (p *WaitForReset) resetDelay(resp *http.Response) time.Duration {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)
	if err == nil {
		if wait := time.Unix(reset, 0).Sub(now()); wait > 0 {
			return wait
		}
	}
	if p.MinInterval > 0 {
		return p.MinInterval
	}
	return gitHubMinInterval
}

func (p *WaitForReset) retryDelay() time.Duration {
	if p.RetryDelay > 0 {
		return p.RetryDelay
	}
	return transientRetryDelay
}

// ExponentialBackoff is the salsa-style policy: a 429 is retried after
// base x 2^attempt, up to MaxRetries attempts, after which the call fails
// terminally. Transport errors are not retried; the call site degrades the
// affected record instead.
type ExponentialBackoff struct {
	// Base is the initial backoff. Zero means 1s.
	Base time.Duration
	// MaxRetries caps attempts. Zero means the default of 5.
	MaxRetries int
}

// Throttled reports the salsa host's rate-limit signal.
func (p *ExponentialBackoff) Throttled(resp *http.Response) bool {
	return resp.StatusCode == http.StatusTooManyRequests
}

// ShouldRetry implements Policy.
func (p *ExponentialBackoff) ShouldRetry(attempt int, resp *http.Response, _ error) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	max := p.MaxRetries
	if max <= 0 {
		max = defaultMaxRetries
	}
	if attempt+1 >= max {
		return 0, false
	}
	base := p.Base
	if base <= 0 {
		base = defaultBackoffBase
	}
	return base << attempt, true
}
