// Package guard wraps provider adapters with rate limiting and retries.
//
// The core makes exactly one logical call per operation. Whether that call
// may be retried, and how fast calls may leave the process, is decided here
// from the requests.* settings. With the defaults (one attempt, no rate
// limit) the wrappers pass calls straight through.
package guard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/logger"
)

// maxBackoff caps the exponential delay between attempts.
const maxBackoff = 10 * time.Second

// Config controls retries and outbound rate.
type Config struct {
	// Attempts is the total number of tries per call. Values below one mean one.
	Attempts uint

	// Delay is the first backoff; later ones grow exponentially.
	Delay time.Duration

	// RateLimit is calls per second. Zero disables limiting.
	RateLimit float64
}

// ConfigFrom builds a Config from request settings.
func ConfigFrom(s domain.RequestSettings) Config {
	return Config{Attempts: s.RetryAttempts, Delay: s.RetryDelay, RateLimit: s.RateLimit}
}

// StatusError is a non-2xx reply from a provider's HTTP API.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.Status, e.Body)
}

// Temporary reports whether retrying could help: rate limiting or a server fault.
func (e *StatusError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// CheckResponse returns a *StatusError for a non-2xx response.
// The body is read (bounded) only on failure.
func CheckResponse(provider string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{Provider: provider, Status: resp.StatusCode, Body: string(body)}
}

// Runner applies the limiter and retry policy to a call.
type Runner struct {
	name     string
	limiter  *rate.Limiter
	attempts uint
	delay    time.Duration
}

// NewRunner creates a runner; name labels log lines.
func NewRunner(name string, cfg Config) *Runner {
	r := &Runner{name: name, attempts: max(cfg.Attempts, 1), delay: cfg.Delay}
	if cfg.RateLimit > 0 {
		burst := max(int(math.Ceil(cfg.RateLimit)), 1)
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return r
}

// Do runs fn until it succeeds, returns a permanent error, or attempts run out.
// Each attempt first waits for the rate limiter.
func (r *Runner) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(
		func() error {
			if r.limiter != nil {
				if err := r.limiter.Wait(ctx); err != nil {
					return retry.Unrecoverable(err)
				}
			}
			return fn(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.MaxDelay(maxBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(Retryable),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("%s: attempt %d failed, retrying: %v", r.name, n+1, err)
		}),
	)
}

// Retryable reports whether an error is worth another attempt.
// Cancellation and deadlines are final; errors that classify themselves
// through Temporary() are trusted; anything else (network faults) is retried.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var t interface{ Temporary() bool }
	if errors.As(err, &t) {
		return t.Temporary()
	}
	return true
}
