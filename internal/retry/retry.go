package retry

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtsidehq/courtside/internal/notifier"
)

// Fetcher is the read-only fetch operation the controller decorates.
// store.Store satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context) error
}

const (
	// DefaultAttempts bounds the retries after the initial attempt.
	DefaultAttempts = 3
	// DefaultBaseDelay is doubled per attempt: base, 2×base, 4×base, ...
	DefaultBaseDelay = 500 * time.Millisecond
)

// Controller wraps a Fetcher with bounded exponential-backoff retries.
// Fetch is read-only, so every retry is a full re-invocation. After the
// retries are exhausted the terminal error is surfaced exactly once (as the
// return value and as one notice) and no further retries happen until the
// next externally triggered Fetch.
type Controller struct {
	fetcher   Fetcher
	notifier  notifier.Notifier
	attempts  int
	baseDelay time.Duration

	mu         sync.Mutex
	retryCount int
	lastErr    error
}

// Option tunes a Controller.
type Option func(*Controller)

// WithAttempts overrides the retry bound.
func WithAttempts(n int) Option {
	return func(c *Controller) { c.attempts = n }
}

// WithBaseDelay overrides the backoff base delay.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Controller) { c.baseDelay = d }
}

// New creates a retry controller around a fetcher.
func New(fetcher Fetcher, n notifier.Notifier, opts ...Option) *Controller {
	c := &Controller{
		fetcher:   fetcher,
		notifier:  n,
		attempts:  DefaultAttempts,
		baseDelay: DefaultBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch runs the wrapped fetch, retrying transient failures with
// exponential backoff. The retry count resets to zero only on a successful
// fetch, so after exhaustion it still reports how far the last cycle got.
func (c *Controller) Fetch(ctx context.Context) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = c.fetcher.Fetch(ctx)
		if err == nil {
			c.mu.Lock()
			c.retryCount = 0
			c.lastErr = nil
			c.mu.Unlock()
			return nil
		}
		if attempt >= c.attempts {
			break
		}

		c.mu.Lock()
		c.retryCount = attempt + 1
		c.mu.Unlock()

		delay := c.baseDelay << attempt
		log.Warn("Fetch failed, retrying", "error", err, "attempt", attempt+1, "delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()

	log.Error("Fetch failed after exhausting retries", "error", err, "attempts", c.attempts)
	if notifyErr := c.notifier.NotifyError("Unable to refresh sessions. Please try again.", false); notifyErr != nil {
		log.Error("Failed to send retry-exhausted notice", "error", notifyErr)
	}
	return err
}

// RetryCount reports the retries used by the current or last fetch cycle.
func (c *Controller) RetryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retryCount
}

// LastErr returns the terminal error of the last exhausted cycle, if any.
func (c *Controller) LastErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
