package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtsidehq/courtside/internal/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher fails a fixed number of times before succeeding.
type fakeFetcher struct {
	failures int
	calls    int
}

func (f *fakeFetcher) Fetch(ctx context.Context) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("transient failure")
	}
	return nil
}

func TestFetch_SucceedsFirstTry(t *testing.T) {
	fetcher := &fakeFetcher{}
	n := notifier.NewMock()
	c := New(fetcher, n, WithBaseDelay(time.Millisecond))

	require.NoError(t, c.Fetch(context.Background()))
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 0, c.RetryCount())
	assert.Empty(t, n.ErrorNotices)
}

func TestFetch_RecoversWithinBound(t *testing.T) {
	fetcher := &fakeFetcher{failures: 2}
	n := notifier.NewMock()
	c := New(fetcher, n, WithAttempts(3), WithBaseDelay(time.Millisecond))

	require.NoError(t, c.Fetch(context.Background()))
	assert.Equal(t, 3, fetcher.calls)
	// Reset to zero on success.
	assert.Equal(t, 0, c.RetryCount())
	assert.NoError(t, c.LastErr())
	assert.Empty(t, n.ErrorNotices)
}

func TestFetch_Exhaustion(t *testing.T) {
	// Four consecutive failures with three retries allowed: the initial
	// attempt plus exactly three retries, then a terminal error.
	fetcher := &fakeFetcher{failures: 4}
	n := notifier.NewMock()
	c := New(fetcher, n, WithAttempts(3), WithBaseDelay(time.Millisecond))

	err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, 4, fetcher.calls)
	assert.Equal(t, 3, c.RetryCount())
	assert.Error(t, c.LastErr())
	// Exactly one terminal notice.
	require.Len(t, n.ErrorNotices, 1)

	// The retry count resets to zero only after a subsequent successful,
	// externally triggered fetch.
	require.NoError(t, c.Fetch(context.Background()))
	assert.Equal(t, 0, c.RetryCount())
	assert.NoError(t, c.LastErr())
	require.Len(t, n.ErrorNotices, 1)
}

func TestFetch_ContextCancelStopsBackoff(t *testing.T) {
	fetcher := &fakeFetcher{failures: 10}
	n := notifier.NewMock()
	c := New(fetcher, n, WithAttempts(3), WithBaseDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := c.Fetch(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fetcher.calls)
}
