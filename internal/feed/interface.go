package feed

import "context"

// Subscriber keeps the session stores eventually consistent with the
// backend by triggering a re-fetch on every published row change. One
// Subscriber is owned by one mounted view set; it must be closed when the
// owner goes away or a live subscription leaks.
type Subscriber interface {
	// Open attaches the change-feed subscriptions. Subscribe failures are
	// logged and tolerated; the owner keeps operating in fetch-only mode.
	Open(ctx context.Context) error
	// Close tears the subscriptions down deterministically.
	Close(ctx context.Context) error
}
