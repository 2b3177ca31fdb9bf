package backend

import "context"

// Client defines the interface for talking to the club backend: the
// row-query surface, direct row updates, and the named remote procedures
// that own all business rules (stakes escrow, participant caps, rewards).
// This allows for mock implementations to be used in tests.
type Client interface {
	Select(ctx context.Context, q Query, dst any) error
	Insert(ctx context.Context, table string, rows any) error
	Update(ctx context.Context, table string, patch map[string]any, q Query) error
	RPC(ctx context.Context, name string, params map[string]any, out any) error
}
