package snapshot

import "github.com/courtsidehq/courtside/internal/session"

// Store persists the last successfully fetched session list per view so the
// CLI and diagnostics endpoints can show last-known state when the backend
// is unreachable. It is a write-behind cache only; reads never substitute
// for a live fetch.
type Store interface {
	SaveSessions(view string, sessions []session.Session) error
	GetSessions(view string) ([]session.Session, error)
	Clear() error
}
