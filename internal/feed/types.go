package feed

import (
	"cloud.google.com/go/pubsub"
)

// ChangeType is the kind of row change the backend publishes.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent is the payload published to the change-feed topics for every
// row change on the watched collections. The store re-queries instead of
// patching, so only the envelope matters; the row itself is never inspected.
type ChangeEvent struct {
	Type  ChangeType `msgpack:"type"`
	Table string     `msgpack:"table"`
	RowID string     `msgpack:"row_id"`
}

type subscriber struct {
	client   *pubsub.Client
	topics   []string
	onChange func()
	metrics  Metrics

	channelID string
	cancel    func()
	subs      []*pubsub.Subscription
	opened    bool
}

// Metrics is the slice of the metrics interface the feed needs.
type Metrics interface {
	IncFeedEvents()
}
