package feed

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a Subscriber watching the given change topics. onChange is
// invoked for every received event, with no payload diffing; correctness
// comes from the triggered full re-fetch.
func New(projectID string, topics []string, onChange func(), metrics Metrics) (Subscriber, error) {
	client, err := pubsub.NewClient(context.Background(), projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return &subscriber{
		client:   client,
		topics:   topics,
		onChange: onChange,
		metrics:  metrics,
		// A fresh channel id per Subscriber; reusing subscription names
		// across mounts has been observed to silently stop delivering.
		channelID: newChannelID(),
	}, nil
}

func newChannelID() string {
	return uuid.NewString()[:8]
}

func (s *subscriber) Open(ctx context.Context) error {
	if s.opened {
		return fmt.Errorf("subscriber already opened")
	}
	s.opened = true

	receiveCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	for _, topic := range s.topics {
		subName := fmt.Sprintf("%s-feed-%s", topic, s.channelID)
		sub, err := s.client.CreateSubscription(ctx, subName, pubsub.SubscriptionConfig{
			Topic:            s.client.Topic(topic),
			AckDeadline:      10 * time.Second,
			ExpirationPolicy: 24 * time.Hour,
		})
		if err != nil {
			log.Error("Failed to subscribe to change feed, continuing in fetch-only mode", "error", err, "topic", topic)
			continue
		}
		s.subs = append(s.subs, sub)
		log.Info("Subscribed to change feed", "topic", topic, "subscription", subName)

		go s.receive(receiveCtx, sub, topic)
	}
	return nil
}

func (s *subscriber) receive(ctx context.Context, sub *pubsub.Subscription, topic string) {
	err := sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		msg.Ack()

		var event ChangeEvent
		if err := msgpack.Unmarshal(msg.Data, &event); err != nil {
			log.Error("Failed to decode change event, re-fetching anyway", "error", err, "topic", topic)
		} else {
			log.Debug("Change event received", "type", event.Type, "table", event.Table, "rowID", event.RowID)
		}

		s.metrics.IncFeedEvents()
		s.onChange()
	})
	if err != nil && ctx.Err() == nil {
		log.Error("Change feed receive loop failed, continuing in fetch-only mode", "error", err, "topic", topic)
	}
}

func (s *subscriber) Close(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	for _, sub := range s.subs {
		if err := sub.Delete(ctx); err != nil {
			log.Error("Failed to delete feed subscription", "error", err, "subscription", sub.ID())
		}
	}
	s.subs = nil
	return s.client.Close()
}
