// Package pubsub implements a Notifier publishing events to Google Cloud
// Pub/Sub.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"

	"github.com/osintlabs/numharvest/internal/harvest"
)

// Notifier publishes events as JSON messages on one topic.
type Notifier struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// New creates a Notifier for the topic in the given project. Authentication
// uses Application Default Credentials.
func New(ctx context.Context, projectID, topicID string) (*Notifier, error) {
	if projectID == "" || topicID == "" {
		return nil, fmt.Errorf("pubsub project and topic are required")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return &Notifier{
		client: client,
		topic:  client.Topic(topicID),
	}, nil
}

// Notify publishes the event and waits for the server acknowledgment.
func (n *Notifier) Notify(ctx context.Context, evt harvest.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"kind": string(evt.Kind),
		},
	}
	if _, err := n.topic.Publish(ctx, msg).Get(ctx); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Close flushes pending messages and releases the client.
func (n *Notifier) Close() error {
	n.topic.Stop()
	return n.client.Close()
}
