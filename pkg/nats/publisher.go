package nats

import (
	"context"
	"fmt"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/nats-io/nats.go/jetstream"
)

var _ messaging.Publisher = (*NatsPublisher)(nil)

type NatsPublisher struct {
	js jetstream.JetStream
}

func NewNatsPublisher(js jetstream.JetStream) *NatsPublisher {
	return &NatsPublisher{js: js}
}

// Publish waits for the JetStream ack, so an error means the event was not stored.
func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	if _, err = p.js.Publish(ctx, event.Subject(), data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", event.Subject(), err)
	}
	return nil
}
