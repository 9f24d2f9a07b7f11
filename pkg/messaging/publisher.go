// Package messaging defines the contract between domain code and the event transport.
package messaging

import (
	"context"
)

// ProductsSubject is the topic that carries product lifecycle events.
const ProductsSubject = "products"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

// Publisher delivers events to subscribers. No delivery confirmation is exposed to callers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
