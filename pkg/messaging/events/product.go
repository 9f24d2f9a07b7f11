package events

import (
	"encoding/json"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/shopspring/decimal"
)

const (
	ActionProductCreated = "product_created"
	ActionProductDeleted = "product_deleted"
)

// ProductCreatedEvent is published after a product row is inserted.
type ProductCreatedEvent struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	UPC         string           `json:"upc"`
}

func (e ProductCreatedEvent) Subject() string {
	return messaging.ProductsSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	type payload ProductCreatedEvent
	return json.Marshal(struct {
		Action string `json:"action"`
		payload
	}{ActionProductCreated, payload(e)})
}

// ProductDeletedEvent is published after the delete transaction commits.
type ProductDeletedEvent struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	UPC  string `json:"upc"`
}

func (e ProductDeletedEvent) Subject() string {
	return messaging.ProductsSubject
}

func (e ProductDeletedEvent) Payload() ([]byte, error) {
	type payload ProductDeletedEvent
	return json.Marshal(struct {
		Action string `json:"action"`
		payload
	}{ActionProductDeleted, payload(e)})
}
