// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/abgdnv/catalog/internal/catalog/store/db"
)

// ProductStore is an interface for product storage operations.
type ProductStore interface {
	// FindAll returns all products ordered by ascending id.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]db.Product, error)

	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*db.Product, error)

	// FindByUPC retrieves a single product by its UPC.
	// Returns ErrProductNotFound if no product carries the given UPC.
	FindByUPC(ctx context.Context, upc string) (*db.Product, error)

	// Create inserts a new product and returns it with the assigned id.
	// Returns ErrDuplicateKey if the UPC is already taken.
	Create(ctx context.Context, params db.CreateParams) (*db.Product, error)

	// SetHasImage marks the product as having an image.
	// Updating a missing product is not an error.
	SetHasImage(ctx context.Context, id int64) error

	// DeleteWithRecommendations removes the saved recommendations that reference the product
	// as source or target, then the product itself, in one transaction.
	// Returns the number of deleted product rows.
	DeleteWithRecommendations(ctx context.Context, id int64) (int64, error)
}
