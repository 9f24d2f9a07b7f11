// Package blob stores product image payloads keyed by product id.
package blob

import (
	"context"
	"errors"
)

var ErrBlobNotFound = errors.New("blob not found")

// Store keeps opaque binary payloads. Put overwrites any previous payload for the key.
type Store interface {
	Put(ctx context.Context, key int64, data []byte) error
	// Get returns ErrBlobNotFound when nothing was stored under key.
	Get(ctx context.Context, key int64) ([]byte, error)
}
