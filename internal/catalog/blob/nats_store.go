package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

var _ Store = (*NatsStore)(nil)

// NatsStore keeps payloads in a JetStream object store bucket.
type NatsStore struct {
	obs jetstream.ObjectStore
}

// NewNatsStore opens the bucket, creating it when missing.
func NewNatsStore(ctx context.Context, js jetstream.JetStream, bucket string) (*NatsStore, error) {
	obs, err := js.CreateOrUpdateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      bucket,
		Description: "product images",
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open object store %s: %w", bucket, err)
	}
	return &NatsStore{obs: obs}, nil
}

func (s *NatsStore) Put(ctx context.Context, key int64, data []byte) error {
	if _, err := s.obs.PutBytes(ctx, objectName(key), data); err != nil {
		return fmt.Errorf("failed to put object %s: %w", objectName(key), err)
	}
	return nil
}

func (s *NatsStore) Get(ctx context.Context, key int64) ([]byte, error) {
	data, err := s.obs.GetBytes(ctx, objectName(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to get object %s: %w", objectName(key), err)
	}
	return data, nil
}

func objectName(key int64) string {
	return fmt.Sprintf("product-%d", key)
}
