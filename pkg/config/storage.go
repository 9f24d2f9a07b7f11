package config

import (
	"fmt"
	"strings"
)

const (
	StorageDriverNATS  = "nats"
	StorageDriverRedis = "redis"
)

// StorageConfig selects the blob backend used for product images.
type StorageConfig struct {
	Driver string `koanf:"driver"`
	// Bucket is the JetStream object store bucket, used by the nats driver.
	Bucket string `koanf:"bucket"`
	// KeyPrefix is prepended to redis keys, used by the redis driver.
	KeyPrefix string `koanf:"keyprefix"`
}

// String returns a string representation of the storage configuration.
func (c *StorageConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Storage ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	b.WriteString(fmt.Sprintf("  bucket: %s\n", c.Bucket))
	b.WriteString(fmt.Sprintf("  keyprefix: %s\n", c.KeyPrefix))
	return b.String()
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageDriverNATS:
		if c.Bucket == "" {
			return fmt.Errorf("storage bucket is required for the %q driver", c.Driver)
		}
	case StorageDriverRedis:
		if c.KeyPrefix == "" {
			return fmt.Errorf("storage key prefix is required for the %q driver", c.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Driver)
	}
	return nil
}
