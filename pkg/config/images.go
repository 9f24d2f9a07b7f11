package config

import (
	"fmt"
	"strings"
)

const defaultImageMaxBytes = 5 << 20

type ImagesConfig struct {
	MaxBytes int64 `koanf:"maxbytes"`
}

// String returns a string representation of the images configuration.
func (c *ImagesConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Images ---\n")
	b.WriteString(fmt.Sprintf("  maxbytes: %d\n", c.MaxBytes))
	return b.String()
}

func (c *ImagesConfig) Validate() error {
	if c.MaxBytes < 0 {
		return fmt.Errorf("images max bytes must not be negative")
	}
	if c.MaxBytes == 0 {
		c.MaxBytes = defaultImageMaxBytes
	}
	return nil
}
