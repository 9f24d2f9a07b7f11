package config

import (
	"fmt"
	"strings"
	"time"
)

// InventoryConfig describes the upstream inventory service.
type InventoryConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// String returns a string representation of the inventory client configuration.
func (c *InventoryConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Inventory Client ---\n")
	b.WriteString(fmt.Sprintf("  url: %s\n", c.URL))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *InventoryConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("inventory URL is not configured")
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return fmt.Errorf("inventory URL must start with 'http://' or 'https://': %s", c.URL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("inventory timeout is not configured")
	}
	return nil
}
