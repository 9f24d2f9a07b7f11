package config

import (
	"fmt"
	"net"
	"strings"
)

// PProfConfig controls the optional profiling server.
type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// String returns a string representation of the pprof configuration.
func (c *PProfConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- PProf ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  address: %s\n", c.Addr))
	return b.String()
}

// Validate checks the listen address only when the profiling server is enabled.
func (c *PProfConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return fmt.Errorf("pprof is enabled but address is not configured")
	}
	if _, port, err := net.SplitHostPort(c.Addr); err != nil || port == "" {
		return fmt.Errorf("invalid pprof address %q: expected host:port", c.Addr)
	}
	return nil
}
