package config

import (
	"strings"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	NATS       config.NATSConfig       `koanf:"nats"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Inventory  config.InventoryConfig  `koanf:"inventory"`
	Storage    config.StorageConfig    `koanf:"storage"`
	Redis      config.RedisConfig      `koanf:"redis"`
	Images     config.ImagesConfig     `koanf:"images"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.NATS.String())
	b.WriteString(c.Inventory.String())
	b.WriteString(c.Storage.String())
	if c.Storage.Driver == config.StorageDriverRedis {
		b.WriteString(c.Redis.String())
	}
	b.WriteString(c.Images.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks the configuration values and fills in defaults. Redis is only checked when it backs image storage.
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Database,
		&c.Log,
		&c.PProf,
		&c.Shutdown,
		&c.GRPC,
		&c.NATS,
		&c.Telemetry,
		&c.Inventory,
		&c.Storage,
		&c.Images,
	}
	if c.Storage.Driver == config.StorageDriverRedis {
		validators = append(validators, &c.Redis)
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
