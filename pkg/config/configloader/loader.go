// Package configloader assembles typed service configuration from a YAML file,
// an optional .env file and the process environment, in increasing priority.
package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

type Validator interface {
	Validate() error
}

// Load reads config.yaml and .env from the working directory.
// Environment variables are prefixed with <SERVICE_NAME>_, e.g. CATALOG_DATABASE_URL.
func Load[T Validator](serviceName string) (T, error) {
	return LoadFrom[T](serviceName, defaultConfigFile, defaultEnvFile)
}

// LoadFrom is Load with explicit file locations. Missing files are skipped.
func LoadFrom[T Validator](serviceName, configFile, envFile string) (T, error) {
	var cfg T
	k := koanf.New(".")

	envPrefix := fmt.Sprintf("%s_", strings.ToUpper(serviceName))

	// 1. Load configuration from yaml file
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
		}
	}

	// 2. Load environment variables from .env file
	envTransformer := keyTransformer(envPrefix)
	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			envMap[envTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 3. Load environment variables from the system, the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", envTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// keyTransformer maps CATALOG_DATABASE_URL to database.url.
func keyTransformer(envPrefix string) func(string) string {
	prefix := strings.ToLower(envPrefix)
	return func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, prefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}
