package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "SWISS_"
	// FileEnv names the variable pointing at an optional YAML config file.
	FileEnv = "SWISS_CONFIG"
)

// Load layers, from lowest to highest precedence:
//  1. defaults (New)
//  2. the YAML file named by SWISS_CONFIG, if set
//  3. SWISS_ prefixed environment variables, e.g. SWISS_STORE_DRIVER
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// SWISS_LOG_LEVEL -> log_level, underscores kept to match the koanf tags
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
