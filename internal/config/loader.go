package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. BBM_DATA_DIR.
const EnvPrefix = "BBM_"

// ConfigEnv names the YAML file to load when no path is given.
const ConfigEnv = EnvPrefix + "CONFIG"

// Load layers, low to high precedence:
//  1. defaults (New)
//  2. the YAML file at path, or at $BBM_CONFIG when path is empty
//  3. BBM_* environment variables
func Load(_ context.Context, path string) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// BBM_LOG_LEVEL -> log_level; keys stay flat.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
