package infra

import (
	"fmt"
	"os"

	"poolfee_go/internal/domain"
	"poolfee_go/internal/engine"

	"gopkg.in/yaml.v3"
)

// Config holds all application settings. Sensitive or deployment-specific
// values can be overridden through environment variables after loading.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Engine struct {
		// Preset names one of the historical strategy variants; "hybrid"
		// when empty.
		Preset string `yaml:"preset"`
	} `yaml:"engine"`

	Feed struct {
		WSURL string   `yaml:"ws_url"`
		Pools []string `yaml:"pools"`
	} `yaml:"feed"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file, applies environment
// overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if _, ok := engine.Preset(c.Engine.Preset); !ok {
		return &domain.ConfigError{
			Field: "engine.preset",
			Err:   fmt.Errorf("%w: %q", domain.ErrUnknownPreset, c.Engine.Preset),
		}
	}

	// Feed is optional (replay-only deployments run without one), but when
	// set it must be a websocket URL with at least one pool subscription.
	if c.Feed.WSURL != "" {
		if !hasPrefix(c.Feed.WSURL, "ws://") && !hasPrefix(c.Feed.WSURL, "wss://") {
			return fmt.Errorf("invalid feed WS URL: %s", c.Feed.WSURL)
		}
		if len(c.Feed.Pools) == 0 {
			return fmt.Errorf("at least one pool subscription is required")
		}
	}

	if c.Storage.Path == "" {
		c.Storage.Path = "data/poolfee.db"
	}

	return nil
}

// EngineParameters compiles the configured preset into the engine schedule.
func (c *Config) EngineParameters() engine.Parameters {
	p, _ := engine.Preset(c.Engine.Preset) // existence checked in Validate
	return p
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv applies environment variables over the file values.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("POOLFEE_FEED_URL"); url != "" {
		cfg.Feed.WSURL = url
	}
	if path := os.Getenv("POOLFEE_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if preset := os.Getenv("POOLFEE_PRESET"); preset != "" {
		cfg.Engine.Preset = preset
	}
}
