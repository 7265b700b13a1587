package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries everything the CLI needs to build a bridge.
type Config struct {
	OpenAIKey    string        `yaml:"openai_key"`
	ActionsURL   string        `yaml:"actions_url"`
	ActionsKey   string        `yaml:"actions_key"`
	Model        string        `yaml:"model"`
	PollInterval time.Duration `yaml:"poll_interval"`
	RedisAddr    string        `yaml:"redis_addr"`
	SessionKey   string        `yaml:"session_key"`
	StrictAuth   bool          `yaml:"strict_auth"`
}

// LoadConfig resolves configuration in precedence order: environment
// variables override the YAML file, which overrides defaults. A .env file
// in the working directory is loaded first if present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ActionsURL: "https://actions.zapier.com/api/v1",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIKey = v
	}
	if v := os.Getenv("RELAY_ACTIONS_URL"); v != "" {
		cfg.ActionsURL = v
	}
	if v := os.Getenv("RELAY_ACTIONS_KEY"); v != "" {
		cfg.ActionsKey = v
	}
	if v := os.Getenv("RELAY_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("RELAY_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("RELAY_SESSION_KEY"); v != "" {
		cfg.SessionKey = v
	}
	if v := os.Getenv("RELAY_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse RELAY_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}

	return cfg, nil
}

// Validate checks the credentials needed to talk to both providers.
func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("openai api key is required (set OPENAI_API_KEY)")
	}
	if c.ActionsKey == "" {
		return fmt.Errorf("actions api key is required (set RELAY_ACTIONS_KEY)")
	}
	return nil
}
