package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable LoadConfig reads so ambient values cannot
// leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY",
		"RELAY_ACTIONS_URL",
		"RELAY_ACTIONS_KEY",
		"RELAY_MODEL",
		"RELAY_REDIS_ADDR",
		"RELAY_SESSION_KEY",
		"RELAY_POLL_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://actions.zapier.com/api/v1", cfg.ActionsURL)
	assert.Empty(t, cfg.OpenAIKey)
	assert.Zero(t, cfg.PollInterval)
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
openai_key: sk-file
actions_key: ak-file
actions_url: https://actions.local
model: gpt-4o
poll_interval: 2s
strict_auth: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.OpenAIKey)
	assert.Equal(t, "ak-file", cfg.ActionsKey)
	assert.Equal(t, "https://actions.local", cfg.ActionsURL)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.True(t, cfg.StrictAuth)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("RELAY_ACTIONS_URL", "https://env.local")
	t.Setenv("RELAY_POLL_INTERVAL", "250ms")

	path := writeConfig(t, `
openai_key: sk-file
actions_key: ak-file
actions_url: https://actions.local
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.OpenAIKey)
	assert.Equal(t, "https://env.local", cfg.ActionsURL)
	assert.Equal(t, "ak-file", cfg.ActionsKey)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
}

func TestLoadConfig_BadInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("RELAY_POLL_INTERVAL", "soon")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "openai_key: [unclosed")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.OpenAIKey = "sk-1"
	assert.Error(t, cfg.Validate())

	cfg.ActionsKey = "ak-1"
	assert.NoError(t, cfg.Validate())
}
