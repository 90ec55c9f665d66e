package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data/invoices.sample.json", cfg.Data.Path)
	assert.Equal(t, 50, cfg.Query.MaxListResults)
	assert.Equal(t, 10, cfg.Query.DisplayLimit)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 15*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, 0.5, cfg.OpenAI.MinConfidence)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  path: /tmp/invoices.json
query:
  display_limit: 5
history:
  enabled: true
  path: /tmp/history.db
logger:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/invoices.json", cfg.Data.Path)
	assert.Equal(t, 5, cfg.Query.DisplayLimit)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "debug", cfg.Logger.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, 50, cfg.Query.MaxListResults)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("INVOICES_JSON", "/tmp/env-invoices.json")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.True(t, cfg.OpenAI.Enabled())
	assert.Equal(t, "/tmp/env-invoices.json", cfg.Data.Path)
}

func TestOpenAIConfig_Enabled(t *testing.T) {
	assert.False(t, OpenAIConfig{}.Enabled())
	assert.True(t, OpenAIConfig{APIKey: "sk-x"}.Enabled())
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Data.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Query.MaxListResults = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.OpenAI.MinConfidence = 1.5
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.History.Enabled = true
	cfg.History.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}
