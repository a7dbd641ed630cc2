package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	config := NewDefaultConfig()
	require.NoError(t, config.Validate())

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "badger", config.Storage.Type)
	assert.True(t, config.Scheduler.Enabled)
	assert.False(t, config.LLM.Enabled)
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)
	assert.Equal(t, "./keys", config.Keys.Dir)
}

func TestLoadFromFiles_NoPathsReturnsDefaults(t *testing.T) {
	config, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "witty", config.Recap.DefaultPersona)
}

func TestLoadFromFiles_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, "aicommissioner.toml", `
environment = "production"

[server]
port = 9090

[recap]
default_persona = "roastmaster"
`)

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "roastmaster", config.Recap.DefaultPersona)

	// Unset values keep their defaults
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 730, config.Recap.RetentionDays)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	first := writeConfigFile(t, "base.toml", `
[server]
port = 9090
host = "0.0.0.0"
`)
	second := writeConfigFile(t, "override.toml", `
[server]
port = 9191
`)

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)

	assert.Equal(t, 9191, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestLoadFromFiles_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "aicommissioner.toml", `
[server]
port = 9090
`)
	t.Setenv("AICOMMISSIONER_SERVER_PORT", "9797")
	t.Setenv("AICOMMISSIONER_LOG_LEVEL", "debug")

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9797, config.Server.Port)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromFiles_MissingFileFails(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFromFiles_InvalidValuesRejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad environment", content: "environment = \"staging\"\n"},
		{name: "port out of range", content: "[server]\nport = 70000\n"},
		{name: "unknown log level", content: "[logging]\nlevel = \"verbose\"\n"},
		{name: "unknown storage type", content: "[storage]\ntype = \"postgres\"\n"},
		{name: "unknown llm provider", content: "[llm]\ndefault_provider = \"gpt\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, "bad.toml", tt.content)
			_, err := LoadFromFiles(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 9999, "recaps.example.com")
	assert.Equal(t, 9999, config.Server.Port)
	assert.Equal(t, "recaps.example.com", config.Server.Host)

	// Zero values leave config untouched
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 9999, config.Server.Port)
	assert.Equal(t, "recaps.example.com", config.Server.Host)
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	config := NewDefaultConfig()
	config.Scheduler.Timezone = "Not/AZone"
	assert.Equal(t, "UTC", config.Location().String())

	config.Scheduler.Timezone = "America/New_York"
	assert.Equal(t, "America/New_York", config.Location().String())
}
