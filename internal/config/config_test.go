package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "https://polygon-rpc.com", cfg.RPCURL)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.ListenAddr())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"POLYGONSCAN_API_KEY": "scan-key",
		"DEEPSEEK_API_KEY":    "llm-key",
		"PROVIDER_URL":        "http://localhost:8545",
		"PORT":                "8080",
		"LOG_LEVEL":           "debug",
		"LLM_TIMEOUT":         "45s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "scan-key", cfg.ExplorerAPIKey)
	assert.Equal(t, "llm-key", cfg.LLMAPIKey)
	assert.Equal(t, "http://localhost:8545", cfg.RPCURL)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.LLMTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_InvalidValues(t *testing.T) {
	_, err := FromEnv(lookupFrom(map[string]string{"PORT": "http"}))
	assert.Error(t, err)

	_, err = FromEnv(lookupFrom(map[string]string{"EXPLORER_TIMEOUT": "soon"}))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLYGONSCAN_API_KEY")
	assert.Contains(t, err.Error(), "DEEPSEEK_API_KEY")

	cfg.ExplorerAPIKey = "a"
	cfg.LLMAPIKey = "b"
	cfg.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("POLYGONSCAN_API_URL=http://explorer.local/api\n# comment\n"), 0o600))
	t.Setenv("POLYGONSCAN_API_URL", "")
	os.Unsetenv("POLYGONSCAN_API_URL")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://explorer.local/api", cfg.ExplorerURL)
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
