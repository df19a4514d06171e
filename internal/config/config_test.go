// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, and validation failures

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123456:test-token"
  allowed_chat_ids:
    - 111111
    - 222222

mikrotik:
  address: "192.168.88.1:8728"
  username: "admin"
  password: "s3cret"

audit:
  path: "./audit.db"

logging:
  level: "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123456:test-token", cfg.Telegram.Token)
	assert.Equal(t, []int64{111111, 222222}, cfg.Telegram.AllowedChatIDs)
	assert.Equal(t, "192.168.88.1:8728", cfg.Mikrotik.Address)
	assert.Equal(t, "admin", cfg.Mikrotik.Username)
	assert.Equal(t, "s3cret", cfg.Mikrotik.Password)
	assert.Equal(t, "./audit.db", cfg.Audit.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_BOT_TOKEN", "999:from-env")
	t.Setenv("TEST_MT_PASS", "router-pass")

	path := writeConfig(t, `
telegram:
  token: "${TEST_BOT_TOKEN}"

mikrotik:
  address: "10.0.0.1:8728"
  username: "admin"
  password: "${TEST_MT_PASS}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "999:from-env", cfg.Telegram.Token)
	assert.Equal(t, "router-pass", cfg.Mikrotik.Password)
}

func TestLoad_UnsetEnvVarExpandsEmpty(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "${DEFINITELY_NOT_SET_ANYWHERE}"

mikrotik:
  address: "10.0.0.1:8728"
  username: "admin"
`)

	// Token expands to empty, which fails validation.
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.token is required")
}

func TestLoad_MissingToken(t *testing.T) {
	path := writeConfig(t, `
mikrotik:
  address: "10.0.0.1:8728"
  username: "admin"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.token is required")
}

func TestLoad_MissingMikrotikAddress(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"

mikrotik:
  username: "admin"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mikrotik.address is required")
}

func TestLoad_MissingMikrotikUsername(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"

mikrotik:
  address: "10.0.0.1:8728"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mikrotik.username is required")
}

func TestLoad_EmptyAllowListIsValid(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"

mikrotik:
  address: "10.0.0.1:8728"
  username: "admin"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Telegram.AllowedChatIDs)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "telegram: [not: valid")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}
