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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv(TokenEnv, "")
	path := writeConfig(t, `
bot:
  token: "123:abc"
warn:
  sender_name: WARN
  test_group_id: -1001
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", c.Bot.Token)
	assert.Equal(t, "zh_CN", c.Bot.Language)
	assert.Equal(t, []string{"/", "!"}, c.Warn.Prefixes)
	assert.Equal(t, 3, c.Warn.DefaultConfig.Limit)
	assert.Equal(t, int64(-1001), c.Warn.TestGroupID)
	assert.Equal(t, "data", c.Data.Directory)
	assert.False(t, c.Database.Enabled)
	assert.Same(t, c, Get())
}

func TestLoad_TokenFromEnvironment(t *testing.T) {
	t.Setenv(TokenEnv, "999:env")
	path := writeConfig(t, `
bot:
  token: "123:file"
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "999:env", c.Bot.Token)
}

func TestLoad_RejectsInvalidLimit(t *testing.T) {
	path := writeConfig(t, `
warn:
  default_config:
    limit: 9
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RequiresPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
