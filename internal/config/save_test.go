package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveValue_CreatesNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveValue(path, "server.url", "http://roster:9000"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "server:\n  url: http://roster:9000\n", string(data))
}

func TestSaveValue_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveValue(path, "server.url", "http://roster:9000"))
	require.NoError(t, SaveValue(path, "theme.error", "#FF0000"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Rosterboard Configuration")
	assert.Contains(t, string(data), "# Base URL of the activities API")

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "http://roster:9000", v.GetString("server.url"))
	assert.Equal(t, "#FF0000", v.GetString("theme.error"))
	assert.Equal(t, "10s", v.GetString("server.timeout"))
}

func TestSaveValue_AddsSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  mouse: true\n"), 0o600))

	require.NoError(t, SaveValue(path, "serve.db_path", "roster.db"))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.True(t, v.GetBool("ui.mouse"))
	assert.Equal(t, "roster.db", v.GetString("serve.db_path"))
}

func TestSaveValue_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: plain\n"), 0o600))

	assert.Error(t, SaveValue(path, "server..url", "x"))
	assert.ErrorContains(t, SaveValue(path, "server.url", "x"), "is not a section")

	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))
	assert.ErrorContains(t, SaveValue(path, "server.url", "x"), "not a mapping")
}
