package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePathsDefault(t *testing.T) {
	t.Setenv("ENERCHAT_HOME", "")

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Contains(t, p.Base, ".enerchat")
	assert.Equal(t, filepath.Join(p.Base, "config.yaml"), p.Config)
	assert.Equal(t, filepath.Join(p.Base, "user_id"), p.Identity)
}

func TestResolvePathsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ENERCHAT_HOME", dir)

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, dir, p.Base)
	assert.Equal(t, filepath.Join(dir, "data"), p.Data)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ENERCHAT_HOME", filepath.Join(dir, "home"))

	p, err := ResolvePaths()
	require.NoError(t, err)
	require.NoError(t, p.EnsureDirs())

	assert.DirExists(t, p.Base)
	assert.DirExists(t, p.Data)
	assert.DirExists(t, p.Logs)
}

func TestDBPath(t *testing.T) {
	p := Paths{Data: "/tmp/data"}
	assert.Equal(t, filepath.Join("/tmp/data", "enerchat.db"), p.DBPath(StoreConfig{}))
	assert.Equal(t, "/custom/chat.db", p.DBPath(StoreConfig{Path: "/custom/chat.db"}))
}

func TestParseConfigPath(t *testing.T) {
	path, err := ParseConfigPath("server.port")
	require.NoError(t, err)
	assert.Equal(t, []string{"server", "port"}, path)
}

func TestParseConfigPathEmpty(t *testing.T) {
	_, err := ParseConfigPath("")
	assert.Error(t, err)

	_, err = ParseConfigPath("server..port")
	assert.Error(t, err)
}

func TestParseConfigPathBlocked(t *testing.T) {
	_, err := ParseConfigPath("server.__proto__")
	assert.Error(t, err)
}

func TestGetSetUnsetValueAtPath(t *testing.T) {
	root := map[string]any{}

	SetValueAtPath(root, []string{"logging", "level"}, "debug")
	val, ok := GetValueAtPath(root, []string{"logging", "level"})
	require.True(t, ok)
	assert.Equal(t, "debug", val)

	assert.True(t, UnsetValueAtPath(root, []string{"logging", "level"}))
	_, ok = GetValueAtPath(root, []string{"logging", "level"})
	assert.False(t, ok)

	assert.False(t, UnsetValueAtPath(root, []string{"logging", "missing"}))
}
