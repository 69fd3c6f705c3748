package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katoonagu/Aichatinterfacedesign/internal/domain"
	"github.com/katoonagu/Aichatinterfacedesign/internal/logging"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_id")
	return NewManager(path, logging.New(nil, "silent"))
}

func TestUserID_Idempotent(t *testing.T) {
	m := testManager(t)

	first, err := m.UserID()
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := m.UserID()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUserID_StableAcrossManagers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_id")
	log := logging.New(nil, "silent")

	m1 := NewManager(path, log)
	first, err := m1.UserID()
	require.NoError(t, err)

	// A new manager over the same file simulates a reload.
	m2 := NewManager(path, log)
	second, err := m2.UserID()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUserID_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_id")
	require.NoError(t, os.WriteFile(path, []byte("existing-id\n"), 0o600))

	m := NewManager(path, logging.New(nil, "silent"))
	id, err := m.UserID()
	require.NoError(t, err)
	assert.Equal(t, "existing-id", id)
}

func TestUserID_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "user_id")
	m := NewManager(path, logging.New(nil, "silent"))

	id, err := m.UserID()
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.FileExists(t, path)
}

func TestNewSessionID(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	id := NewSessionID("user-1", domain.DomainTransformers, at)
	assert.Equal(t, fmt.Sprintf("user-1-transformers-%d", at.UnixMilli()), id)
}

func TestNewSessionID_DistinctPerInstant(t *testing.T) {
	a := NewSessionID("u", domain.DomainGeneral, time.UnixMilli(1))
	b := NewSessionID("u", domain.DomainGeneral, time.UnixMilli(2))
	assert.NotEqual(t, a, b)
}
