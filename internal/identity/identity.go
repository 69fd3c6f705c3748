// Package identity manages the anonymous user identifier and session IDs.
//
// The user identifier is process-wide state with a documented lifecycle: it is
// read from durable storage (or generated and persisted) on first access,
// cached for every later access, and never torn down within a process.
package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katoonagu/Aichatinterfacedesign/internal/domain"
	"github.com/katoonagu/Aichatinterfacedesign/internal/logging"
)

// Manager resolves the stable anonymous user identifier for this installation.
type Manager struct {
	path string
	log  *logging.Logger

	mu     sync.Mutex
	cached string
}

// NewManager creates an identity manager persisting to the given file path.
func NewManager(path string, log *logging.Logger) *Manager {
	return &Manager{path: path, log: log.Sub("identity")}
}

// UserID returns the persisted anonymous user identifier, generating and
// persisting a new one if none exists yet. Repeated calls return the same
// value for the lifetime of the installation.
func (m *Manager) UserID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != "" {
		return m.cached, nil
	}

	data, err := os.ReadFile(m.path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if id != "" {
			m.cached = id
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("reading user id: %w", err)
	}

	id := uuid.New().String()
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return "", fmt.Errorf("creating identity directory: %w", err)
	}
	if err := os.WriteFile(m.path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("persisting user id: %w", err)
	}

	m.log.Info().Str("userId", id).Msg("generated new user identifier")
	m.cached = id
	return id, nil
}

// NewSessionID derives a fresh session identifier. The format embeds the user
// id, domain, and creation instant so sessions stay human-traceable, but every
// other component treats the result as opaque.
func NewSessionID(userID string, d domain.Domain, at time.Time) string {
	return fmt.Sprintf("%s-%s-%d", userID, d, at.UnixMilli())
}
