package store

import (
	"sort"
	"sync"
	"time"
)

// MemoryMessageStore is an in-memory MessageStore implementation.
type MemoryMessageStore struct {
	mu   sync.RWMutex
	rows map[string][]Row // session id → ordered rows
}

// NewMemoryMessageStore creates an in-memory message store.
func NewMemoryMessageStore() *MemoryMessageStore {
	return &MemoryMessageStore{rows: make(map[string][]Row)}
}

func (s *MemoryMessageStore) Append(sessionID string, row Row) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row.Timestamp.IsZero() {
		row.Timestamp = time.Now()
	}
	s.rows[sessionID] = append(s.rows[sessionID], row)
	return len(s.rows[sessionID]), nil
}

func (s *MemoryMessageStore) Replace(sessionID string, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replacement := make([]Row, len(rows))
	copy(replacement, rows)
	s.rows[sessionID] = replacement
	return nil
}

func (s *MemoryMessageStore) History(sessionID string) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.rows[sessionID]
	result := make([]Row, len(rows))
	copy(result, rows)
	return result, nil
}

func (s *MemoryMessageStore) Sessions() ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []Summary{}
	for id, rows := range s.rows {
		if len(rows) == 0 {
			continue
		}
		first := rows[0]
		last := rows[len(rows)-1]
		result = append(result, summarize(id, first.Content, last.Content, last.Timestamp, len(rows)))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

func (s *MemoryMessageStore) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, sessionID)
	return nil
}
