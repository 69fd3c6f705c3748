package store

import (
	"time"

	"github.com/katoonagu/Aichatinterfacedesign/internal/domain"
)

// Row is one persisted chat message under a session key. The store keeps the
// wire representation: roles are wire roles ("user"/"ai") and sources are an
// opaque JSON blob, translated at the client boundary.
type Row struct {
	MessageID string
	Role      string
	Content   string
	Timestamp time.Time
	Sources   string // JSON array, empty if none
}

// Summary is a session list entry with server-derived display fields.
type Summary struct {
	ID       string
	Title    string
	Preview  string
	Date     time.Time
	Messages int
}

// MessageStore is the append-only persistence contract behind the chat endpoint.
// Sessions exist implicitly: a session is created by the first Append under
// its ID and disappears when its rows are cleared.
type MessageStore interface {
	// Append adds one row to a session's history.
	Append(sessionID string, row Row) (count int, err error)

	// Replace overwrites a session's history with the given rows (full sync).
	Replace(sessionID string, rows []Row) error

	// History returns a session's rows in insertion order, ascending.
	// A session with no rows yields an empty slice, not an error.
	History(sessionID string) ([]Row, error)

	// Sessions returns summaries for all sessions, newest first.
	Sessions() ([]Summary, error)

	// Clear removes all rows for a session.
	Clear(sessionID string) error
}

// summarize derives display fields from a session's first and latest rows.
func summarize(sessionID, firstContent, lastContent string, date time.Time, count int) Summary {
	return Summary{
		ID:       sessionID,
		Title:    domain.TitleFromContent(firstContent),
		Preview:  domain.PreviewFromContent(lastContent),
		Date:     date,
		Messages: count,
	}
}
