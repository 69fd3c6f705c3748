// Package store provides persistent chat history storage backed by SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/katoonagu/Aichatinterfacedesign/internal/logging"
)

// DB wraps a SQLite database connection with migration support.
type DB struct {
	sql *sql.DB
	log *logging.Logger
}

// Open opens (or creates) a SQLite database at the given path and runs migrations.
// Use ":memory:" for an in-memory database (useful for tests).
func Open(path string, log *logging.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	db := &DB{sql: sqlDB, log: log.Sub("store")}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	db.log.Info().Str("path", path).Msg("database opened")
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.log.Info().Msg("closing database")
	return db.sql.Close()
}

// SQL returns the underlying *sql.DB for direct queries.
func (db *DB) SQL() *sql.DB {
	return db.sql
}

// migrate runs all pending migrations.
func (db *DB) migrate() error {
	if _, err := db.sql.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := db.isMigrationApplied(m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		db.log.Info().Int("version", m.Version).Str("name", m.Name).Msg("applying migration")

		tx, err := db.sql.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func (db *DB) isMigrationApplied(version int) (bool, error) {
	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking migration %d: %w", version, err)
	}
	return count > 0, nil
}

// SQLiteMessageStore implements MessageStore backed by SQLite.
type SQLiteMessageStore struct {
	db *DB
}

// NewSQLiteMessageStore creates a message store using the given database.
func NewSQLiteMessageStore(db *DB) *SQLiteMessageStore {
	return &SQLiteMessageStore{db: db}
}

// Append adds one row to a session's history and returns the new row count.
func (s *SQLiteMessageStore) Append(sessionID string, row Row) (int, error) {
	ts := row.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var sources sql.NullString
	if row.Sources != "" {
		sources = sql.NullString{String: row.Sources, Valid: true}
	}

	_, err := s.db.sql.Exec(
		`INSERT INTO messages (session_id, message_id, role, content, timestamp, sources)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, row.MessageID, row.Role, row.Content,
		ts.UTC().Format(time.RFC3339), sources,
	)
	if err != nil {
		return 0, fmt.Errorf("appending message: %w", err)
	}

	var count int
	if err := s.db.sql.QueryRow(
		`SELECT COUNT(*) FROM messages WHERE session_id = ?`, sessionID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return count, nil
}

// Replace overwrites a session's history with the given rows.
func (s *SQLiteMessageStore) Replace(sessionID string, rows []Row) error {
	tx, err := s.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing session: %w", err)
	}

	for _, row := range rows {
		ts := row.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		var sources sql.NullString
		if row.Sources != "" {
			sources = sql.NullString{String: row.Sources, Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO messages (session_id, message_id, role, content, timestamp, sources)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			sessionID, row.MessageID, row.Role, row.Content,
			ts.UTC().Format(time.RFC3339), sources,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting message: %w", err)
		}
	}

	return tx.Commit()
}

// History returns a session's rows in insertion order, ascending.
func (s *SQLiteMessageStore) History(sessionID string) ([]Row, error) {
	rows, err := s.db.sql.Query(
		`SELECT message_id, role, content, timestamp, sources
		 FROM messages WHERE session_id = ? ORDER BY id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	defer rows.Close()

	result := []Row{}
	for rows.Next() {
		var row Row
		var ts string
		var sources sql.NullString

		if err := rows.Scan(&row.MessageID, &row.Role, &row.Content, &ts, &sources); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		row.Timestamp, _ = time.Parse(time.RFC3339, ts)
		if sources.Valid {
			row.Sources = sources.String
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Sessions returns summaries for all sessions, newest first.
func (s *SQLiteMessageStore) Sessions() ([]Summary, error) {
	rows, err := s.db.sql.Query(`
		SELECT m.session_id,
		       (SELECT content FROM messages WHERE session_id = m.session_id ORDER BY id ASC LIMIT 1),
		       (SELECT content FROM messages WHERE session_id = m.session_id ORDER BY id DESC LIMIT 1),
		       MAX(m.timestamp),
		       COUNT(*)
		FROM messages m
		GROUP BY m.session_id
		ORDER BY MAX(m.timestamp) DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	result := []Summary{}
	for rows.Next() {
		var id, first, last, ts string
		var count int
		if err := rows.Scan(&id, &first, &last, &ts, &count); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		date, _ := time.Parse(time.RFC3339, ts)
		result = append(result, summarize(id, first, last, date, count))
	}
	return result, rows.Err()
}

// Clear removes all rows for a session.
func (s *SQLiteMessageStore) Clear(sessionID string) error {
	_, err := s.db.sql.Exec(`DELETE FROM messages WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
