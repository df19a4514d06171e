// ABOUTME: SQLite audit trail for authorization denials and provisioning outcomes
// ABOUTME: Best-effort by design; a failed audit write is logged and never blocks handling

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is a single audit record: who did what, when.
type Entry struct {
	ID        string
	ChatID    int64
	Action    string // "access_denied", "secret_created", "provision_cancelled"
	Detail    string
	Timestamp time.Time
}

// AuditStore persists audit entries in SQLite.
type AuditStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates (or opens) the audit database at path. The schema is
// created if it doesn't exist; parent directories are created as needed.
func Open(path string, logger *slog.Logger) (*AuditStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "audit")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS audit_log (
			audit_id TEXT PRIMARY KEY,
			chat_id INTEGER NOT NULL,
			action TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			ts DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_audit_log_ts ON audit_log(ts);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("audit store initialized", "path", path)
	return &AuditStore{db: db, logger: logger}, nil
}

// Record appends an audit entry. Failures are logged, never returned:
// the audit trail must not be able to stall or fail event handling.
func (s *AuditStore) Record(ctx context.Context, chatID int64, action, detail string) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (audit_id, chat_id, action, detail, ts) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(),
		chatID,
		action,
		detail,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		s.logger.Error("failed to append audit entry", "chat_id", chatID, "action", action, "error", err)
		return
	}

	s.logger.Debug("audit entry appended", "chat_id", chatID, "action", action)
}

// Entries returns the most recent audit entries, newest first.
func (s *AuditStore) Entries(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT audit_id, chat_id, action, detail, ts FROM audit_log ORDER BY ts DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var tsStr string
		if err := rows.Scan(&e.ID, &e.ChatID, &e.Action, &e.Detail, &tsStr); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Timestamp, err = time.Parse(time.RFC3339, tsStr)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	return entries, nil
}

// Close closes the underlying database.
func (s *AuditStore) Close() error {
	return s.db.Close()
}
