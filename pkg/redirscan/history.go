package redirscan

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"opskit/pkg/models"
)

// Schema contains the SQL statements to create the scan history schema.
const Schema = `
-- Seen redirect entries, unique per source/timestamp/request/target.
CREATE TABLE IF NOT EXISTS seen_redirects (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    source_ip  TEXT NOT NULL,
    timestamp  TEXT NOT NULL,
    request    TEXT NOT NULL,
    status     INTEGER NOT NULL,
    target     TEXT NOT NULL,
    first_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (source_ip, timestamp, request, target)
);

CREATE INDEX IF NOT EXISTS idx_seen_target ON seen_redirects(target);
`

// ErrHistoryClosed is returned when the history store is used after Close.
var ErrHistoryClosed = errors.New("history store is closed")

// History records which redirect entries earlier scans already reported.
type History struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenHistory opens (and if needed initializes) the history database.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return &History{db: db}, nil
}

// MarkSeen records the entry and reports whether it was new. An entry
// already present from a previous scan returns false.
func (h *History) MarkSeen(entry models.RedirectEntry) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db == nil {
		return false, ErrHistoryClosed
	}

	res, err := h.db.Exec(
		`INSERT OR IGNORE INTO seen_redirects (source_ip, timestamp, request, status, target)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.SourceIP, entry.Timestamp, entry.Request, entry.Status, entry.Target)
	if err != nil {
		return false, fmt.Errorf("record redirect entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record redirect entry: %w", err)
	}
	return n > 0, nil
}

// SeenCount returns the number of recorded entries.
func (h *History) SeenCount() (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db == nil {
		return 0, ErrHistoryClosed
	}

	var count int64
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM seen_redirects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count redirect entries: %w", err)
	}
	return count, nil
}

// Close releases the underlying database.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}
