package export

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Writer persists CSV documents into the export directory and keeps a
// SQLite ledger of what was written, so repeated exports of identical
// content are detected instead of re-shared.
type Writer struct {
	dir string
	db  *sql.DB
}

// NewWriter opens (or creates) the export directory and its ledger at
// dir/exports.db.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "exports.db"))
	if err != nil {
		return nil, fmt.Errorf("opening export ledger: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS exports (
		id         TEXT PRIMARY KEY,
		filename   TEXT NOT NULL,
		hash       TEXT NOT NULL,
		size       INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger table: %w", err)
	}

	return &Writer{dir: dir, db: db}, nil
}

// Write stores the CSV text under filename and records it in the ledger.
// Returns the full path and whether an identical export already existed.
func (w *Writer) Write(filename, text string) (path string, duplicate bool, err error) {
	sum := sha256.Sum256([]byte(text))
	hash := hex.EncodeToString(sum[:])

	var count int
	if err := w.db.QueryRow(
		`SELECT COUNT(*) FROM exports WHERE filename = ? AND hash = ?`,
		filename, hash,
	).Scan(&count); err != nil {
		return "", false, fmt.Errorf("checking ledger: %w", err)
	}

	path = filepath.Join(w.dir, filename)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", false, fmt.Errorf("writing export: %w", err)
	}

	if count > 0 {
		return path, true, nil
	}

	if _, err := w.db.Exec(
		`INSERT INTO exports (id, filename, hash, size) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), filename, hash, len(text),
	); err != nil {
		return "", false, fmt.Errorf("recording export: %w", err)
	}
	return path, false, nil
}

// Close closes the ledger database.
func (w *Writer) Close() error {
	return w.db.Close()
}
