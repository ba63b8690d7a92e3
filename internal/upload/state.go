package upload

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one pushed export as remembered in uploads.db.
type Record struct {
	Path             string    `json:"path"`
	Hash             string    `json:"hash"`
	Format           Format    `json:"format"`
	ImportID         uuid.UUID `json:"import_id"`
	EntriesInserted  int       `json:"entries_inserted"`
	EntriesDuplicate int       `json:"entries_duplicate"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// StateDB remembers which export contents have already been pushed.
// Files are keyed by path relative to the push root, so an export that is
// edited and re-exported under the same name is sent again.
type StateDB struct {
	db *sql.DB
}

const stateSchema = `CREATE TABLE IF NOT EXISTS pushed_exports (
	path              TEXT PRIMARY KEY,
	hash              TEXT NOT NULL,
	format            TEXT NOT NULL,
	import_id         TEXT,
	entries_inserted  INTEGER NOT NULL DEFAULT 0,
	entries_duplicate INTEGER NOT NULL DEFAULT 0,
	uploaded_at       INTEGER NOT NULL
)`

// OpenStateDB opens or creates dir/uploads.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "uploads.db"))
	if err != nil {
		return nil, fmt.Errorf("opening upload state: %w", err)
	}
	if _, err := db.Exec(stateSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating upload state table: %w", err)
	}
	return &StateDB{db: db}, nil
}

// Pushed reports whether the export at path was already sent with this
// content hash.
func (s *StateDB) Pushed(path, hash string) (bool, error) {
	var stored string
	err := s.db.QueryRow(`SELECT hash FROM pushed_exports WHERE path = ?`, path).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == hash, nil
}

// Remember stores rec, replacing any earlier push of the same path.
func (s *StateDB) Remember(rec Record) error {
	var importID any
	if rec.ImportID != uuid.Nil {
		importID = rec.ImportID.String()
	}
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO pushed_exports
		(path, hash, format, import_id, entries_inserted, entries_duplicate, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Path, rec.Hash, string(rec.Format), importID,
		rec.EntriesInserted, rec.EntriesDuplicate, rec.UploadedAt.UnixMilli())
	return err
}

// History returns the most recent pushes, newest first. limit <= 0 means
// all of them.
func (s *StateDB) History(limit int) ([]Record, error) {
	q := `SELECT path, hash, format, import_id, entries_inserted, entries_duplicate, uploaded_at
		FROM pushed_exports ORDER BY uploaded_at DESC, path`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying upload history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec      Record
			format   string
			importID sql.NullString
			millis   int64
		)
		if err := rows.Scan(&rec.Path, &rec.Hash, &format, &importID,
			&rec.EntriesInserted, &rec.EntriesDuplicate, &millis); err != nil {
			return nil, err
		}
		rec.Format = Format(format)
		if importID.Valid {
			rec.ImportID, _ = uuid.Parse(importID.String)
		}
		rec.UploadedAt = time.UnixMilli(millis)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashFile returns the hex SHA-256 of the file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
