// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vault persists rendered notes into the vault directory and
// maintains a SQLite index over their frontmatter for search and citekey
// uniqueness checks.
package vault

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litnote/internal/notes"
)

const (
	litnoteDir = ".litnote"
	dbFile     = "index.db"
	noteExt    = ".md"
)

// Store manages the vault note index SQLite database.
type Store struct {
	db       *sql.DB
	vaultDir string
}

// NewStore opens or creates the note index at vaultDir/.litnote/index.db.
// It creates the schema if it does not exist.
func NewStore(vaultDir string) (*Store, error) {
	dbDir := filepath.Join(vaultDir, litnoteDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, vaultDir: vaultDir}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			citekey TEXT NOT NULL UNIQUE,
			title TEXT,
			authors TEXT,
			year TEXT,
			note_type TEXT,
			path TEXT NOT NULL,
			body TEXT NOT NULL,
			file_mod_time TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_year ON notes(year)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_type ON notes(note_type)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='notes_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE notes_fts USING fts5(title, authors, body, content=notes, content_rowid=rowid)`,
			`CREATE TRIGGER notes_ai AFTER INSERT ON notes BEGIN
				INSERT INTO notes_fts(rowid, title, authors, body) VALUES (new.rowid, new.title, new.authors, new.body);
			END`,
			`CREATE TRIGGER notes_ad AFTER DELETE ON notes BEGIN
				INSERT INTO notes_fts(notes_fts, rowid, title, authors, body) VALUES('delete', old.rowid, old.title, old.authors, old.body);
			END`,
			`CREATE TRIGGER notes_au AFTER UPDATE ON notes BEGIN
				INSERT INTO notes_fts(notes_fts, rowid, title, authors, body) VALUES('delete', old.rowid, old.title, old.authors, old.body);
				INSERT INTO notes_fts(rowid, title, authors, body) VALUES (new.rowid, new.title, new.authors, new.body);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Exists reports whether a citekey is already taken, either in the index
// or as a note file named after it in the vault root.
func (s *Store) Exists(ctx context.Context, citekey string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM notes WHERE citekey = ?`, citekey,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking citekey: %w", err)
	}
	if count > 0 {
		return true, nil
	}

	if _, err := os.Stat(filepath.Join(s.vaultDir, citekey+noteExt)); err == nil {
		return true, nil
	}
	return false, nil
}

// EnsureUnique returns citekey if it is unused, otherwise the first free
// suffixed variant (citekeya, citekeyb, ...).
func (s *Store) EnsureUnique(ctx context.Context, citekey string) (string, error) {
	taken, err := s.Exists(ctx, citekey)
	if err != nil {
		return "", err
	}
	if !taken {
		return citekey, nil
	}

	for suffix := 'a'; suffix <= 'z'; suffix++ {
		candidate := citekey + string(suffix)
		taken, err := s.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free citekey variant for %q", citekey)
}

// SaveNote writes the note file into the vault and indexes it. It returns
// the path of the written file.
func (s *Store) SaveNote(ctx context.Context, note *notes.Note) (string, error) {
	path := filepath.Join(s.vaultDir, note.Filename+noteExt)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating note directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(note.Content), 0o644); err != nil {
		return "", fmt.Errorf("writing note: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stating note: %w", err)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	if err := s.indexNote(ctx, path, note.Content, modTime); err != nil {
		return "", err
	}
	return path, nil
}

// noteFields are the frontmatter fields the index cares about.
type noteFields struct {
	Citekey string   `yaml:"citekey"`
	Title   string   `yaml:"title"`
	Authors []string `yaml:"authors"`
	Year    any      `yaml:"year"`
	Type    string   `yaml:"type"`
}

func (f noteFields) yearString() string {
	switch y := f.Year.(type) {
	case nil:
		return ""
	case string:
		return y
	default:
		return fmt.Sprint(y)
	}
}

// parseNote splits a note document into its frontmatter fields and body.
func parseNote(content string) (noteFields, string, error) {
	var fields noteFields
	if !strings.HasPrefix(content, "---\n") {
		return fields, "", fmt.Errorf("missing frontmatter")
	}
	parts := strings.SplitN(content, "---\n", 3)
	if len(parts) < 3 {
		return fields, "", fmt.Errorf("unterminated frontmatter")
	}
	if err := yaml.Unmarshal([]byte(parts[1]), &fields); err != nil {
		return fields, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	if fields.Citekey == "" {
		return fields, "", fmt.Errorf("frontmatter has no citekey")
	}
	return fields, strings.TrimSpace(parts[2]), nil
}

func (s *Store) indexNote(ctx context.Context, path, content, modTime string) error {
	fields, body, err := parseNote(content)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", path, err)
	}

	authorsJSON, _ := json.Marshal(fields.Authors)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO notes (citekey, title, authors, year, note_type, path, body, file_mod_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(citekey) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, year=excluded.year,
			note_type=excluded.note_type, path=excluded.path, body=excluded.body,
			file_mod_time=excluded.file_mod_time`,
		fields.Citekey, fields.Title, string(authorsJSON), fields.yearString(),
		fields.Type, path, body, modTime,
	)
	if err != nil {
		return fmt.Errorf("upserting note %s: %w", fields.Citekey, err)
	}
	return nil
}

// ReindexSummary holds counts from a vault reindexing run.
type ReindexSummary struct {
	Indexed int
	Updated int
	Skipped int
	Removed int
	Failed  int
}

// Total returns the number of note files processed.
func (s ReindexSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Reindex walks the vault directory for Markdown notes and rebuilds the
// index incrementally: unchanged files are skipped by modification time,
// changed files are re-read, and rows whose files vanished are removed.
func (s *Store) Reindex(ctx context.Context, w io.Writer) (ReindexSummary, error) {
	var summary ReindexSummary
	seen := make(map[string]bool)

	err := filepath.WalkDir(s.vaultDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == litnoteDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), noteExt) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, relErr := filepath.Rel(s.vaultDir, path)
		if relErr != nil {
			rel = path
		}
		seen[path] = true

		info, err := d.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", rel, err)
			summary.Failed++
			return nil
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		dbErr := s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM notes WHERE path = ?`, path,
		).Scan(&storedModTime)

		if dbErr == nil && storedModTime == modTime {
			summary.Skipped++
			return nil
		}
		isUpdate := dbErr == nil

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", rel, err)
			summary.Failed++
			return nil
		}

		if err := s.indexNote(ctx, path, string(data), modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", rel, err)
			summary.Failed++
			return nil
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s\n", rel)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s\n", rel)
			summary.Indexed++
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("walking vault: %w", err)
	}

	removed, err := s.removeMissing(ctx, seen)
	if err != nil {
		return summary, err
	}
	summary.Removed = removed

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, removed: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Removed, summary.Failed)
	return summary, nil
}

func (s *Store) removeMissing(ctx context.Context, seen map[string]bool) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT citekey, path FROM notes`)
	if err != nil {
		return 0, fmt.Errorf("listing indexed notes: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var citekey, path string
		if err := rows.Scan(&citekey, &path); err != nil {
			return 0, fmt.Errorf("scanning row: %w", err)
		}
		if !seen[path] {
			stale = append(stale, citekey)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, citekey := range stale {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE citekey = ?`, citekey); err != nil {
			return 0, fmt.Errorf("removing note %s: %w", citekey, err)
		}
	}
	return len(stale), nil
}
