// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vault

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

const defaultMaxResults = 20

// QueryOptions holds parameters for note index queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over title, authors
	// and body.
	Query string

	// Type filters by CSL item type.
	Type string

	// Year filters by publication year.
	Year string

	// MaxResults limits result count. Zero uses the default of 20.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Type == "" && q.Year == ""
}

// Result is one indexed note matched by a query.
type Result struct {
	Citekey string   `json:"citekey" yaml:"citekey"`
	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors" yaml:"authors"`
	Year    string   `json:"year" yaml:"year"`
	Type    string   `json:"type" yaml:"type"`
	Path    string   `json:"path" yaml:"path"`
	Snippet string   `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// Search queries the note index with optional full-text search and
// structured filters. Full-text results are ranked by relevance;
// filter-only results sort by citekey.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT n.citekey, n.title, n.authors, n.year, n.note_type, n.path,
				snippet(notes_fts, 2, '', '', '...', 12)
			FROM notes_fts
			JOIN notes n ON n.rowid = notes_fts.rowid
			WHERE notes_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT n.citekey, n.title, n.authors, n.year, n.note_type, n.path, ''
			FROM notes n
			WHERE 1=1`)
	}

	if opts.Type != "" {
		qb.WriteString(` AND n.note_type = ?`)
		args = append(args, opts.Type)
	}

	if opts.Year != "" {
		qb.WriteString(` AND n.year = ?`)
		args = append(args, opts.Year)
	}

	if useFTS {
		qb.WriteString(` ORDER BY notes_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY n.citekey`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying note index: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r           Result
			authorsJSON sql.NullString
		)
		if err := rows.Scan(
			&r.Citekey, &r.Title, &authorsJSON, &r.Year, &r.Type, &r.Path, &r.Snippet,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &r.Authors)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
