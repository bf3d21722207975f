// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litnote/pkg/types"
)

func testRecord() types.Record {
	return types.Record{
		"id":    "smith2023",
		"type":  "article-journal",
		"title": "Gradient Descent Revisited",
		"DOI":   "10.1000/xyz123",
		"author": []any{
			map[string]any{"family": "Smith", "given": "John"},
		},
		"issued": map[string]any{"date-parts": []any{[]any{float64(2023)}}},
	}
}

func TestBuildNote(t *testing.T) {
	note, err := Build(testRecord(), "", types.NoteConfig{}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "smith2023", note.Citekey)
	assert.Equal(t, "smith2023", note.Filename)
	assert.True(t, strings.HasPrefix(note.Content, "---\n"))
	assert.Contains(t, note.Content, "# Gradient Descent Revisited")
	assert.Contains(t, note.Content, "by J. Smith")

	// The frontmatter block must round-trip as YAML.
	parts := strings.SplitN(note.Content, "---\n", 3)
	require.Len(t, parts, 3)
	var fm map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "smith2023", fm["citekey"])
	assert.Equal(t, "Gradient Descent Revisited", fm["title"])
	assert.Equal(t, "10.1000/xyz123", fm["DOI"])
	assert.Equal(t, "2023", fm["year"])
}

func TestBuildNoteCustomBody(t *testing.T) {
	note, err := Build(testRecord(), "{{citekey}}: {{title|uppercase}}", types.NoteConfig{}, nil, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(note.Content, "smith2023: GRADIENT DESCENT REVISITED"))
}

func TestBuildNoteCustomFrontmatter(t *testing.T) {
	cfg := types.NoteConfig{
		Frontmatter: map[string]string{
			"doi-link": "https://doi.org/{{DOI}}",
			"files":    "[{{#quoted_attachments}}{{.}}{{^@last}}, {{/@last}}{{/quoted_attachments}}]",
			"aliases":  "[]",
		},
	}
	note, err := Build(testRecord(), "", cfg, []string{"papers/smith.pdf"}, nil)
	require.NoError(t, err)

	parts := strings.SplitN(note.Content, "---\n", 3)
	require.Len(t, parts, 3)
	var fm map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))

	assert.Equal(t, "https://doi.org/10.1000/xyz123", fm["doi-link"])
	files, ok := fm["files"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"[[papers/smith.pdf|PDF]]"}, files)

	// Empty array templates become [], not an omitted field.
	aliases, ok := fm["aliases"].([]any)
	require.True(t, ok)
	assert.Empty(t, aliases)
}

func TestBuildNoteFilenameTemplate(t *testing.T) {
	cfg := types.NoteConfig{FilenameTemplate: "{{citekey}} - {{title}}"}
	note, err := Build(testRecord(), "", cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "smith2023 - Gradient Descent Revisited", note.Filename)

	// Filesystem-hostile characters are stripped.
	rec := testRecord()
	rec["title"] = `What: "Why?" <Part 1/2>`
	note, err = Build(rec, "", cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "smith2023 - What Why Part 12", note.Filename)
}

func TestBuildNoteNilRecord(t *testing.T) {
	_, err := Build(nil, "", types.NoteConfig{}, nil, nil)
	assert.Error(t, err)
}
