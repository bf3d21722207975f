// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litnote/pkg/types"
)

func fixClock(t *testing.T, fixed time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = prev })
}

func TestBuildVariablesSpreadsRecord(t *testing.T) {
	rec := types.Record{
		"id":    "smith2023",
		"title": "A Study",
		"DOI":   "10.1/x",
		"issued": map[string]any{
			"date-parts": []any{[]any{float64(2023), float64(5)}},
		},
	}
	vars := BuildVariables(rec, nil, nil, nil)

	assert.Equal(t, "A Study", vars["title"])
	assert.Equal(t, "10.1/x", vars["DOI"])
	assert.Equal(t, "smith2023", vars["citekey"])
	assert.Equal(t, "2023", vars["year"])
	assert.Equal(t, "5", vars["month"])
}

func TestCurrentDateTime(t *testing.T) {
	fixClock(t, time.Date(2026, 8, 30, 9, 5, 7, 0, time.UTC))
	vars := BuildVariables(types.Record{}, nil, nil, nil)
	assert.Equal(t, "2026-08-30", vars["currentDate"])
	assert.Equal(t, "09:05:07", vars["currentTime"])
}

func TestAuthorsDisplay(t *testing.T) {
	tests := []struct {
		name         string
		contributors []types.Contributor
		want         string
	}{
		{"none", nil, ""},
		{
			"single person",
			[]types.Contributor{{Role: "author", Family: "Smith", Given: "John"}},
			"J. Smith",
		},
		{
			"family only",
			[]types.Contributor{{Role: "author", Family: "Smith"}},
			"Smith",
		},
		{
			"two persons",
			[]types.Contributor{
				{Role: "author", Family: "Smith", Given: "John"},
				{Role: "author", Family: "Doe", Given: "Jane"},
			},
			"J. Smith and J. Doe",
		},
		{
			"three or more",
			[]types.Contributor{
				{Role: "author", Family: "Smith", Given: "John"},
				{Role: "author", Family: "Doe", Given: "Jane"},
				{Role: "author", Family: "Roe", Given: "Rex"},
			},
			"J. Smith et al.",
		},
		{
			"institution literal verbatim",
			[]types.Contributor{{Role: "author", Literal: "World Health Organization"}},
			"World Health Organization",
		},
		{
			"names trimmed for display",
			[]types.Contributor{{Role: "author", Family: "  Smith ", Given: " John "}},
			"J. Smith",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := BuildVariables(types.Record{}, tt.contributors, nil, nil)
			assert.Equal(t, tt.want, vars["authorsDisplay"])
		})
	}
}

func TestInstitutionalAuthorLists(t *testing.T) {
	who := []types.Contributor{{Role: "author", Literal: "World Health Organization"}}
	vars := BuildVariables(types.Record{}, who, nil, nil)
	assert.Equal(t, "World Health Organization", vars["authorsDisplay"])
	assert.Equal(t, []string{"World Health Organization"}, vars["authors"])
}

func TestPerRoleArrays(t *testing.T) {
	contributors := []types.Contributor{
		{Role: "author", Family: "Smith", Given: "John"},
		{Role: "author", Literal: "ACME Corp"},
		{Role: "editor", Family: "Jones"},
		{Role: "translator", Given: "Ana"},
	}
	vars := BuildVariables(types.Record{}, contributors, nil, nil)

	assert.Equal(t, []string{"John Smith", "ACME Corp"}, vars["authors"])
	assert.Equal(t, []string{"Smith"}, vars["authors_family"])
	assert.Equal(t, []string{"John"}, vars["authors_given"])
	assert.Equal(t, []string{"Jones"}, vars["editors"])
	assert.Equal(t, []string{"Ana"}, vars["translators"])

	raw, ok := vars["authors_raw"].([]any)
	require.True(t, ok)
	assert.Len(t, raw, 2)
}

func TestAuthorWhitespacePreservedInLists(t *testing.T) {
	// The full-name lists keep internal whitespace exactly as entered;
	// only authorsDisplay trims. Intentional, templates depend on it.
	contributors := []types.Contributor{{Role: "author", Family: "  Smith ", Given: " John  "}}
	vars := BuildVariables(types.Record{}, contributors, nil, nil)
	assert.Equal(t, []string{" John     Smith "}, vars["authors"])
	assert.Equal(t, "J. Smith", vars["authorsDisplay"])
}

func TestAttachmentVariablesAlwaysPresent(t *testing.T) {
	vars := BuildVariables(types.Record{}, nil, nil, nil)
	assert.Equal(t, []string{}, vars["pdflink"])
	assert.Equal(t, []string{}, vars["attachments"])
	assert.Equal(t, []string{}, vars["quoted_attachments"])
	assert.Equal(t, "", vars["attachment"])
	assert.Equal(t, "", vars["raw_pdflink"])
	assert.Equal(t, "", vars["quoted_attachment"])
}

func TestAttachmentVariables(t *testing.T) {
	vars := BuildVariables(types.Record{}, nil, []string{"papers/smith.pdf", "books/smith.epub", "misc/data.csv"}, nil)

	assert.Equal(t, []string{"papers/smith.pdf", "books/smith.epub", "misc/data.csv"}, vars["pdflink"])
	assert.Equal(t, []string{
		"[[papers/smith.pdf|PDF]]",
		"[[books/smith.epub|EPUB]]",
		"[[misc/data.csv|CSV]]",
	}, vars["attachments"])
	assert.Equal(t, "[[papers/smith.pdf|PDF]]", vars["attachment"])
	assert.Equal(t, "papers/smith.pdf", vars["raw_pdflink"])
	assert.Equal(t, `"[[papers/smith.pdf|PDF]]"`, vars["quoted_attachment"])
}

func TestRelatedNoteVariables(t *testing.T) {
	vars := BuildVariables(types.Record{}, nil, nil, []string{"notes/a", "notes/b"})
	assert.Equal(t, []string{"[[notes/a]]", "[[notes/b]]"}, vars["links"])
	assert.Equal(t, []string{"notes/a", "notes/b"}, vars["linkPaths"])
	assert.Equal(t, "[[notes/a]], [[notes/b]]", vars["links_string"])

	vars = BuildVariables(types.Record{}, nil, nil, nil)
	assert.Equal(t, []string{}, vars["links"])
	assert.Equal(t, "", vars["links_string"])
}

func TestContributorsFromRecord(t *testing.T) {
	rec := types.Record{
		"author": []any{
			map[string]any{"family": "Smith", "given": "John"},
			map[string]any{"literal": "ACME Corp"},
		},
		"editor": []any{
			map[string]any{"lastName": "Jones", "firstName": "Mary"},
		},
	}
	got := ContributorsFromRecord(rec)
	require.Len(t, got, 3)
	assert.Equal(t, types.Contributor{Role: "author", Family: "Smith", Given: "John"}, got[0])
	assert.Equal(t, types.Contributor{Role: "author", Literal: "ACME Corp"}, got[1])
	assert.Equal(t, types.Contributor{Role: "editor", Family: "Jones", Given: "Mary"}, got[2])
}
