// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litnote/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input    string
		wantType IdentifierType
		wantNorm string
	}{
		{"10.1145/1234567.1234568", TypeDOI, "10.1145/1234567.1234568"},
		{"https://doi.org/10.1000/xyz123", TypeDOI, "10.1000/xyz123"},
		{"http://dx.doi.org/10.1000/xyz123", TypeDOI, "10.1000/xyz123"},
		{"2301.07041", TypeArxiv, "2301.07041"},
		{"arXiv:2301.07041v2", TypeArxiv, "2301.07041v2"},
		{"978-0-306-40615-7", TypeISBN, "9780306406157"},
		{"ISBN 0-306-40615-2", TypeISBN, "0306406152"},
		{"043942089x", TypeISBN, "043942089X"},
		{"https://example.com/paper.pdf", TypeURL, "https://example.com/paper.pdf"},
		{"not an identifier", TypeUnknown, "not an identifier"},
		{"  10.1000/abc  ", TypeDOI, "10.1000/abc"},
	}

	for _, tt := range tests {
		gotType, gotNorm := Classify(tt.input)
		assert.Equal(t, tt.wantType, gotType, "type for %q", tt.input)
		assert.Equal(t, tt.wantNorm, gotNorm, "normalized for %q", tt.input)
	}
}

func TestIdentifierTypeString(t *testing.T) {
	assert.Equal(t, "doi", TypeDOI.String())
	assert.Equal(t, "arxiv", TypeArxiv.String())
	assert.Equal(t, "isbn", TypeISBN.String())
	assert.Equal(t, "url", TypeURL.String())
	assert.Equal(t, "unknown", TypeUnknown.String())
}

func TestFetchDOI(t *testing.T) {
	var gotAccept, gotPath, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", cslJSONAccept)
		w.Write([]byte(`{
			"type": "article-journal",
			"title": "Gradient Descent Revisited",
			"DOI": "10.1000/xyz123",
			"author": [{"family": "Smith", "given": "John"}],
			"issued": {"date-parts": [[2023, 4]]}
		}`))
	}))
	defer ts.Close()

	oldBase := doiBase
	doiBase = ts.URL + "/"
	defer func() { doiBase = oldBase }()

	client := NewClient(ts.Client(), types.LookupConfig{UserAgent: "litnote/1.0"})
	rec, err := client.Fetch(context.Background(), "10.1000/xyz123")
	require.NoError(t, err)

	assert.Equal(t, "/10.1000/xyz123", gotPath)
	assert.Equal(t, cslJSONAccept, gotAccept)
	assert.Equal(t, "litnote/1.0", gotUA)
	assert.Equal(t, "Gradient Descent Revisited", rec.GetString("title"))
	assert.Equal(t, "article-journal", rec.Type())
}

func TestFetchArxivUsesDataCiteDOI(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"type": "article", "title": "Attention"}`))
	}))
	defer ts.Close()

	oldBase := doiBase
	doiBase = ts.URL + "/"
	defer func() { doiBase = oldBase }()

	client := NewClient(ts.Client(), types.LookupConfig{})
	_, err := client.Fetch(context.Background(), "arXiv:2301.07041")
	require.NoError(t, err)
	assert.Equal(t, "/10.48550/arXiv.2301.07041", gotPath)
}

func TestFetchDOINotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	oldBase := doiBase
	doiBase = ts.URL + "/"
	defer func() { doiBase = oldBase }()

	client := NewClient(ts.Client(), types.LookupConfig{})
	_, err := client.Fetch(context.Background(), "10.1000/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFetchISBN(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{
			"title": "The Go Programming Language",
			"publishers": ["Addison-Wesley"],
			"publish_date": "2015-10-26",
			"number_of_pages": 380,
			"by_statement": "Alan A. A. Donovan, Brian W. Kernighan"
		}`))
	}))
	defer ts.Close()

	oldBase := openLibraryBase
	openLibraryBase = ts.URL + "/"
	defer func() { openLibraryBase = oldBase }()

	client := NewClient(ts.Client(), types.LookupConfig{})
	rec, err := client.Fetch(context.Background(), "978-0-13-419044-0")
	require.NoError(t, err)

	assert.Equal(t, "/9780134190440.json", gotPath)
	assert.Equal(t, "book", rec.Type())
	assert.Equal(t, "The Go Programming Language", rec.GetString("title"))
	assert.Equal(t, "Addison-Wesley", rec.GetString("publisher"))
	assert.Equal(t, "9780134190440", rec.GetString("ISBN"))

	issued, ok := rec["issued"].(map[string]any)
	require.True(t, ok)
	parts, ok := issued["date-parts"].([]any)
	require.True(t, ok)
	require.Len(t, parts, 1)
	assert.Equal(t, []any{2015, 10, 26}, parts[0])
}

func TestFetchPlainURLRejected(t *testing.T) {
	client := NewClient(nil, types.LookupConfig{})
	_, err := client.Fetch(context.Background(), "https://example.com/page")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no metadata endpoint")
}

func TestFetchUnknownIdentifier(t *testing.T) {
	client := NewClient(nil, types.LookupConfig{})
	_, err := client.Fetch(context.Background(), "what is this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized identifier")
}
