// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup resolves bibliographic identifiers (DOIs, arXiv IDs,
// ISBNs) to CSL-JSON records using public metadata endpoints.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/litnote/internal/dates"
	"github.com/pdiddy/litnote/internal/httputil"
	"github.com/pdiddy/litnote/pkg/types"
)

// IdentifierType classifies an input identifier.
type IdentifierType int

const (
	TypeUnknown IdentifierType = iota
	TypeDOI
	TypeArxiv
	TypeISBN
	TypeURL
)

func (t IdentifierType) String() string {
	switch t {
	case TypeDOI:
		return "doi"
	case TypeArxiv:
		return "arxiv"
	case TypeISBN:
		return "isbn"
	case TypeURL:
		return "url"
	default:
		return "unknown"
	}
}

// Base URLs for metadata resolution. Declared as vars so tests can
// substitute httptest servers.
var (
	doiBase         = "https://doi.org/"
	openLibraryBase = "https://openlibrary.org/isbn/"
)

const cslJSONAccept = "application/vnd.citationstyles.csl+json"

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// isbnPattern matches bare ISBN-10 and ISBN-13 forms, hyphens allowed.
var isbnPattern = regexp.MustCompile(`^(?:ISBN[-: ]?)?((?:\d[- ]?){9}[\dXx]|(?:\d[- ]?){12}\d)$`)

// Classify determines the identifier type and returns the normalized
// form. DOI URLs ("https://doi.org/10.x/y") normalize to the bare DOI;
// arXiv IDs lose the "arXiv:" prefix; ISBNs lose separators.
func Classify(identifier string) (IdentifierType, string) {
	identifier = strings.TrimSpace(identifier)

	if doiPattern.MatchString(identifier) {
		return TypeDOI, identifier
	}

	if m := arxivPattern.FindStringSubmatch(identifier); m != nil {
		return TypeArxiv, m[1]
	}

	if m := isbnPattern.FindStringSubmatch(identifier); m != nil {
		isbn := strings.NewReplacer("-", "", " ", "").Replace(m[1])
		return TypeISBN, strings.ToUpper(isbn)
	}

	if u, err := url.Parse(identifier); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if u.Host == "doi.org" || u.Host == "dx.doi.org" {
			doi := strings.TrimPrefix(u.Path, "/")
			if doiPattern.MatchString(doi) {
				return TypeDOI, doi
			}
		}
		return TypeURL, identifier
	}

	return TypeUnknown, identifier
}

// Client fetches CSL-JSON metadata for classified identifiers.
type Client struct {
	httpClient *http.Client
	cfg        types.LookupConfig
}

// NewClient returns a metadata client. A nil httpClient uses
// http.DefaultClient.
func NewClient(httpClient *http.Client, cfg types.LookupConfig) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

// Fetch resolves an identifier to a CSL-JSON record. arXiv IDs resolve
// through their DataCite DOIs. Plain URLs have no metadata endpoint and
// return an error.
func (c *Client) Fetch(ctx context.Context, identifier string) (types.Record, error) {
	idType, normalized := Classify(identifier)
	switch idType {
	case TypeDOI:
		return c.fetchDOI(ctx, normalized)
	case TypeArxiv:
		return c.fetchDOI(ctx, "10.48550/arXiv."+normalized)
	case TypeISBN:
		return c.fetchISBN(ctx, normalized)
	case TypeURL:
		return nil, fmt.Errorf("no metadata endpoint for plain URL %q", normalized)
	default:
		return nil, fmt.Errorf("unrecognized identifier %q", identifier)
	}
}

// fetchDOI resolves a DOI via doi.org content negotiation.
func (c *Client) fetchDOI(ctx context.Context, doi string) (types.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, doiBase+doi, nil)
	if err != nil {
		return nil, fmt.Errorf("creating DOI request: %w", err)
	}
	req.Header.Set("Accept", cslJSONAccept)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("DOI request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("DOI %s not found", doi)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("DOI resolver returned HTTP %d", resp.StatusCode)
	}

	var rec types.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("parsing CSL-JSON response: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("empty CSL-JSON response for DOI %s", doi)
	}
	return rec, nil
}

// openLibraryBook captures the fields we need from an Open Library
// edition record.
type openLibraryBook struct {
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	Publishers    []string `json:"publishers"`
	PublishDate   string   `json:"publish_date"`
	NumberOfPages int      `json:"number_of_pages"`
	ByStatement   string   `json:"by_statement"`
}

// fetchISBN resolves an ISBN via the Open Library editions endpoint and
// converts the record to CSL.
func (c *Client) fetchISBN(ctx context.Context, isbn string) (types.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openLibraryBase+isbn+".json", nil)
	if err != nil {
		return nil, fmt.Errorf("creating ISBN request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("ISBN request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("ISBN %s not found", isbn)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("Open Library returned HTTP %d", resp.StatusCode)
	}

	var book openLibraryBook
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return nil, fmt.Errorf("parsing Open Library response: %w", err)
	}

	title := book.Title
	if book.Subtitle != "" {
		title += ": " + book.Subtitle
	}
	rec := types.Record{
		"type":  "book",
		"title": title,
		"ISBN":  isbn,
	}
	if len(book.Publishers) > 0 {
		rec["publisher"] = book.Publishers[0]
	}
	if book.NumberOfPages > 0 {
		rec["number-of-pages"] = book.NumberOfPages
	}
	if book.ByStatement != "" {
		rec["byline"] = book.ByStatement
	}
	if parsed := dates.Parse(book.PublishDate); parsed != nil && parsed.Year != 0 {
		rec["issued"] = dates.ToCSLDate(parsed).AsMap()
	}
	return rec, nil
}
