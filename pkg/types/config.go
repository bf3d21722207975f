// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AuthorAbbreviation selects how the author part of a legacy citekey is
// shortened.
type AuthorAbbreviation string

const (
	AbbrevFull       AuthorAbbreviation = "full"
	AbbrevFirstThree AuthorAbbreviation = "firstThree"
	AbbrevFirstFour  AuthorAbbreviation = "firstFour"
)

// TwoAuthorStyle selects how a second author is appended in legacy citekeys.
type TwoAuthorStyle string

const (
	TwoAuthorAnd     TwoAuthorStyle = "and"
	TwoAuthorInitial TwoAuthorStyle = "initial"
)

// CitekeyConfig holds citekey generation settings.
type CitekeyConfig struct {
	// Template is a citekey template in either mustache syntax
	// ("{{author|lowercase}}{{year}}") or legacy bracket syntax
	// ("[auth:lower][year]"). Empty selects the legacy structured
	// generator.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// UseZoteroKeys passes through the Zotero item key verbatim when one
	// is present, bypassing generation entirely.
	UseZoteroKeys bool `json:"use_zotero_keys" yaml:"use_zotero_keys"`

	// MinLength is the minimum citekey length; shorter keys get a random
	// three-digit suffix appended (default 6).
	MinLength int `json:"min_length" yaml:"min_length"`

	// Abbreviation shortens the author part in legacy mode.
	Abbreviation AuthorAbbreviation `json:"abbreviation" yaml:"abbreviation"`

	// IncludeMultipleAuthors appends markers for additional authors in
	// legacy mode.
	IncludeMultipleAuthors bool `json:"include_multiple_authors" yaml:"include_multiple_authors"`

	// MaxAuthors caps how many additional-author initials are appended
	// (default 3).
	MaxAuthors int `json:"max_authors" yaml:"max_authors"`

	// TwoAuthorStyle selects "And<Name>" or "And<Initial>" for exactly
	// two authors.
	TwoAuthorStyle TwoAuthorStyle `json:"two_author_style" yaml:"two_author_style"`

	// UseEtAl appends "EtAl" when the author count exceeds MaxAuthors.
	UseEtAl bool `json:"use_et_al" yaml:"use_et_al"`

	// AuthorYearDelimiter separates the author and year parts in legacy
	// mode. Non-alphanumeric delimiters are stripped from the final key.
	AuthorYearDelimiter string `json:"author_year_delimiter" yaml:"author_year_delimiter"`

	// ShortKeyDelimiter separates a too-short legacy key from its random
	// suffix.
	ShortKeyDelimiter string `json:"short_key_delimiter" yaml:"short_key_delimiter"`
}

// DefaultCitekeyConfig returns the configuration applied when options are
// missing. Missing settings are never surfaced as errors.
func DefaultCitekeyConfig() CitekeyConfig {
	return CitekeyConfig{
		MinLength:      6,
		Abbreviation:   AbbrevFull,
		MaxAuthors:     3,
		TwoAuthorStyle: TwoAuthorAnd,
	}
}

// NoteConfig holds settings for literature note creation.
type NoteConfig struct {
	// VaultDir is the root directory notes are written into.
	VaultDir string `json:"vault_dir" yaml:"vault_dir"`

	// TemplatePath is the path to the note body template. Empty selects a
	// built-in default.
	TemplatePath string `json:"template_path,omitempty" yaml:"template_path,omitempty"`

	// FilenameTemplate renders the note filename, without extension
	// (default "{{citekey}}").
	FilenameTemplate string `json:"filename_template,omitempty" yaml:"filename_template,omitempty"`

	// Frontmatter lists extra frontmatter fields as name → template pairs,
	// rendered against the same variables as the note body.
	Frontmatter map[string]string `json:"frontmatter,omitempty" yaml:"frontmatter,omitempty"`
}

// LookupConfig holds settings for the citation lookup stage.
type LookupConfig struct {
	// Timeout is the HTTP request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with lookup requests
	// (e.g. "litnote/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retry attempts for rate-limited or
	// failing lookups (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// Config groups all litnote settings.
type Config struct {
	Citekey CitekeyConfig `json:"citekey" yaml:"citekey"`
	Note    NoteConfig    `json:"note" yaml:"note"`
	Lookup  LookupConfig  `json:"lookup" yaml:"lookup"`
}
