// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Record is a bibliographic record keyed by CSL-JSON field names after
// normalization ("title", "type", "DOI", "container-title", "issued", ...).
// Values are scalars, CSLDate maps, contributor lists, or tag lists. A
// normalized record always carries "type" (default "document") and, once a
// citekey has been assigned, "id".
type Record map[string]any

// GetString returns the field as a string, or "" when absent or non-string.
func (r Record) GetString(key string) string {
	if r == nil {
		return ""
	}
	s, _ := r[key].(string)
	return s
}

// Type returns the CSL item type, defaulting to "document".
func (r Record) Type() string {
	if t := r.GetString("type"); t != "" {
		return t
	}
	return "document"
}

// ID returns the assigned citekey, or "".
func (r Record) ID() string {
	return strings.TrimSpace(r.GetString("id"))
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Contributor is a single creator attached to a record. Either Family/Given
// (person) or Literal (institution) is populated, not both. Role is a CSL
// contributor role such as "author", "editor", or "translator".
type Contributor struct {
	Role    string `json:"role" yaml:"role"`
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// IsEmpty reports whether the contributor carries no name at all.
func (c Contributor) IsEmpty() bool {
	return strings.TrimSpace(c.Family) == "" &&
		strings.TrimSpace(c.Given) == "" &&
		strings.TrimSpace(c.Literal) == ""
}

// FullName returns "Given Family" for persons or the literal for
// institutions. Internal whitespace is preserved as entered.
func (c Contributor) FullName() string {
	if c.Literal != "" {
		return c.Literal
	}
	switch {
	case c.Given != "" && c.Family != "":
		return c.Given + " " + c.Family
	case c.Family != "":
		return c.Family
	default:
		return c.Given
	}
}

// CSLName is a person's name in CSL-JSON shape.
type CSLName struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL-JSON shape: either structured date-parts or a
// raw/literal string for dates that could not be parsed.
type CSLDate struct {
	DateParts [][]int `json:"date-parts,omitempty" yaml:"date-parts,omitempty"`
	Raw       string  `json:"raw,omitempty" yaml:"raw,omitempty"`
	Literal   string  `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// AsMap converts the date to the generic map shape stored inside a Record,
// matching what a decoded CSL-JSON document would contain.
func (d CSLDate) AsMap() map[string]any {
	m := map[string]any{}
	if len(d.DateParts) > 0 {
		parts := make([]any, len(d.DateParts))
		for i, p := range d.DateParts {
			inner := make([]any, len(p))
			for j, n := range p {
				inner[j] = n
			}
			parts[i] = inner
		}
		m["date-parts"] = parts
	}
	if d.Raw != "" {
		m["raw"] = d.Raw
	}
	if d.Literal != "" {
		m["literal"] = d.Literal
	}
	return m
}
