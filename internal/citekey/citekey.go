// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citekey generates Pandoc-compatible citation keys from
// bibliographic records. Three strategies apply in order: verbatim Zotero
// key pass-through, a user template rendered through the template engine,
// and a legacy structured author-year generator.
package citekey

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/pdiddy/litnote/internal/dates"
	"github.com/pdiddy/litnote/internal/render"
	"github.com/pdiddy/litnote/pkg/types"
)

// Sentinel keys returned instead of propagating errors. Note creation must
// never fail on a malformed record.
const (
	errNoData     = "error_no_data"
	errGenerating = "error_generating_citekey"
)

// randDigits produces the zero-padded random suffix appended to keys that
// fall short of the minimum length. Tests substitute it.
var randDigits = func() string {
	return fmt.Sprintf("%03d", rand.Intn(1000))
}

var (
	fourDigitYear  = regexp.MustCompile(`\d{4}`)
	nonAlnum       = regexp.MustCompile(`[^a-zA-Z0-9]`)
	literalSplit   = regexp.MustCompile(`[\s,\-.:;()/&]+`)
	bracketField   = regexp.MustCompile(`\[([^\[\]]+)\]`)
	abbrevModifier = regexp.MustCompile(`^abbr\((\d+)\)$`)
	wordsModifier  = regexp.MustCompile(`^words\((\d+)\)$`)
)

// Generate produces a citekey for the record. It never returns an error:
// a nil record yields "error_no_data", an empty render yields
// "error_generating_citekey", and any internal panic degrades to a minimal
// author-year fallback.
func Generate(rec types.Record, cfg types.CitekeyConfig) (key string) {
	if rec == nil {
		return errNoData
	}
	cfg = withDefaults(cfg)

	defer func() {
		if r := recover(); r != nil {
			key = nonAlnum.ReplaceAllString(AuthorPart(rec)+ExtractYear(rec), "")
		}
	}()

	if cfg.UseZoteroKeys {
		for _, field := range []string{"key", "id"} {
			if v := strings.TrimSpace(rec.GetString(field)); v != "" {
				return v
			}
		}
	}

	if tmpl := strings.TrimSpace(cfg.Template); tmpl != "" {
		return fromTemplate(rec, tmpl, cfg)
	}
	return fromLegacyOptions(rec, cfg)
}

func withDefaults(cfg types.CitekeyConfig) types.CitekeyConfig {
	def := types.DefaultCitekeyConfig()
	if cfg.MinLength <= 0 {
		cfg.MinLength = def.MinLength
	}
	if cfg.MaxAuthors <= 0 {
		cfg.MaxAuthors = def.MaxAuthors
	}
	if cfg.Abbreviation == "" {
		cfg.Abbreviation = def.Abbreviation
	}
	if cfg.TwoAuthorStyle == "" {
		cfg.TwoAuthorStyle = def.TwoAuthorStyle
	}
	return cfg
}

func fromTemplate(rec types.Record, tmpl string, cfg types.CitekeyConfig) string {
	converted := ConvertLegacyTemplate(tmpl)

	vars := make(map[string]any, len(rec)+5)
	for k, v := range rec {
		vars[k] = v
	}
	vars["author"] = AuthorPart(rec)
	vars["year"] = ExtractYear(rec)
	vars["title"] = rec.GetString("title")
	vars["shorttitle"] = render.SignificantWords(rec.GetString("title"), 3)
	vars["authors"] = contributorList(rec)

	key := render.RenderOpts(converted, vars, render.Options{SanitizeForCitekey: true})
	if key == "" {
		return errGenerating
	}
	if len(key) < cfg.MinLength {
		key += randDigits()
	}
	return key
}

// ConvertLegacyTemplate rewrites bracket-syntax citekey templates
// ("[auth:lower][year]") into the mustache syntax the template engine
// consumes ("{{author|lowercase}}{{year}}"). Unrecognized fields and
// modifiers pass through unchanged.
func ConvertLegacyTemplate(tmpl string) string {
	return bracketField.ReplaceAllStringFunc(tmpl, func(match string) string {
		parts := strings.Split(match[1:len(match)-1], ":")
		field := parts[0]
		if field == "auth" {
			field = "author"
		}

		var mods []string
		for _, mod := range parts[1:] {
			switch mod {
			case "lower":
				mods = append(mods, "lowercase")
			case "upper":
				mods = append(mods, "uppercase")
			default:
				if m := abbrevModifier.FindStringSubmatch(mod); m != nil {
					mods = append(mods, "abbr"+m[1])
					continue
				}
				if m := wordsModifier.FindStringSubmatch(mod); m != nil {
					if field == "title" && m[1] == "1" {
						mods = append(mods, "titleword")
					} else if field == "shorttitle" {
						// shorttitle already takes three words.
					} else {
						mods = append(mods, "shorttitle")
					}
					continue
				}
				mods = append(mods, mod)
			}
		}

		if len(mods) == 0 {
			return "{{" + field + "}}"
		}
		return "{{" + field + "|" + strings.Join(mods, "|") + "}}"
	})
}

func fromLegacyOptions(rec types.Record, cfg types.CitekeyConfig) string {
	author := upperFirst(AuthorPart(rec))
	switch cfg.Abbreviation {
	case types.AbbrevFirstThree:
		author = firstRunes(author, 3)
	case types.AbbrevFirstFour:
		author = firstRunes(author, 4)
	}

	authors := contributorList(rec)
	if cfg.IncludeMultipleAuthors && len(authors) > 1 {
		switch {
		case len(authors) == 2:
			second := lastNameOf(authors[1])
			if cfg.TwoAuthorStyle == types.TwoAuthorInitial {
				author += "And" + strings.ToUpper(firstRunes(second, 1))
			} else {
				author += "And" + upperFirst(strings.ToLower(second))
			}
		case cfg.UseEtAl && len(authors) > cfg.MaxAuthors:
			author += "EtAl"
		default:
			limit := cfg.MaxAuthors
			if limit > len(authors) {
				limit = len(authors)
			}
			for _, a := range authors[1:limit] {
				author += strings.ToUpper(firstRunes(lastNameOf(a), 1))
			}
		}
	}

	key := author + cfg.AuthorYearDelimiter + ExtractYear(rec)
	if len(key) < cfg.MinLength {
		key += cfg.ShortKeyDelimiter + randDigits()
	}
	// Legacy keys are strictly alphanumeric, delimiters included.
	return nonAlnum.ReplaceAllString(key, "")
}

// AuthorPart returns the lowercase last name of the record's first author
// or creator. When no author is resolvable it returns the literal
// "unknown" rather than falling back to title text; title-derived authors
// proved too confusing in practice.
func AuthorPart(rec types.Record) string {
	for _, a := range contributorList(rec) {
		if name := lastNameOf(a); name != "" {
			return strings.ToLower(name)
		}
	}
	return "unknown"
}

// contributorList returns the record's author-like list, whichever field
// shape the record arrived in.
func contributorList(rec types.Record) []any {
	for _, field := range []string{"author", "creators", "authors"} {
		switch v := rec[field].(type) {
		case []any:
			if len(v) > 0 {
				return v
			}
		case []map[string]any:
			out := make([]any, len(v))
			for i, m := range v {
				out[i] = m
			}
			if len(out) > 0 {
				return out
			}
		case []string:
			out := make([]any, len(v))
			for i, s := range v {
				out[i] = s
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// lastNameOf extracts a last name from any of the contributor shapes that
// occur in the wild: CSL {family, given}, Zotero {lastName, firstName},
// institutional {literal}/{name}, and bare strings.
func lastNameOf(entry any) string {
	switch v := entry.(type) {
	case map[string]any:
		if s, ok := v["family"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		if s, ok := v["lastName"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		for _, k := range []string{"literal", "name"} {
			if s, ok := v[k].(string); ok && strings.TrimSpace(s) != "" {
				return firstToken(s)
			}
		}
		return ""
	case types.Contributor:
		if v.Family != "" {
			return strings.TrimSpace(v.Family)
		}
		if v.Literal != "" {
			return firstToken(v.Literal)
		}
		return ""
	case types.CSLName:
		if v.Family != "" {
			return strings.TrimSpace(v.Family)
		}
		if v.Literal != "" {
			return firstToken(v.Literal)
		}
		return ""
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return ""
		}
		// "Last, First" keeps the part before the comma; otherwise the
		// first token stands in.
		if before, _, ok := strings.Cut(s, ","); ok {
			return strings.TrimSpace(before)
		}
		return firstToken(s)
	default:
		return ""
	}
}

func firstToken(s string) string {
	tokens := literalSplit.Split(strings.TrimSpace(s), -1)
	for _, tok := range tokens {
		if tok != "" {
			return tok
		}
	}
	return ""
}

// ExtractYear pulls a four-digit year out of the record, trying the issued
// date-parts, the year field, the issued literal, the date field, and
// finally issued as a bare string. Returns "" when nothing matches.
func ExtractYear(rec types.Record) string {
	if issued, ok := rec["issued"]; ok {
		if p := dates.Parse(issued); p != nil && p.Year >= 1000 && p.Year <= 9999 {
			return fmt.Sprintf("%d", p.Year)
		}
		if m, ok := issued.(map[string]any); ok {
			if lit, ok := m["literal"].(string); ok {
				if y := fourDigitYear.FindString(lit); y != "" {
					return y
				}
			}
		}
	}
	for _, field := range []string{"year", "date"} {
		if v, ok := rec[field]; ok && v != nil {
			if y := fourDigitYear.FindString(fmt.Sprint(v)); y != "" {
				return y
			}
		}
	}
	if s, ok := rec["issued"].(string); ok {
		if y := fourDigitYear.FindString(s); y != "" {
			return y
		}
	}
	return ""
}

func upperFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
