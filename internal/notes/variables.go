// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notes assembles literature notes: it flattens a bibliographic
// record and its contributors into template variables, renders the note
// body and custom frontmatter fields, and composes the final Markdown
// document.
package notes

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/litnote/internal/dates"
	"github.com/pdiddy/litnote/pkg/types"
)

// now is the clock behind currentDate/currentTime. Tests substitute it.
var now = time.Now

// contributorRoles are the record fields scanned for contributor lists.
var contributorRoles = []string{
	"author", "editor", "translator", "contributor", "director",
	"interviewer", "recipient", "composer", "container-author",
	"collection-editor", "reviewed-author",
}

// BuildVariables flattens a record plus contributors, attachment paths and
// related-note paths into the dictionary both the note template and custom
// frontmatter templates render against. Pure projection, no I/O.
func BuildVariables(rec types.Record, contributors []types.Contributor, attachmentPaths, relatedNotePaths []string) map[string]any {
	vars := make(map[string]any, len(rec)+24)
	for k, v := range rec {
		vars[k] = v
	}

	vars["citekey"] = rec.ID()

	// Convenience projections of the issued date.
	if year, month, day := dates.ExtractFields(rec); year != "" {
		vars["year"] = year
		if month != "" {
			vars["month"] = month
		}
		if day != "" {
			vars["day"] = day
		}
	}

	t := now()
	vars["currentDate"] = t.Format("2006-01-02")
	vars["currentTime"] = t.Format("15:04:05")

	addContributorVariables(vars, contributors)
	addAttachmentVariables(vars, attachmentPaths)
	addRelatedVariables(vars, relatedNotePaths)
	return vars
}

// addContributorVariables emits authorsDisplay plus, for every role
// present, {role}s (display strings), {role}s_raw, {role}s_family and
// {role}s_given.
//
// The {role}s display strings preserve internal whitespace exactly as
// entered, while authorsDisplay trims. The asymmetry is long-standing and
// templates in the wild depend on it.
func addContributorVariables(vars map[string]any, contributors []types.Contributor) {
	byRole := make(map[string][]types.Contributor)
	for _, c := range contributors {
		if c.IsEmpty() {
			continue
		}
		role := c.Role
		if role == "" {
			role = "author"
		}
		byRole[role] = append(byRole[role], c)
	}

	vars["authorsDisplay"] = formatAuthorsDisplay(byRole["author"])

	for role, list := range byRole {
		var full []string
		var families []string
		var givens []string
		raw := make([]any, 0, len(list))
		for _, c := range list {
			if name := c.FullName(); strings.TrimSpace(name) != "" {
				full = append(full, name)
			}
			if strings.TrimSpace(c.Family) != "" {
				families = append(families, c.Family)
			}
			if strings.TrimSpace(c.Given) != "" {
				givens = append(givens, c.Given)
			}
			raw = append(raw, contributorMap(c))
		}
		vars[role+"s"] = full
		vars[role+"s_raw"] = raw
		vars[role+"s_family"] = families
		vars[role+"s_given"] = givens
	}

	// Keep the author list variables present even with no contributors so
	// negative blocks behave predictably.
	if _, ok := vars["authors"]; !ok {
		vars["authors"] = []string{}
		vars["authors_raw"] = []any{}
		vars["authors_family"] = []string{}
		vars["authors_given"] = []string{}
	}
}

// formatAuthorsDisplay renders the author-role subset for display:
// "F. Last", "F1. Last1 and F2. Last2", or "F1. Last1 et al.".
// Institutional contributors use their literal verbatim.
func formatAuthorsDisplay(authors []types.Contributor) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return displayName(authors[0])
	case 2:
		return displayName(authors[0]) + " and " + displayName(authors[1])
	default:
		return displayName(authors[0]) + " et al."
	}
}

func displayName(c types.Contributor) string {
	if lit := strings.TrimSpace(c.Literal); lit != "" {
		return lit
	}
	family := strings.TrimSpace(c.Family)
	given := strings.TrimSpace(c.Given)
	switch {
	case family != "" && given != "":
		return string([]rune(given)[:1]) + ". " + family
	case family != "":
		return family
	default:
		return given
	}
}

func contributorMap(c types.Contributor) map[string]any {
	m := map[string]any{"role": c.Role}
	if c.Family != "" {
		m["family"] = c.Family
	}
	if c.Given != "" {
		m["given"] = c.Given
	}
	if c.Literal != "" {
		m["literal"] = c.Literal
	}
	return m
}

// addAttachmentVariables emits the attachment variables. They are always
// present, empty slices and strings included, so frontmatter templates can
// rely on them.
func addAttachmentVariables(vars map[string]any, paths []string) {
	links := make([]string, 0, len(paths))
	quoted := make([]string, 0, len(paths))
	raw := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		link := fmt.Sprintf("[[%s|%s]]", p, attachmentLabel(p))
		raw = append(raw, p)
		links = append(links, link)
		quoted = append(quoted, `"`+link+`"`)
	}

	vars["pdflink"] = raw
	vars["attachments"] = links
	vars["quoted_attachments"] = quoted
	vars["attachment"] = firstOrEmpty(links)
	vars["raw_pdflink"] = firstOrEmpty(raw)
	vars["quoted_attachment"] = firstOrEmpty(quoted)
}

// attachmentLabel derives a type label from the file extension: .pdf →
// PDF, .epub → EPUB, anything else the uppercased extension.
func attachmentLabel(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "FILE"
	}
	return strings.ToUpper(ext)
}

// addRelatedVariables emits the related-note variables, always present.
func addRelatedVariables(vars map[string]any, paths []string) {
	links := make([]string, 0, len(paths))
	raw := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		raw = append(raw, p)
		links = append(links, "[["+p+"]]")
	}
	vars["links"] = links
	vars["linkPaths"] = raw
	vars["links_string"] = strings.Join(links, ", ")
}

func firstOrEmpty(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

// ContributorsFromRecord converts the record's contributor-role fields
// into a flat Contributor list, in role order.
func ContributorsFromRecord(rec types.Record) []types.Contributor {
	var out []types.Contributor
	for _, role := range contributorRoles {
		list, ok := rec[role].([]any)
		if !ok {
			continue
		}
		for _, entry := range list {
			m, ok := entry.(map[string]any)
			if !ok {
				if s, ok := entry.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, types.Contributor{Role: role, Literal: s})
				}
				continue
			}
			c := types.Contributor{
				Role:    role,
				Family:  stringValue(m, "family"),
				Given:   stringValue(m, "given"),
				Literal: stringValue(m, "literal"),
			}
			if c.Family == "" && c.Literal == "" {
				c.Family = stringValue(m, "lastName")
				if c.Given == "" {
					c.Given = stringValue(m, "firstName")
				}
			}
			if !c.IsEmpty() {
				out = append(out, c)
			}
		}
	}
	return out
}

func stringValue(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
