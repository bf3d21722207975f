// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"fmt"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litnote/internal/render"
	"github.com/pdiddy/litnote/pkg/types"
)

// DefaultBodyTemplate is the note body used when no template is
// configured.
const DefaultBodyTemplate = `# {{title}}

{{#authorsDisplay}}by {{authorsDisplay}}{{/authorsDisplay}}

{{#abstract}}## Abstract

{{abstract}}{{/abstract}}

## Notes

`

// frontmatterFields are the record fields carried into the base
// frontmatter, in output-independent order (the YAML encoder sorts keys).
var frontmatterFields = []string{
	"title", "type", "container-title", "publisher", "volume", "issue",
	"page", "DOI", "ISBN", "ISSN", "URL", "keyword", "abstract", "language",
}

// filenameIllegal strips characters that cannot appear in note filenames.
var filenameIllegal = regexp.MustCompile(`[\\/:*?"<>|]`)

// arrayTemplate detects frontmatter value templates that are bracketed
// lists ("[{{quoted_attachments}}]").
var arrayTemplate = regexp.MustCompile(`^\[.*\]$`)

// Note is a fully rendered literature note ready to persist.
type Note struct {
	Citekey  string
	Filename string // without extension
	Content  string // frontmatter + body
}

// Build renders a note from a normalized record. The record must already
// carry an id; vars are produced with BuildVariables and shared between
// the body and every custom frontmatter field.
func Build(rec types.Record, bodyTemplate string, cfg types.NoteConfig, attachmentPaths, relatedNotePaths []string) (*Note, error) {
	if rec == nil {
		return nil, fmt.Errorf("nil record")
	}
	contributors := ContributorsFromRecord(rec)
	vars := BuildVariables(rec, contributors, attachmentPaths, relatedNotePaths)

	if bodyTemplate == "" {
		bodyTemplate = DefaultBodyTemplate
	}
	body := render.Render(bodyTemplate, vars)

	fm := baseFrontmatter(rec, vars)
	for name, tmpl := range cfg.Frontmatter {
		fm[name] = renderFrontmatterValue(tmpl, vars)
	}

	data, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	filenameTmpl := cfg.FilenameTemplate
	if filenameTmpl == "" {
		filenameTmpl = "{{citekey}}"
	}
	filename := strings.TrimSpace(filenameIllegal.ReplaceAllString(render.Render(filenameTmpl, vars), ""))
	if filename == "" {
		filename = rec.ID()
	}
	if filename == "" {
		return nil, fmt.Errorf("empty note filename for record %q", rec.GetString("title"))
	}

	return &Note{
		Citekey:  rec.ID(),
		Filename: filename,
		Content:  "---\n" + string(data) + "---\n\n" + body,
	}, nil
}

func baseFrontmatter(rec types.Record, vars map[string]any) map[string]any {
	fm := map[string]any{
		"citekey": rec.ID(),
	}
	for _, field := range frontmatterFields {
		if v, ok := rec[field]; ok && v != nil {
			fm[field] = v
		}
	}
	if authors, ok := vars["authors"].([]string); ok && len(authors) > 0 {
		fm["authors"] = authors
	}
	if year, ok := vars["year"]; ok {
		fm["year"] = year
	}
	return fm
}

// renderFrontmatterValue renders one custom frontmatter template. Array
// templates decode into a real YAML list; empty results become [] rather
// than an omitted field.
func renderFrontmatterValue(tmpl string, vars map[string]any) any {
	isArray := arrayTemplate.MatchString(strings.TrimSpace(tmpl))
	rendered := render.RenderOpts(tmpl, vars, render.Options{YAMLArray: isArray})
	if !isArray {
		return rendered
	}

	var list []any
	if err := yaml.Unmarshal([]byte(rendered), &list); err != nil || list == nil {
		return []any{}
	}
	return list
}
