// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render implements the note template language: {{variable}}
// substitution with dotted-path lookup, {{var|formatter:arg}} formatting,
// {{#key}}...{{/key}} conditional and iteration blocks, and
// {{^key}}...{{/key}} negative blocks. The grammar is small and closed, so
// constructs are located and replaced independently rather than parsed into
// a tree; nesting a block inside a block of the same key is unsupported.
package render

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Options control the two output modes callers can request.
type Options struct {
	// SanitizeForCitekey strips the rendered output down to the
	// Pandoc-legal citation key character set.
	SanitizeForCitekey bool

	// YAMLArray marks the template as a bracketed-list frontmatter value.
	// It does not change engine output; callers substitute "[]" when the
	// rendered result is empty.
	YAMLArray bool
}

// blockOpenPattern matches {{#key}} and {{^key}} opening tags.
var blockOpenPattern = regexp.MustCompile(`\{\{([#^])\s*([@\w.-]+)\s*\}\}`)

// varPattern matches {{path}} and {{path|formatter...}} substitutions.
var varPattern = regexp.MustCompile(`\{\{\s*([@\w.-]+)\s*(?:\|([^{}]*))?\}\}`)

// Render substitutes variables into a template with default options.
func Render(tmpl string, vars map[string]any) string {
	return RenderOpts(tmpl, vars, Options{})
}

// RenderOpts substitutes variables into a template. It never fails:
// unresolvable references degrade to the empty string.
func RenderOpts(tmpl string, vars map[string]any, opts Options) string {
	out := substituteVars(resolveBlocks(tmpl, vars), vars)
	if opts.SanitizeForCitekey {
		out = SanitizeCitekey(out)
	}
	return out
}

// resolveBlocks expands every {{#key}}/{{^key}} block left to right. The
// closing tag is the first {{/key}} after the opening tag (non-greedy).
// An opening tag with no close is dropped so rendering always terminates.
func resolveBlocks(tmpl string, vars map[string]any) string {
	var b strings.Builder
	for {
		loc := blockOpenPattern.FindStringSubmatchIndex(tmpl)
		if loc == nil {
			b.WriteString(tmpl)
			return b.String()
		}
		b.WriteString(tmpl[:loc[0]])
		op := tmpl[loc[2]:loc[3]]
		key := tmpl[loc[4]:loc[5]]
		rest := tmpl[loc[1]:]

		closeTag := "{{/" + key + "}}"
		ci := strings.Index(rest, closeTag)
		if ci < 0 {
			tmpl = rest
			continue
		}
		inner := rest[:ci]
		tmpl = rest[ci+len(closeTag):]
		b.WriteString(renderBlock(op, key, inner, vars))
	}
}

func renderBlock(op, key, inner string, vars map[string]any) string {
	value := resolvePath(vars, key)

	if op == "^" {
		if isFalsy(value) {
			return substituteVars(resolveBlocks(inner, vars), vars)
		}
		return ""
	}

	if isFalsy(value) {
		return ""
	}

	elems, isList := asSlice(value)
	if !isList {
		// Truthy scalar: render once with the same scope.
		return substituteVars(resolveBlocks(inner, vars), vars)
	}

	var b strings.Builder
	for i, elem := range elems {
		ctx := make(map[string]any, len(vars)+8)
		for k, v := range vars {
			ctx[k] = v
		}
		if m, ok := asStringMap(elem); ok {
			for k, v := range m {
				ctx[k] = v
			}
		}
		ctx["."] = elem
		ctx["@index"] = i
		ctx["@number"] = i + 1
		ctx["@length"] = len(elems)
		ctx["@first"] = i == 0
		ctx["@last"] = i == len(elems)-1
		ctx["@even"] = i%2 == 0
		ctx["@odd"] = i%2 == 1
		b.WriteString(substituteVars(resolveBlocks(inner, ctx), ctx))
	}
	return b.String()
}

// substituteVars replaces every {{path}} / {{path|formatter}} occurrence.
// Only the first piped formatter is applied; further pipes are ignored.
func substituteVars(tmpl string, vars map[string]any) string {
	return varPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		m := varPattern.FindStringSubmatch(match)
		value := resolvePath(vars, m[1])
		if m[2] != "" {
			spec, _, _ := strings.Cut(m[2], "|")
			value = applyFormatter(value, spec)
		}
		return stringify(value)
	})
}

// resolvePath walks a dotted path ("authors.0.family") through nested maps
// and slices. Any failed segment resolves to nil, never an error.
func resolvePath(vars map[string]any, path string) any {
	if path == "." {
		return vars["."]
	}
	var current any = vars
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return nil
		}
		current = lookupSegment(current, seg)
		if current == nil {
			return nil
		}
	}
	return current
}

func lookupSegment(v any, seg string) any {
	switch m := v.(type) {
	case map[string]any:
		return m[seg]
	case map[string]string:
		if s, ok := m[seg]; ok {
			return s
		}
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			mv := rv.MapIndex(reflect.ValueOf(seg))
			if mv.IsValid() {
				return mv.Interface()
			}
		}
		return nil
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil
		}
		return rv.Index(idx).Interface()
	default:
		return nil
	}
}

// isFalsy reports whether a value suppresses a positive block: nil, false,
// the empty string, or an empty list. Zero numbers are truthy.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	}
	if elems, ok := asSlice(v); ok {
		return len(elems) == 0
	}
	return false
}

// asSlice normalizes any slice or array value to []any. Strings are not
// treated as lists.
func asSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if elems, ok := v.([]any); ok {
		return elems, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, true
	}
	return nil, false
}

// stringify converts a resolved value to template output. Lists join with
// commas; maps serialize to JSON so the literal {{.}} token is usable on
// object elements.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	}

	if elems, ok := asSlice(v); ok {
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = stringify(e)
		}
		return strings.Join(parts, ",")
	}
	if _, ok := asStringMap(v); ok {
		data, err := json.Marshal(v)
		if err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(v)
}
