// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"math/rand"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/litnote/internal/dates"
)

// randAlnum produces the random token for the rand:N formatter. A package
// var so tests can substitute a deterministic source.
var randAlnum = func(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

const defaultTruncate = 30

var (
	truncateNPattern = regexp.MustCompile(`^truncate(\d+)$`)
	abbrNPattern     = regexp.MustCompile(`^abbr(\d+)$`)
	htmlTagPattern   = regexp.MustCompile(`<[^>]*>`)
)

// titleStopWords are skipped when picking significant title words.
var titleStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "nor": true,
	"but": true, "is": true, "are": true, "was": true, "were": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"from": true, "by": true, "with": true, "as": true, "into": true,
	"onto": true, "via": true, "its": true, "it": true, "their": true,
}

// applyFormatter applies a single formatter spec ("name" or "name:arg") to
// a resolved value. Unknown formatters leave the value unchanged. The arg
// portion is taken verbatim except where a formatter documents otherwise.
func applyFormatter(v any, spec string) any {
	name, arg, hasArg := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)

	switch name {
	case "lowercase":
		return strings.ToLower(stringify(v))
	case "uppercase":
		return strings.ToUpper(stringify(v))
	case "capitalize", "title":
		return capitalizeWords(stringify(v))
	case "sentence":
		return sentenceCase(stringify(v))
	case "trim":
		return strings.TrimSpace(stringify(v))
	case "truncate":
		n := defaultTruncate
		if i, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
			n = i
		}
		return truncateRunes(stringify(v), n)
	case "ellipsis":
		n := defaultTruncate
		if i, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
			n = i
		}
		s := stringify(v)
		if len([]rune(s)) > n {
			return truncateRunes(s, n) + "..."
		}
		return s
	case "titleword":
		return SignificantWords(stringify(v), 1)
	case "shorttitle":
		return SignificantWords(stringify(v), 3)
	case "urlencode":
		return url.QueryEscape(stringify(v))
	case "urldecode":
		if s, err := url.QueryUnescape(stringify(v)); err == nil {
			return s
		}
		return stringify(v)
	case "replace":
		old, new, ok := strings.Cut(arg, ":")
		if !ok || old == "" {
			return v
		}
		return strings.ReplaceAll(stringify(v), old, new)
	case "slice":
		return sliceString(stringify(v), arg)
	case "pad":
		return padString(stringify(v), arg)
	case "number":
		return formatNumber(v, arg, hasArg)
	case "json":
		data, err := json.Marshal(v)
		if err != nil {
			return stringify(v)
		}
		return string(data)
	case "split":
		delim := arg
		// A single leading space is a separator token, not part of the
		// delimiter; further whitespace is meaningful.
		delim = strings.TrimPrefix(delim, " ")
		if delim == "" {
			delim = ","
		}
		return strings.Split(stringify(v), delim)
	case "join":
		delim := arg
		if !hasArg {
			delim = ","
		}
		elems, ok := asSlice(v)
		if !ok {
			return v
		}
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = stringify(e)
		}
		return strings.Join(parts, delim)
	case "count":
		if elems, ok := asSlice(v); ok {
			return len(elems)
		}
		if stringify(v) == "" {
			return 0
		}
		return 1
	case "prefix":
		if s := stringify(v); s != "" {
			return arg + s
		}
		return ""
	case "suffix":
		if s := stringify(v); s != "" {
			return s + arg
		}
		return ""
	case "date":
		return formatDate(v, strings.TrimSpace(arg))
	case "rand":
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || n <= 0 {
			n = 5
		}
		return randAlnum(n)
	}

	if m := truncateNPattern.FindStringSubmatch(name); m != nil {
		n, _ := strconv.Atoi(m[1])
		return truncateRunes(stringify(v), n)
	}
	if m := abbrNPattern.FindStringSubmatch(name); m != nil {
		n, _ := strconv.Atoi(m[1])
		return truncateRunes(stringify(v), n)
	}
	return v
}

func capitalizeWords(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	return strings.Join(words, " ")
}

func sentenceCase(s string) string {
	if s == "" {
		return s
	}
	return upperFirst(strings.ToLower(s))
}

func upperFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func truncateRunes(s string, n int) string {
	if n < 0 {
		n = 0
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// SignificantWords returns the first n significant words of a title,
// lowercased and concatenated: HTML tags stripped, per-word punctuation
// trimmed, stop words skipped. When every word is a stop word the first
// raw word is used instead.
func SignificantWords(s string, n int) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var picked []string
	for _, w := range words {
		w = strings.TrimFunc(w, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if w == "" || titleStopWords[strings.ToLower(w)] {
			continue
		}
		picked = append(picked, strings.ToLower(w))
		if len(picked) == n {
			break
		}
	}
	if len(picked) == 0 {
		fallback := strings.TrimFunc(words[0], func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if fallback == "" {
			fallback = words[0]
		}
		return strings.ToLower(fallback)
	}
	return strings.Join(picked, "")
}

// sliceString implements slice:start[:end] with negative offsets counted
// from the end of the string.
func sliceString(s, arg string) string {
	r := []rune(s)
	startStr, endStr, hasEnd := strings.Cut(arg, ":")
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return s
	}
	end := len(r)
	if hasEnd {
		if e, err := strconv.Atoi(strings.TrimSpace(endStr)); err == nil {
			end = e
		}
	}
	start = clampIndex(start, len(r))
	end = clampIndex(end, len(r))
	if start >= end {
		return ""
	}
	return string(r[start:end])
}

func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

// padString implements pad:width:char, left-padding to width with the pad
// character (default space).
func padString(s, arg string) string {
	widthStr, padChar, _ := strings.Cut(arg, ":")
	width, err := strconv.Atoi(strings.TrimSpace(widthStr))
	if err != nil || width <= 0 {
		return s
	}
	if padChar == "" {
		padChar = " "
	}
	r := []rune(s)
	for len(r) < width {
		r = append([]rune(padChar)[:1], r...)
	}
	return string(r)
}

func formatNumber(v any, arg string, hasArg bool) any {
	s := strings.TrimSpace(stringify(v))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Non-numeric input passes through unchanged.
		return v
	}
	if hasArg {
		if prec, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil && prec >= 0 {
			return strconv.FormatFloat(f, 'f', prec, 64)
		}
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatDate(v any, format string) string {
	p := dates.Parse(v)
	if p == nil {
		return ""
	}
	switch format {
	case "year":
		if p.Year != 0 {
			return strconv.Itoa(p.Year)
		}
		return ""
	default: // "iso" and anything unrecognized
		return dates.ToFormString(p)
	}
}
