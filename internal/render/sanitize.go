// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "regexp"

// Pandoc citation keys may contain alphanumerics, _ and the punctuation set
// :.#$%&-+?<>~/ but must start with a letter, digit or _ and must not end
// in punctuation.
var (
	citekeyIllegal  = regexp.MustCompile(`[^a-zA-Z0-9_:.#$%&\-+?<>~/]`)
	citekeyBadStart = regexp.MustCompile(`^[^a-zA-Z0-9_]`)
	citekeyBadTail  = regexp.MustCompile(`[:.#$%&\-+?<>~/]+$`)
)

// SanitizeCitekey reduces rendered output to a legal Pandoc citation key:
// illegal characters are stripped, a leading punctuation character gains a
// "_" prefix, and trailing punctuation is removed.
func SanitizeCitekey(s string) string {
	s = citekeyIllegal.ReplaceAllString(s, "")
	if s == "" {
		return s
	}
	if citekeyBadStart.MatchString(s) {
		s = "_" + s
	}
	return citekeyBadTail.ReplaceAllString(s, "")
}
