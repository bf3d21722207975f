// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dates normalizes the date shapes found in bibliographic records:
// plain strings, CSL date objects with date-parts, and the CURRENT sentinel.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/litnote/pkg/types"
)

// now is the clock source. Tests substitute it to pin CURRENT-sentinel
// results.
var now = time.Now

// ParsedDate is the single internal date shape. Either DateParts/Year are
// populated (structured calendar date) or Raw holds the original string
// verbatim. IsCurrent marks the "evaluate to today" sentinel.
type ParsedDate struct {
	DateParts []int
	Year      int
	Month     int // 1-12, 0 when absent
	Day       int // 1-31, 0 when absent
	Raw       string
	IsCurrent bool
}

// datePattern matches YEAR[-or-/MONTH[-or-/DAY]] with a 4-digit year and
// 1-2 digit month/day. Separators may be - or / and need not match each
// other within one date.
var datePattern = regexp.MustCompile(`^(\d{4})(?:[-/](\d{1,2})(?:[-/](\d{1,2}))?)?$`)

// currentSentinels are the case-insensitive strings that mean "today".
// CURREN covers a long-standing truncation in stored settings.
var currentSentinels = map[string]bool{
	"current":      true,
	"curren":       true,
	"current_date": true,
}

// Parse normalizes a date value of unknown shape. It returns nil for
// nil/empty input and a Raw-only ParsedDate for strings it cannot parse.
func Parse(input any) *ParsedDate {
	switch v := input.(type) {
	case nil:
		return nil
	case string:
		return parseString(v)
	case *ParsedDate:
		return v
	case types.CSLDate:
		return parseCSLMap(v.AsMap())
	case *types.CSLDate:
		if v == nil {
			return nil
		}
		return parseCSLMap(v.AsMap())
	case map[string]any:
		if _, ok := v["date-parts"]; ok {
			return parseCSLMap(v)
		}
		if raw, ok := v["raw"].(string); ok {
			return parseString(raw)
		}
		return parseString(fmt.Sprint(v))
	default:
		return parseString(fmt.Sprint(input))
	}
}

func parseString(s string) *ParsedDate {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if currentSentinels[strings.ToLower(s)] {
		return Today()
	}

	// Strip a trailing time component ("2024-03-15T10:30:00").
	candidate := s
	if idx := strings.Index(candidate, "T"); idx > 0 {
		candidate = candidate[:idx]
	}

	m := datePattern.FindStringSubmatch(candidate)
	if m == nil {
		return &ParsedDate{Raw: s}
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return &ParsedDate{Raw: s}
	}

	p := &ParsedDate{Year: year, DateParts: []int{year}}
	if month, err := strconv.Atoi(m[2]); err == nil && month >= 1 && month <= 12 {
		p.Month = month
		p.DateParts = append(p.DateParts, month)
		// Day is accepted only once the month has been accepted.
		if day, err := strconv.Atoi(m[3]); err == nil && day >= 1 && day <= 31 {
			p.Day = day
			p.DateParts = append(p.DateParts, day)
		}
	}
	return p
}

// parseCSLMap handles a CSL date object: {"date-parts": [[y, m?, d?]], ...}.
func parseCSLMap(obj map[string]any) *ParsedDate {
	first := firstDateParts(obj["date-parts"])
	if len(first) == 0 {
		return rawFallback(obj)
	}

	year, ok := coerceInt(first[0])
	if !ok {
		return rawFallback(obj)
	}

	p := &ParsedDate{Year: year, DateParts: []int{year}}
	if len(first) > 1 {
		if month, ok := coerceInt(first[1]); ok && month >= 1 && month <= 12 {
			p.Month = month
			p.DateParts = append(p.DateParts, month)
			if len(first) > 2 {
				if day, ok := coerceInt(first[2]); ok && day >= 1 && day <= 31 {
					p.Day = day
					p.DateParts = append(p.DateParts, day)
				}
			}
		}
	}
	return p
}

func rawFallback(obj map[string]any) *ParsedDate {
	if raw, ok := obj["raw"].(string); ok && raw != "" {
		return &ParsedDate{Raw: raw}
	}
	if lit, ok := obj["literal"].(string); ok && lit != "" {
		return &ParsedDate{Raw: lit}
	}
	return nil
}

// firstDateParts extracts the first element of a date-parts value,
// tolerating the []any shapes JSON decoding produces.
func firstDateParts(v any) []any {
	switch parts := v.(type) {
	case []any:
		if len(parts) == 0 {
			return nil
		}
		if inner, ok := parts[0].([]any); ok {
			return inner
		}
		// Already flat: [2023, 5].
		return parts
	case [][]int:
		if len(parts) == 0 {
			return nil
		}
		out := make([]any, len(parts[0]))
		for i, n := range parts[0] {
			out[i] = n
		}
		return out
	case []int:
		out := make([]any, len(parts))
		for i, n := range parts {
			out[i] = n
		}
		return out
	default:
		return nil
	}
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

// Today returns the current date as a structured ParsedDate with IsCurrent
// set. Not deterministic; driven by the package clock.
func Today() *ParsedDate {
	t := now()
	return &ParsedDate{
		DateParts: []int{t.Year(), int(t.Month()), t.Day()},
		Year:      t.Year(),
		Month:     int(t.Month()),
		Day:       t.Day(),
		IsCurrent: true,
	}
}

// ToCSLDate converts a ParsedDate back to CSL shape. Structured dates win
// over raw; nil input yields nil.
func ToCSLDate(p *ParsedDate) *types.CSLDate {
	if p == nil {
		return nil
	}
	if len(p.DateParts) > 0 {
		return &types.CSLDate{DateParts: [][]int{append([]int(nil), p.DateParts...)}}
	}
	if p.Raw != "" {
		return &types.CSLDate{Raw: p.Raw}
	}
	return nil
}

// ExtractFields projects a record's issued date onto string year/month/day,
// preferring issued date-parts and falling back to direct scalar fields.
// Absent parts are "".
func ExtractFields(r types.Record) (year, month, day string) {
	if issued, ok := r["issued"]; ok {
		if p := Parse(issued); p != nil && len(p.DateParts) > 0 {
			year = strconv.Itoa(p.Year)
			if p.Month > 0 {
				month = strconv.Itoa(p.Month)
			}
			if p.Day > 0 {
				day = strconv.Itoa(p.Day)
			}
			return year, month, day
		}
	}
	return scalarField(r, "year"), scalarField(r, "month"), scalarField(r, "day")
}

func scalarField(r types.Record, key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch n := v.(type) {
	case string:
		return strings.TrimSpace(n)
	case float64:
		return strconv.Itoa(int(n))
	case int:
		return strconv.Itoa(n)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// ToFormString renders a ParsedDate as "YYYY", "YYYY-MM", or "YYYY-MM-DD"
// with zero-padded month and day, falling back to the raw string.
func ToFormString(p *ParsedDate) string {
	if p == nil {
		return ""
	}
	year, month, day := p.Year, p.Month, p.Day
	if year == 0 && len(p.DateParts) > 0 {
		year = p.DateParts[0]
		if len(p.DateParts) > 1 {
			month = p.DateParts[1]
		}
		if len(p.DateParts) > 2 {
			day = p.DateParts[2]
		}
	}
	if year == 0 {
		return p.Raw
	}
	s := fmt.Sprintf("%04d", year)
	if month > 0 {
		s += fmt.Sprintf("-%02d", month)
		if day > 0 {
			s += fmt.Sprintf("-%02d", day)
		}
	}
	return s
}

// FromFields builds a CSL date from separate form fields. It returns nil
// when the year does not parse; month and day are appended only while the
// chain of valid preceding parts is unbroken.
func FromFields(year string, month, day string) *types.CSLDate {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return nil
	}
	parts := []int{y}
	if m, err := strconv.Atoi(strings.TrimSpace(month)); err == nil && m >= 1 && m <= 12 {
		parts = append(parts, m)
		if d, err := strconv.Atoi(strings.TrimSpace(day)); err == nil && d >= 1 && d <= 31 {
			parts = append(parts, d)
		}
	}
	return &types.CSLDate{DateParts: [][]int{parts}}
}
