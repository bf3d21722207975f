// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fixRand pins the rand:N formatter for the duration of a test.
func fixRand(t *testing.T, token string) {
	t.Helper()
	prev := randAlnum
	randAlnum = func(n int) string {
		if n < len(token) {
			return token[:n]
		}
		return token
	}
	t.Cleanup(func() { randAlnum = prev })
}

func TestStringFormatters(t *testing.T) {
	vars := map[string]any{
		"title": "  The Nature of Code  ",
		"name":  "smith",
		"upper": "LOUD",
	}

	tests := []struct {
		tmpl string
		want string
	}{
		{"{{name|uppercase}}", "SMITH"},
		{"{{upper|lowercase}}", "loud"},
		{"{{name|capitalize}}", "Smith"},
		{"{{name|title}}", "Smith"},
		{"{{upper|sentence}}", "Loud"},
		{"{{title|trim}}", "The Nature of Code"},
		{"{{name|truncate:3}}", "smi"},
		{"{{name|truncate3}}", "smi"},
		{"{{name|abbr2}}", "sm"},
		{"{{name|ellipsis:3}}", "smi..."},
		{"{{name|ellipsis:10}}", "smith"},
		{"{{name|replace:s:z}}", "zmith"},
		{"{{name|slice:1:3}}", "mi"},
		{"{{name|slice:-2}}", "th"},
		{"{{name|pad:8:0}}", "000smith"},
		{"{{name|prefix:Dr. }}", "Dr. smith"},
		{"{{name|suffix:!}}", "smith!"},
		{"{{name|unknownfmt}}", "smith"},
	}
	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.tmpl, vars))
		})
	}
}

func TestPrefixSuffixSkipEmpty(t *testing.T) {
	vars := map[string]any{"empty": ""}
	assert.Equal(t, "", Render("{{empty|prefix:see }}", vars))
	assert.Equal(t, "", Render("{{missing|suffix:.pdf}}", vars))
}

func TestTruncateDefault(t *testing.T) {
	long := "abcdefghijklmnopqrstuvwxyzabcdefghijklmnop"
	got := Render("{{s|truncate}}", map[string]any{"s": long})
	assert.Equal(t, long[:30], got)
}

func TestTitleWordFormatters(t *testing.T) {
	tests := []struct {
		name  string
		tmpl  string
		title string
		want  string
	}{
		{"titleword skips stop words", "{{title|titleword}}", "The Nature of Code", "nature"},
		{"titleword strips html", "{{title|titleword}}", "<i>The</i> <b>Selfish</b> Gene", "selfish"},
		{"titleword strips punctuation", "{{title|titleword}}", "\"Quantum\" computing!", "quantum"},
		{"all stop words falls back to first", "{{title|titleword}}", "The And Of", "the"},
		{"shorttitle takes three", "{{title|shorttitle}}", "A Brief History of Nearly Everything", "briefhistorynearly"},
		{"shorttitle short input", "{{title|shorttitle}}", "On Growth", "growth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.tmpl, map[string]any{"title": tt.title}))
		})
	}
}

func TestNumberFormatter(t *testing.T) {
	assert.Equal(t, "3.14", Render("{{v|number:2}}", map[string]any{"v": "3.14159"}))
	assert.Equal(t, "42", Render("{{v|number}}", map[string]any{"v": "42"}))
	// Non-numeric passes through unchanged.
	assert.Equal(t, "n/a", Render("{{v|number}}", map[string]any{"v": "n/a"}))
}

func TestURLFormatters(t *testing.T) {
	assert.Equal(t, "a+b%26c", Render("{{v|urlencode}}", map[string]any{"v": "a b&c"}))
	assert.Equal(t, "a b&c", Render("{{v|urldecode}}", map[string]any{"v": "a+b%26c"}))
}

func TestSplitAndJoin(t *testing.T) {
	// Default split delimiter is a comma; output joins with commas.
	assert.Equal(t, "a,b,c", Render("{{v|split}}", map[string]any{"v": "a,b,c"}))
	assert.Equal(t, "a,b", Render("{{v|split:;}}", map[string]any{"v": "a;b"}))
	// A single leading space in the delimiter is a separator token only.
	assert.Equal(t, "a,b", Render("{{v|split: - }}", map[string]any{"v": "a- b"}))

	vars := map[string]any{"tags": []string{"x", "y", "z"}}
	assert.Equal(t, "x;y;z", Render("{{tags|join:;}}", vars))
	assert.Equal(t, "x,y,z", Render("{{tags|join}}", vars))
	// Trailing whitespace in the join delimiter is preserved.
	assert.Equal(t, "x, y, z", Render("{{tags|join:, }}", vars))
}

func TestCountFormatter(t *testing.T) {
	assert.Equal(t, "3", Render("{{tags|count}}", map[string]any{"tags": []string{"a", "b", "c"}}))
	assert.Equal(t, "0", Render("{{missing|count}}", map[string]any{}))
	assert.Equal(t, "1", Render("{{v|count}}", map[string]any{"v": "scalar"}))
}

func TestJSONFormatter(t *testing.T) {
	got := Render("{{v|json}}", map[string]any{"v": map[string]any{"a": 1}})
	assert.Equal(t, `{"a":1}`, got)
	assert.Equal(t, `"s"`, Render("{{v|json}}", map[string]any{"v": "s"}))
}

func TestDateFormatter(t *testing.T) {
	vars := map[string]any{
		"accessed": "2024-03-15T10:30:00",
		"issued":   map[string]any{"date-parts": []any{[]any{float64(2023), float64(5)}}},
	}
	assert.Equal(t, "2024-03-15", Render("{{accessed|date:iso}}", vars))
	assert.Equal(t, "2024", Render("{{accessed|date:year}}", vars))
	assert.Equal(t, "2023-05", Render("{{issued|date:iso}}", vars))
	assert.Equal(t, "", Render("{{missing|date:iso}}", vars))
}

func TestRandFormatter(t *testing.T) {
	fixRand(t, "abcdefgh")
	assert.Equal(t, "abcd", Render("{{v|rand:4}}", map[string]any{"v": "ignored"}))

	// Without a pinned source the token is still the requested length.
	prev := randAlnum
	t.Cleanup(func() { randAlnum = prev })
	randAlnum = prev
	assert.Len(t, Render("{{v|rand:7}}", map[string]any{"v": ""}), 7)
}

func TestSanitizeCitekey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"smith2023", "smith2023"},
		{"smith 2023", "smith2023"},
		{"@smith", "smith"},
		{"-smith", "_-smith"},
		{"smith2023-", "smith2023"},
		{"smith:2023./", "smith:2023"},
		{"", ""},
		{"!!!", ""},
		{"doe_2020+a", "doe_2020+a"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeCitekey(tt.in))
		})
	}
}

func TestSanitizeOption(t *testing.T) {
	got := RenderOpts("{{author}} {{year}}!", map[string]any{"author": "smith", "year": 2023}, Options{SanitizeForCitekey: true})
	assert.Equal(t, "smith2023", got)
}
