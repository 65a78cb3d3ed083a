package mapper

import (
	"regexp"
	"strings"
)

// blockCloseTag matches the closing tag of any block-level element the
// source store's rich-text editor emits, plus the self-closing <br> that
// behaves like one. Each match becomes a newline so paragraph and list-item
// boundaries survive tag stripping.
var blockCloseTag = regexp.MustCompile(`(?i)</(p|div|li|ul|ol|h[1-6]|blockquote|tr|table|section|article)>|<br\s*/?>`)

// anyTag matches whatever markup is left once block closings are gone —
// opening tags, inline tags, attributes and all.
var anyTag = regexp.MustCompile(`<[^>]*>`)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

var whitespaceRun = regexp.MustCompile(`[ \t]+`)
var blankLineRun = regexp.MustCompile(`\n{2,}`)

// stripHTML implements the narrow, exact substitution algorithm spec.md
// §4.E calls for rather than general HTML parsing: a DOM-aware parser would
// not reproduce this byte-for-byte, and the mapper tests check its exact
// output, not HTML correctness.
func stripHTML(s string) string {
	s = blockCloseTag.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = whitespaceRun.ReplaceAllString(line, " ")
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLineRun.ReplaceAllString(s, "\n")
	return strings.Trim(s, "\n")
}

// truncate cuts s to at most n runes, never splitting inside a multi-byte
// rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
