// Package sanitize cleans model output before it reaches a renderer.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var htmlTagPattern = regexp.MustCompile(
	`</?(?:br|p|div|span|b|i|u|em|strong|small|sup|sub|h[1-6]|ul|ol|li|hr|code|pre)\b[^>]*>`,
)

var fencePattern = regexp.MustCompile("^\\s*```[A-Za-z0-9_-]*\\s*$")

// StripTags removes inline HTML tags that models sometimes mix into
// markdown. Other angle-bracket text is left alone.
func StripTags(text string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(text, ""))
}

// StripFences drops code-fence marker lines, keeping the fenced content.
func StripFences(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, l := range lines {
		if fencePattern.MatchString(l) {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

// StripControl removes control characters other than newline and tab.
func StripControl(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || r == '\uFEFF' {
			return -1
		}
		return r
	}, text)
}

// Narrative normalizes line endings and applies every cleaner.
func Narrative(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = StripControl(text)
	text = StripFences(text)
	return StripTags(text)
}
