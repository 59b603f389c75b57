// Package textutil provides helpers for cleaning up model-generated text
// that may arrive wrapped in markdown code fences or padded with whitespace.
package textutil

import (
	"strings"
	"unicode/utf8"
)

// StripMarkdownFences removes ``` ... ``` wrapping from text.
// Returns the content between the fences, or the original text if no fences are found.
func StripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}

	startIdx := 1 // skip the opening ``` line
	endIdx := len(lines) - 1

	// Find the closing ```
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			endIdx = i
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines[startIdx:endIdx], "\n"))
}

// Truncate shortens a string to at most maxLen bytes for log output, cutting
// on a rune boundary so multi-byte characters are never split.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
