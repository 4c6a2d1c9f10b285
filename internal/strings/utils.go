// Package strings provides common string utilities shared by the renderers.
package strings

import (
	"strings"
)

// Truncate shortens a string to n characters with ellipsis.
// If n < 4, uses n = 4 to ensure room for "...".
func Truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// TruncateRunes truncates by rune count, not byte count.
// Safer for unicode strings; reflection text is Italian prose.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n < 4 {
		n = 4
	}
	return string(runes[:n-3]) + "..."
}

// FirstLine returns the text up to the first newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// WordWrap wraps text to a maximum width, breaking on word boundaries.
// Preserves existing newlines.
func WordWrap(s string, width int) string {
	if width <= 0 {
		return s
	}

	var result strings.Builder
	lines := strings.Split(s, "\n")

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}
		if line == "" {
			continue
		}
		if len([]rune(line)) <= width {
			result.WriteString(line)
			continue
		}
		result.WriteString(wrapLine(line, width))
	}

	return result.String()
}

func wrapLine(line string, width int) string {
	var result strings.Builder
	words := strings.Fields(line)
	currentLen := 0
	lineStart := true

	for _, word := range words {
		wordLen := len([]rune(word))

		if wordLen > width {
			if !lineStart {
				result.WriteString("\n")
			}
			result.WriteString(word)
			result.WriteString("\n")
			currentLen = 0
			lineStart = true
			continue
		}

		spaceNeeded := wordLen
		if !lineStart {
			spaceNeeded++
		}

		if currentLen+spaceNeeded > width {
			result.WriteString("\n")
			result.WriteString(word)
			currentLen = wordLen
		} else {
			if !lineStart {
				result.WriteString(" ")
				currentLen++
			}
			result.WriteString(word)
			currentLen += wordLen
		}
		lineStart = false
	}

	return result.String()
}
