// Package text provides pure text utility functions, ANSI-aware where
// relevant. This is a leaf package with zero internal imports.
package text

import (
	"regexp"
	"strings"
)

// ansiPattern matches ANSI escape sequences for stripping.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Truncate shortens a string to width visible characters, adding "…" if
// truncated. ANSI-aware: counts visible characters only. When truncation
// occurs, ANSI codes are stripped from the result.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	visible := CountVisibleWidth(s)
	if visible <= width {
		return s
	}

	plain := StripANSI(s)
	runes := []rune(plain)

	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}

// CountVisibleWidth returns the number of visible characters, ignoring ANSI
// escape sequences.
func CountVisibleWidth(s string) int {
	return len([]rune(StripANSI(s)))
}

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	if !strings.Contains(s, "\x1b") {
		return s
	}
	return ansiPattern.ReplaceAllString(s, "")
}
