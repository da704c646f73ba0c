package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		width int
		want  string
	}{
		{name: "fits", s: "short", width: 10, want: "short"},
		{name: "exact", s: "exact", width: 5, want: "exact"},
		{name: "truncated", s: "GET /very/long/path", width: 8, want: "GET /ve…"},
		{name: "width one", s: "abc", width: 1, want: "a"},
		{name: "zero width", s: "abc", width: 0, want: ""},
		{name: "unicode", s: "━━━━━━", width: 4, want: "━━━…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.s, tt.width))
		})
	}
}

func TestTruncate_StripsANSIWhenTruncating(t *testing.T) {
	colored := "\x1b[32mgreen text here\x1b[0m"
	assert.Equal(t, "green…", Truncate(colored, 6))
	assert.Equal(t, colored, Truncate(colored, 20), "untruncated keeps codes")
}

func TestCountVisibleWidth(t *testing.T) {
	assert.Equal(t, 5, CountVisibleWidth("hello"))
	assert.Equal(t, 5, CountVisibleWidth("\x1b[1mhello\x1b[0m"))
	assert.Equal(t, 0, CountVisibleWidth(""))
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "plain", StripANSI("plain"))
	assert.Equal(t, "bold", StripANSI("\x1b[1mbold\x1b[0m"))
}
