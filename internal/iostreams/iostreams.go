// Package iostreams provides testable access to standard streams, following
// the GitHub CLI pattern: commands never touch os.Stdout/os.Stderr directly,
// they go through an IOStreams handed down from the factory.
package iostreams

import (
	"bytes"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IOStreams provides access to standard input/output/error streams.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	// TTY caches: -1 = unchecked, 0 = false, 1 = true
	isInputTTY  int
	isOutputTTY int
	isStderrTTY int

	// colorEnabled: -1 = auto (detect from TTY), 0 = disabled, 1 = enabled
	colorEnabled int

	// terminalTheme is the detected theme: "light", "dark", or "none"
	terminalTheme string

	// Terminal size cache
	termWidthCache int
	termSizeCached bool
}

// New creates an IOStreams connected to the process's standard streams.
func New() *IOStreams {
	return &IOStreams{
		In:           os.Stdin,
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		isInputTTY:   -1,
		isOutputTTY:  -1,
		isStderrTTY:  -1,
		colorEnabled: -1,
	}
}

// Test creates an IOStreams backed by buffers for assertions in tests.
// Non-TTY, colors disabled.
func Test() (ios *IOStreams, in, out, errOut *bytes.Buffer) {
	in = &bytes.Buffer{}
	out = &bytes.Buffer{}
	errOut = &bytes.Buffer{}
	ios = &IOStreams{
		In:     in,
		Out:    out,
		ErrOut: errOut,
		// zero caches: non-TTY, colors disabled
	}
	return ios, in, out, errOut
}

// IsInputTTY returns true if stdin is a terminal.
func (s *IOStreams) IsInputTTY() bool {
	if s.isInputTTY == -1 {
		s.isInputTTY = boolToInt(isTerminal(s.In))
	}
	return s.isInputTTY == 1
}

// IsOutputTTY returns true if stdout is a terminal.
func (s *IOStreams) IsOutputTTY() bool {
	if s.isOutputTTY == -1 {
		s.isOutputTTY = boolToInt(isTerminal(s.Out))
	}
	return s.isOutputTTY == 1
}

// IsStderrTTY returns true if stderr is a terminal. The indicator renders to
// stderr (progress is status output, not data), so this is the gate for
// animated drawing.
func (s *IOStreams) IsStderrTTY() bool {
	if s.isStderrTTY == -1 {
		s.isStderrTTY = boolToInt(isTerminal(s.ErrOut))
	}
	return s.isStderrTTY == 1
}

// SetStderrTTY overrides stderr TTY detection (for tests and --plain/--tty flags).
func (s *IOStreams) SetStderrTTY(isTTY bool) {
	s.isStderrTTY = boolToInt(isTTY)
}

// ColorEnabled reports whether color output is on. Auto mode follows stderr
// TTY detection and honors NO_COLOR.
func (s *IOStreams) ColorEnabled() bool {
	if s.colorEnabled == -1 {
		if os.Getenv("NO_COLOR") != "" {
			s.colorEnabled = 0
		} else {
			s.colorEnabled = boolToInt(s.IsStderrTTY())
		}
	}
	return s.colorEnabled == 1
}

// SetColorEnabled overrides color detection.
func (s *IOStreams) SetColorEnabled(enabled bool) {
	s.colorEnabled = boolToInt(enabled)
}

// TerminalTheme returns "light", "dark", or "none" for non-terminals.
func (s *IOStreams) TerminalTheme() string {
	if s.terminalTheme != "" {
		return s.terminalTheme
	}
	if !s.IsOutputTTY() {
		s.terminalTheme = "none"
		return s.terminalTheme
	}
	if termenv.HasDarkBackground() {
		s.terminalTheme = "dark"
	} else {
		s.terminalTheme = "light"
	}
	return s.terminalTheme
}

// ColorScheme returns a ColorScheme respecting the current color settings.
func (s *IOStreams) ColorScheme() *ColorScheme {
	return NewColorScheme(s.ColorEnabled(), s.TerminalTheme())
}

// TerminalWidth returns the terminal width, or 80 when it cannot be measured.
func (s *IOStreams) TerminalWidth() int {
	if s.termSizeCached {
		return s.termWidthCache
	}
	s.termSizeCached = true
	s.termWidthCache = 80

	if f, ok := s.Out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			s.termWidthCache = w
		}
	}
	return s.termWidthCache
}

func isTerminal(stream any) bool {
	if f, ok := stream.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
