// Package indicator implements the terminal progress widget driven by the
// visit notifier: a slim single-line bar on stderr in TTY mode, threshold
// line updates otherwise.
package indicator

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/schmitthub/transit/internal/iostreams"
)

// Options configure rendering only; they never alter when the bar appears
// or disappears.
type Options struct {
	// Color is the bar color (terminal color name or hex).
	Color string

	// ShowSpinner renders a spinner glyph ahead of the bar.
	ShowSpinner bool

	// IncludeDefaultStyling applies colors and the unicode bar glyphs.
	// When false the bar renders as plain ASCII with no color.
	IncludeDefaultStyling bool

	// Width is the bar width in cells (default 30).
	Width int
}

const (
	defaultBarWidth = 30

	// completionHold keeps the full bar on screen briefly so a completed
	// visit registers visually before the line clears.
	completionHold = 120 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Bar is the terminal indicator. It satisfies the notifier's Indicator
// contract; the notifier is its only driver.
type Bar struct {
	ios  *iostreams.IOStreams
	cs   *iostreams.ColorScheme
	opts Options
	tty  bool

	mu       sync.Mutex
	active   bool
	position float64
	frame    int

	// Non-TTY threshold tracking: only print at 25% intervals.
	lastPrintedPct int
}

// New creates a Bar writing to ios.ErrOut. Mode is "auto", "plain", or
// "tty"; auto follows stderr TTY detection, matching how the rest of the
// CLI decides between animated and line output.
func New(ios *iostreams.IOStreams, mode string, opts Options) *Bar {
	tty := ios.IsStderrTTY()
	switch mode {
	case "tty":
		tty = true
	case "plain":
		tty = false
	}
	if opts.Width <= 0 {
		opts.Width = defaultBarWidth
	}
	return &Bar{
		ios:            ios,
		cs:             ios.ColorScheme(),
		opts:           opts,
		tty:            tty,
		lastPrintedPct: -1,
	}
}

// Activate begins showing the bar at position 0.
func (b *Bar) Activate() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active {
		return
	}
	b.active = true
	b.position = 0
	b.lastPrintedPct = -1
	b.render()
}

// SetPosition moves the bar to a fraction in [0, 1]. Out-of-range values
// are clamped for display.
func (b *Bar) SetPosition(fraction float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	b.position = fraction
	b.render()
}

// IsActive reports whether the bar is currently started.
func (b *Bar) IsActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// CompleteAndHide drives the bar to 100%, holds the full bar briefly, then
// takes it off the screen.
func (b *Bar) CompleteAndHide() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	b.position = 1
	if b.tty {
		b.renderTTY()
		time.Sleep(completionHold)
		b.clearLine()
	} else {
		fmt.Fprintln(b.ios.ErrOut, b.plainLine("done"))
	}
	b.active = false
}

// RemoveImmediately takes the bar off the screen with no animation.
func (b *Bar) RemoveImmediately() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.tty {
		b.clearLine()
	}
	b.active = false
}

// Position returns the current fractional position (for tests and the demo
// dashboard).
func (b *Bar) Position() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position
}

// render dispatches to TTY or plain output. Caller holds b.mu.
func (b *Bar) render() {
	if b.tty {
		b.renderTTY()
		return
	}
	b.renderPlain()
}

// renderTTY redraws the bar in place with \r.
// Styled:  ⠙ ━━━━━━━╺───────────  45%
// Unstyled: [=======>            ]  45%
func (b *Bar) renderTTY() {
	filled := int(b.position * float64(b.opts.Width))
	if filled > b.opts.Width {
		filled = b.opts.Width
	}
	pct := int(b.position * 100)

	var line strings.Builder
	line.WriteByte('\r')

	if b.opts.ShowSpinner {
		glyph := spinnerFrames[b.frame%len(spinnerFrames)]
		b.frame++
		if b.opts.IncludeDefaultStyling {
			glyph = b.cs.Colored(b.opts.Color, glyph)
		}
		line.WriteString(glyph)
		line.WriteByte(' ')
	}

	if b.opts.IncludeDefaultStyling {
		bar := strings.Repeat("━", filled)
		if filled < b.opts.Width {
			bar += "╺" + strings.Repeat("─", b.opts.Width-filled-1)
		}
		line.WriteString(b.cs.Colored(b.opts.Color, bar))
	} else {
		line.WriteByte('[')
		if filled > 0 {
			line.WriteString(strings.Repeat("=", filled-1))
			line.WriteByte('>')
		}
		line.WriteString(strings.Repeat(" ", b.opts.Width-filled))
		line.WriteByte(']')
	}

	line.WriteString(fmt.Sprintf(" %3d%%", pct))
	fmt.Fprint(b.ios.ErrOut, line.String())
}

// renderPlain prints a line whenever progress crosses a 25% threshold, so
// piped output stays readable.
func (b *Bar) renderPlain() {
	pct := int(b.position * 100)
	threshold := pct / 25 * 25
	if threshold <= b.lastPrintedPct {
		return
	}
	b.lastPrintedPct = threshold
	fmt.Fprintln(b.ios.ErrOut, b.plainLine(fmt.Sprintf("%d%%", pct)))
}

func (b *Bar) plainLine(status string) string {
	return fmt.Sprintf("[visit] %s", status)
}

// clearLine erases the in-place bar. Caller holds b.mu.
func (b *Bar) clearLine() {
	width := b.opts.Width + 8 // bar + spinner + percentage
	fmt.Fprint(b.ios.ErrOut, "\r"+strings.Repeat(" ", width)+"\r")
}
