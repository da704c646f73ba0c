// Package tui renders the full-screen demo dashboard: the indicator bar plus
// a live trace of the lifecycle events driving it.
package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schmitthub/transit/internal/iostreams"
	"github.com/schmitthub/transit/internal/text"
	"github.com/schmitthub/transit/pkg/notifier"
	"github.com/schmitthub/transit/pkg/visit"
)

// ---------------------------------------------------------------------------
// Public entry point
// ---------------------------------------------------------------------------

// DemoConfig configures the dashboard run.
type DemoConfig struct {
	Scenario string
	Delay    time.Duration
	Color    string
}

// RunDemo runs the dashboard, wiring a Notifier to a message-passing
// indicator, and plays the script through a real Bus on a background
// goroutine. It returns when the script has finished (or the user quits).
func RunDemo(ios *iostreams.IOStreams, cfg DemoConfig, script func(*visit.Bus)) error {
	model := newDemoModel(ios, cfg)
	p := tea.NewProgram(model, tea.WithInput(ios.In), tea.WithOutput(ios.ErrOut))

	ind := &programIndicator{send: p.Send}
	n := notifier.New(ind, notifier.Options{Delay: cfg.Delay})
	bus := visit.NewBus(n, &traceSubscriber{send: p.Send})

	go func() {
		script(bus)
		bus.Close()
		// Give the completion hold a beat to land before tearing down.
		time.Sleep(300 * time.Millisecond)
		p.Send(scriptDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("display error: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Indicator bridge
// ---------------------------------------------------------------------------

// programIndicator satisfies the notifier's Indicator contract by forwarding
// every widget call into the running bubbletea program as a message. State
// queries answer from a local mirror so IsActive stays synchronous.
type programIndicator struct {
	mu     sync.Mutex
	active bool
	send   func(tea.Msg)
}

func (i *programIndicator) Activate() {
	i.mu.Lock()
	i.active = true
	i.mu.Unlock()
	i.send(indicatorShownMsg{})
}

func (i *programIndicator) SetPosition(fraction float64) {
	i.send(indicatorPositionMsg(fraction))
}

func (i *programIndicator) IsActive() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.active
}

func (i *programIndicator) CompleteAndHide() {
	i.mu.Lock()
	i.active = false
	i.mu.Unlock()
	i.send(indicatorCompletedMsg{})
}

func (i *programIndicator) RemoveImmediately() {
	i.mu.Lock()
	i.active = false
	i.mu.Unlock()
	i.send(indicatorRemovedMsg{})
}

// traceSubscriber mirrors bus traffic into the event trace pane.
type traceSubscriber struct {
	send func(tea.Msg)
}

func (t *traceSubscriber) HandleStart(p visit.StartPayload) {
	t.send(traceMsg(fmt.Sprintf("start     %s", p.Visit.Label)))
}

func (t *traceSubscriber) HandleProgress(p visit.ProgressPayload) {
	if p.Percentage == nil {
		t.send(traceMsg("progress  (no percentage)"))
		return
	}
	t.send(traceMsg(fmt.Sprintf("progress  %.0f%%", *p.Percentage)))
}

func (t *traceSubscriber) HandleFinish(p visit.FinishPayload) {
	t.send(traceMsg(fmt.Sprintf("finish    %s", p.Outcome)))
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

type indicatorShownMsg struct{}

type indicatorPositionMsg float64

type indicatorCompletedMsg struct{}

type indicatorRemovedMsg struct{}

type traceMsg string

type scriptDoneMsg struct{}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

const maxTraceLines = 8

type demoModel struct {
	ios *iostreams.IOStreams
	cs  *iostreams.ColorScheme
	cfg DemoConfig

	bar     progress.Model
	spinner spinner.Model

	visible  bool
	position float64
	trace    []string

	interrupted bool
	done        bool
	width       int
}

func newDemoModel(ios *iostreams.IOStreams, cfg DemoConfig) demoModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	barOpts := []progress.Option{progress.WithoutPercentage()}
	if cfg.Color != "" {
		barOpts = append(barOpts, progress.WithSolidFill(cfg.Color))
	}
	bar := progress.New(barOpts...)

	return demoModel{
		ios:     ios,
		cs:      ios.ColorScheme(),
		cfg:     cfg,
		bar:     bar,
		spinner: s,
		width:   ios.TerminalWidth(),
	}
}

func (m demoModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.interrupted = true
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = barWidth(msg.Width)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case indicatorShownMsg:
		m.visible = true
		m.position = 0
		return m, nil

	case indicatorPositionMsg:
		m.position = float64(msg)
		return m, nil

	case indicatorCompletedMsg:
		m.position = 1
		m.visible = false
		return m, nil

	case indicatorRemovedMsg:
		m.visible = false
		return m, nil

	case traceMsg:
		m.trace = append(m.trace, string(msg))
		if len(m.trace) > maxTraceLines {
			m.trace = m.trace[len(m.trace)-maxTraceLines:]
		}
		return m, nil

	case scriptDoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func barWidth(termWidth int) int {
	w := termWidth - 10
	if w < 20 {
		w = 20
	}
	if w > 60 {
		w = 60
	}
	return w
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m demoModel) View() string {
	var buf strings.Builder

	title := fmt.Sprintf("  ━━ transit demo  %s ", m.cfg.Scenario)
	buf.WriteString(m.cs.Bold(m.cs.Accent(title)))
	buf.WriteByte('\n')
	buf.WriteByte('\n')

	if m.visible {
		buf.WriteString("  ")
		if !m.done {
			buf.WriteString(m.spinner.View())
			buf.WriteByte(' ')
		}
		buf.WriteString(m.bar.ViewAs(m.position))
		buf.WriteByte('\n')
	} else {
		buf.WriteString(m.cs.Muted("  (indicator hidden)"))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')

	buf.WriteString(m.cs.Muted(fmt.Sprintf("  ┌─ events (delay %s) ", m.cfg.Delay)))
	buf.WriteByte('\n')
	for _, line := range m.trace {
		buf.WriteString(m.cs.Muted("  │ "))
		buf.WriteString(text.Truncate(line, m.width-6))
		buf.WriteByte('\n')
	}
	buf.WriteString(m.cs.Muted("  └─"))
	buf.WriteByte('\n')

	if m.done && m.interrupted {
		buf.WriteString(m.cs.Yellow("  interrupted"))
		buf.WriteByte('\n')
	}

	return buf.String()
}
