// Package demo implements "transit demo": scripted visit scenarios for
// visually checking the indicator without a real host subsystem.
package demo

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/schmitthub/transit/internal/cmdutil"
	"github.com/schmitthub/transit/internal/config"
	"github.com/schmitthub/transit/internal/indicator"
	"github.com/schmitthub/transit/internal/iostreams"
	"github.com/schmitthub/transit/internal/logger"
	"github.com/schmitthub/transit/internal/tui"
	"github.com/schmitthub/transit/pkg/notifier"
	"github.com/schmitthub/transit/pkg/visit"
)

// Options holds the demo command configuration.
type Options struct {
	IO       *iostreams.IOStreams
	Settings func() (*config.Settings, error)

	Scenario string
	TUI      bool
	Progress string
}

// Step is one beat of a scripted scenario: wait, then publish.
type Step struct {
	Wait    time.Duration
	Publish func(*visit.Bus)
}

// NewCmdDemo creates the demo command.
func NewCmdDemo(f *cmdutil.Factory, runF func(*Options) error) *cobra.Command {
	opts := &Options{
		IO:       f.IOStreams,
		Settings: f.Settings,
	}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted visit scenario against the indicator",
		Long: fmt.Sprintf(`Demo simulates a host navigation subsystem emitting visit lifecycle events
and drives the real indicator, so every behavior can be eyeballed without
wiring up a host.

Scenarios: %s.`, strings.Join(ScenarioNames(), ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(opts)
			}
			return demoRun(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Scenario, "scenario", "completed", "Scenario to run")
	cmd.Flags().BoolVar(&opts.TUI, "tui", false, "Render in the full-screen dashboard")
	cmd.Flags().StringVar(&opts.Progress, "progress", "", "Progress mode: auto, plain, or tty")

	return cmd
}

func demoRun(opts *Options) error {
	settings, err := opts.Settings()
	if err != nil {
		return err
	}

	steps, err := Scenario(opts.Scenario)
	if err != nil {
		return err
	}

	if opts.TUI {
		logger.SetDrawingMode(true)
		defer logger.SetDrawingMode(false)
		return tui.RunDemo(opts.IO, tui.DemoConfig{
			Scenario: opts.Scenario,
			Delay:    settings.Delay,
			Color:    settings.Color,
		}, func(bus *visit.Bus) {
			RunScript(bus, steps)
		})
	}

	mode := settings.Progress
	if opts.Progress != "" {
		mode = opts.Progress
	}

	bar := indicator.New(opts.IO, mode, indicator.Options{
		Color:                 settings.Color,
		ShowSpinner:           settings.ShowSpinner,
		IncludeDefaultStyling: settings.IncludeDefaultStyling,
	})
	n := notifier.New(bar, notifier.Options{Delay: settings.Delay, Logger: logger.Log})
	bus := visit.NewBus(n)

	logger.SetDrawingMode(true)
	RunScript(bus, steps)
	bus.Close()
	logger.SetDrawingMode(false)

	n.Reset()
	if bar.IsActive() {
		bar.RemoveImmediately()
	}

	cs := opts.IO.ColorScheme()
	fmt.Fprintf(opts.IO.ErrOut, "%s scenario %q finished\n", cs.SuccessIcon(), opts.Scenario)
	return nil
}

// RunScript plays steps in order, sleeping between beats.
func RunScript(bus *visit.Bus, steps []Step) {
	for _, s := range steps {
		if s.Wait > 0 {
			time.Sleep(s.Wait)
		}
		s.Publish(bus)
	}
}

func start(label string) func(*visit.Bus) {
	return func(b *visit.Bus) {
		b.PublishStart(visit.StartPayload{Visit: visit.New(label)})
	}
}

func progress(percentage float64) func(*visit.Bus) {
	return func(b *visit.Bus) {
		b.PublishProgress(visit.ProgressPayload{Percentage: &percentage})
	}
}

func finish(outcome visit.Outcome) func(*visit.Bus) {
	return func(b *visit.Bus) {
		b.PublishFinish(visit.FinishPayload{Outcome: outcome})
	}
}

// scenarios mirror the behaviors a host subsystem produces in practice. The
// waits are sized against the default 250ms activation delay.
var scenarios = map[string][]Step{
	"completed": {
		{Publish: start("GET /dashboard")},
		{Wait: 400 * time.Millisecond, Publish: progress(50)},
		{Wait: 200 * time.Millisecond, Publish: finish(visit.OutcomeCompleted)},
	},
	"interrupted": {
		{Publish: start("GET /reports")},
		{Wait: 400 * time.Millisecond, Publish: finish(visit.OutcomeInterrupted)},
		// The superseding visit arrives immediately and completes.
		{Publish: start("GET /reports?page=2")},
		{Wait: 500 * time.Millisecond, Publish: finish(visit.OutcomeCompleted)},
	},
	"cancelled": {
		{Publish: start("POST /exports")},
		{Wait: 400 * time.Millisecond, Publish: finish(visit.OutcomeCancelled)},
	},
	"fast": {
		// Finishes inside the activation delay: the bar must never appear.
		{Publish: start("GET /ping")},
		{Wait: 100 * time.Millisecond, Publish: finish(visit.OutcomeCompleted)},
	},
	"upload": {
		{Publish: start("PUT /files/archive.tar")},
		{Wait: 400 * time.Millisecond, Publish: progress(10)},
		{Wait: 150 * time.Millisecond, Publish: progress(35)},
		{Wait: 150 * time.Millisecond, Publish: progress(60)},
		{Wait: 150 * time.Millisecond, Publish: progress(85)},
		{Wait: 150 * time.Millisecond, Publish: progress(100)},
		{Wait: 300 * time.Millisecond, Publish: finish(visit.OutcomeCompleted)},
	},
}

// Scenario returns the steps for a named scenario.
func Scenario(name string) ([]Step, error) {
	steps, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (available: %s)",
			name, strings.Join(ScenarioNames(), ", "))
	}
	return steps, nil
}

// ScenarioNames returns the available scenario names, sorted.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
