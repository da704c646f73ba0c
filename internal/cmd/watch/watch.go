// Package watch implements "transit watch": consume visit lifecycle events
// from stdin and drive the terminal progress indicator.
package watch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/schmitthub/transit/internal/cmdutil"
	"github.com/schmitthub/transit/internal/config"
	"github.com/schmitthub/transit/internal/indicator"
	"github.com/schmitthub/transit/internal/iostreams"
	"github.com/schmitthub/transit/internal/logger"
	"github.com/schmitthub/transit/internal/signals"
	"github.com/schmitthub/transit/pkg/notifier"
	"github.com/schmitthub/transit/pkg/visit"
)

// Options holds the watch command configuration.
type Options struct {
	IO             *iostreams.IOStreams
	Settings       func() (*config.Settings, error)
	SettingsLoader func() (*config.Loader, error)

	Progress  string        // "auto", "plain", or "tty"
	Delay     time.Duration // overrides settings when delaySet
	Color     string        // overrides settings when non-empty
	NoSpinner bool
	NoReload  bool

	delaySet bool
}

// NewCmdWatch creates the watch command.
func NewCmdWatch(f *cmdutil.Factory, runF func(*Options) error) *cobra.Command {
	opts := &Options{
		IO:             f.IOStreams,
		Settings:       f.Settings,
		SettingsLoader: f.SettingsLoader,
	}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Drive the progress indicator from lifecycle events on stdin",
		Long: `Watch reads newline-delimited JSON visit lifecycle events from stdin and
drives the progress indicator accordingly.

Event format (one per line):
  {"event":"start","label":"GET /dashboard"}
  {"event":"progress","percentage":42}
  {"event":"finish","outcome":"completed"}

Outcomes are "completed", "interrupted" (superseded by a newer visit), or
"cancelled" (aborted by the caller). Progress events without a percentage
are ignored. The indicator only appears for visits that stay in flight
longer than the configured delay, so fast navigations never flash a bar.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.delaySet = cmd.Flags().Changed("delay")
			if runF != nil {
				return runF(opts)
			}
			return watchRun(opts)
		},
	}

	cmd.Flags().Var(newModeValue(&opts.Progress), "progress", "Progress mode: auto, plain, or tty")
	cmd.Flags().DurationVar(&opts.Delay, "delay", notifier.DefaultDelay, "Delay before the indicator appears")
	cmd.Flags().StringVar(&opts.Color, "color", "", "Indicator color (name or hex)")
	cmd.Flags().BoolVar(&opts.NoSpinner, "no-spinner", false, "Disable the spinner glyph")
	cmd.Flags().BoolVar(&opts.NoReload, "no-reload", false, "Do not watch the settings file for changes")

	return cmd
}

// modeValue is a pflag.Value that only accepts the known progress modes.
type modeValue struct {
	dest *string
}

func newModeValue(dest *string) pflag.Value {
	return &modeValue{dest: dest}
}

func (m *modeValue) Set(value string) error {
	switch value {
	case "auto", "plain", "tty":
		*m.dest = value
		return nil
	}
	return fmt.Errorf("invalid progress mode %q (expected auto, plain, or tty)", value)
}

func (m *modeValue) String() string { return *m.dest }

func (*modeValue) Type() string { return "mode" }

// wireEvent is the stdin NDJSON shape.
type wireEvent struct {
	Event      string   `json:"event"`
	Label      string   `json:"label,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	Outcome    string   `json:"outcome,omitempty"`
}

func watchRun(opts *Options) error {
	settings, err := opts.Settings()
	if err != nil {
		return err
	}

	delay := settings.Delay
	if opts.delaySet {
		delay = opts.Delay
	}
	color := settings.Color
	if opts.Color != "" {
		color = opts.Color
	}
	mode := settings.Progress
	if opts.Progress != "" {
		mode = opts.Progress
	}

	bar := indicator.New(opts.IO, mode, indicator.Options{
		Color:                 color,
		ShowSpinner:           settings.ShowSpinner && !opts.NoSpinner,
		IncludeDefaultStyling: settings.IncludeDefaultStyling,
	})
	// For the notifier a zero delay means "use the default"; here the user
	// asking for 0 means "show the bar immediately", which negative conveys.
	if delay == 0 {
		delay = -1
	}
	n := notifier.New(bar, notifier.Options{
		Delay:  delay,
		Logger: logger.Log,
	})
	counts := &tally{}
	bus := visit.NewBus(n, counts)

	// Live-reload the activation delay when the settings file changes.
	if !opts.NoReload {
		if loader, lerr := opts.SettingsLoader(); lerr == nil && loader.Exists() {
			werr := loader.Watch(func(fsnotify.Event) {
				reloaded, rerr := loader.Load()
				if rerr != nil {
					logger.Warn().Err(rerr).Msg("settings changed but could not be reloaded")
					return
				}
				if !opts.delaySet {
					n.SetDelay(reloaded.Delay)
					logger.Info().Dur("delay", reloaded.Delay).Msg("settings reloaded")
				}
			})
			if werr != nil {
				logger.Warn().Err(werr).Msg("settings watch unavailable")
			}
		}
	}

	// Keep log lines away from the bar while it owns the terminal line.
	logger.SetDrawingMode(true)
	defer logger.SetDrawingMode(false)

	ctx, cancel := signals.SetupSignalContext(context.Background())
	defer cancel()

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- consume(opts.IO.In, bus)
	}()

	var readErr error
	select {
	case readErr = <-consumeErr:
	case <-ctx.Done():
		// Interrupted: the stdin read may never return, so shut down
		// without waiting for the consumer goroutine.
	}
	bus.Close()

	// The stream ended or the user interrupted; a visit left in flight
	// never finishes, so take the bar down rather than stranding it.
	n.Reset()
	if bar.IsActive() {
		bar.RemoveImmediately()
	}

	if readErr != nil {
		return readErr
	}

	logger.SetDrawingMode(false)
	printSummary(opts.IO, counts)
	return nil
}

// consume parses NDJSON lifecycle events and publishes them on the bus.
// Malformed lines are logged and skipped: a broken host emitter is a UX
// defect, never a crash.
func consume(r io.Reader, bus *visit.Bus) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev wireEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			logger.Warn().Err(err).Msg("skipping malformed event line")
			continue
		}

		switch ev.Event {
		case "start":
			bus.PublishStart(visit.StartPayload{Visit: visit.New(ev.Label)})
		case "progress":
			bus.PublishProgress(visit.ProgressPayload{Percentage: ev.Percentage})
		case "finish":
			outcome, err := visit.ParseOutcome(ev.Outcome)
			if err != nil {
				logger.Warn().Err(err).Msg("skipping finish with unknown outcome")
				continue
			}
			bus.PublishFinish(visit.FinishPayload{Outcome: outcome})
		default:
			logger.Warn().Str("event", ev.Event).Msg("skipping unknown event type")
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read event stream: %w", err)
	}
	return nil
}

// tally counts finished visits per outcome. It rides the same bus as the
// notifier, so its totals match exactly what the indicator saw.
type tally struct {
	started     int
	completed   int
	interrupted int
	cancelled   int
}

func (t *tally) HandleStart(visit.StartPayload) { t.started++ }

func (t *tally) HandleProgress(visit.ProgressPayload) {}

func (t *tally) HandleFinish(p visit.FinishPayload) {
	switch p.Outcome {
	case visit.OutcomeCompleted:
		t.completed++
	case visit.OutcomeInterrupted:
		t.interrupted++
	case visit.OutcomeCancelled:
		t.cancelled++
	}
}

func printSummary(ios *iostreams.IOStreams, t *tally) {
	if t.started == 0 {
		return
	}
	cs := ios.ColorScheme()
	fmt.Fprintf(ios.ErrOut, "%s %d visits: %d completed, %d interrupted, %d cancelled\n",
		cs.SuccessIcon(), t.started, t.completed, t.interrupted, t.cancelled)
}
