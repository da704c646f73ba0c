package watch

import (
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/transit/internal/cmdutil"
	"github.com/schmitthub/transit/internal/config"
	"github.com/schmitthub/transit/internal/iostreams"
	"github.com/schmitthub/transit/pkg/visit"
)

func TestNewCmdWatch_Flags(t *testing.T) {
	f := &cmdutil.Factory{IOStreams: nil}

	var got *Options
	cmd := NewCmdWatch(f, func(opts *Options) error {
		got = opts
		return nil
	})
	cmd.SetArgs([]string{"--delay", "100ms", "--progress", "plain", "--no-spinner"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	require.NoError(t, cmd.Execute())
	require.NotNil(t, got)
	assert.Equal(t, 100*time.Millisecond, got.Delay)
	assert.True(t, got.delaySet)
	assert.Equal(t, "plain", got.Progress)
	assert.True(t, got.NoSpinner)
}

func TestNewCmdWatch_RejectsUnknownProgressMode(t *testing.T) {
	cmd := NewCmdWatch(&cmdutil.Factory{}, func(opts *Options) error {
		t.Fatal("runF should not be reached")
		return nil
	})
	cmd.SetArgs([]string{"--progress", "fancy"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid progress mode")
}

func TestNewCmdWatch_DefaultDelayNotMarkedSet(t *testing.T) {
	var got *Options
	cmd := NewCmdWatch(&cmdutil.Factory{}, func(opts *Options) error {
		got = opts
		return nil
	})
	cmd.SetArgs(nil)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	require.NoError(t, cmd.Execute())
	assert.False(t, got.delaySet, "settings delay should win when the flag is untouched")
}

func TestWatchRun_DrivesIndicatorFromStream(t *testing.T) {
	ios, _, _, errBuf := iostreams.Test()
	pr, pw := io.Pipe()
	ios.In = pr

	settings := config.DefaultSettings()
	settings.Delay = 5 * time.Millisecond
	settings.Progress = "plain"

	opts := &Options{
		IO:             ios,
		Settings:       func() (*config.Settings, error) { return settings, nil },
		SettingsLoader: func() (*config.Loader, error) { return config.NewLoaderAt(t.TempDir()), nil },
		NoReload:       true,
	}

	done := make(chan error, 1)
	go func() { done <- watchRun(opts) }()

	write := func(line string) {
		_, err := pw.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}

	write(`{"event":"start","label":"GET /reports"}`)
	time.Sleep(60 * time.Millisecond) // let the activation delay elapse
	write(`{"event":"progress","percentage":50}`)
	write(`{"event":"finish","outcome":"completed"}`)
	require.NoError(t, pw.Close())

	require.NoError(t, <-done)

	out := errBuf.String()
	assert.Contains(t, out, "[visit] 0%")
	assert.Contains(t, out, "[visit] 45%", "50%% upload maps to 45%% of the bar")
	assert.Contains(t, out, "[visit] done")
	assert.Contains(t, out, "1 visits: 1 completed, 0 interrupted, 0 cancelled")
}

func TestWatchRun_FastVisitStaysInvisible(t *testing.T) {
	ios, _, _, errBuf := iostreams.Test()
	ios.In = strings.NewReader(
		`{"event":"start"}` + "\n" + `{"event":"finish","outcome":"completed"}` + "\n")

	settings := config.DefaultSettings()
	settings.Progress = "plain" // default 250ms delay, events arrive instantly

	opts := &Options{
		IO:             ios,
		Settings:       func() (*config.Settings, error) { return settings, nil },
		SettingsLoader: func() (*config.Loader, error) { return config.NewLoaderAt(t.TempDir()), nil },
		NoReload:       true,
	}
	require.NoError(t, watchRun(opts))

	assert.NotContains(t, errBuf.String(), "[visit] 0%", "fast visits never flash the bar")
	assert.Contains(t, errBuf.String(), "1 visits: 1 completed")
}

func TestWatchRun_SettingsErrorPropagates(t *testing.T) {
	ios, _, _, _ := iostreams.Test()
	opts := &Options{
		IO:       ios,
		Settings: func() (*config.Settings, error) { return nil, assert.AnError },
	}
	require.ErrorIs(t, watchRun(opts), assert.AnError)
}

// recorder captures delivered events for consume tests.
type recorder struct {
	mu    sync.Mutex
	trace []string
}

func (r *recorder) HandleStart(p visit.StartPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = append(r.trace, "start:"+p.Visit.Label)
}

func (r *recorder) HandleProgress(p visit.ProgressPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Percentage == nil {
		r.trace = append(r.trace, "progress:none")
		return
	}
	r.trace = append(r.trace, "progress")
}

func (r *recorder) HandleFinish(p visit.FinishPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = append(r.trace, "finish:"+p.Outcome.String())
}

func TestConsume_ToleratesGarbage(t *testing.T) {
	rec := &recorder{}
	bus := visit.NewBus(rec)

	input := strings.Join([]string{
		`{"event":"start","label":"PUT /upload"}`,
		`not json at all`,
		``,
		`{"event":"progress"}`,
		`{"event":"finish","outcome":"exploded"}`,
		`{"event":"teleport"}`,
		`{"event":"finish","outcome":"cancelled"}`,
	}, "\n")

	require.NoError(t, consume(strings.NewReader(input), bus))
	bus.Close()

	assert.Equal(t, []string{
		"start:PUT /upload",
		"progress:none",
		"finish:cancelled",
	}, rec.trace)
}

func TestTally_CountsOutcomes(t *testing.T) {
	tl := &tally{}
	tl.HandleStart(visit.StartPayload{})
	tl.HandleStart(visit.StartPayload{})
	tl.HandleFinish(visit.FinishPayload{Outcome: visit.OutcomeInterrupted})
	tl.HandleFinish(visit.FinishPayload{Outcome: visit.OutcomeCompleted})

	assert.Equal(t, 2, tl.started)
	assert.Equal(t, 1, tl.completed)
	assert.Equal(t, 1, tl.interrupted)
	assert.Equal(t, 0, tl.cancelled)
}
