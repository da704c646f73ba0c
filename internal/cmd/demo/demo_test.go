package demo

import (
	"io"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/transit/internal/cmdutil"
	"github.com/schmitthub/transit/internal/config"
	"github.com/schmitthub/transit/internal/iostreams"
	"github.com/schmitthub/transit/pkg/visit"
)

func TestScenario_Known(t *testing.T) {
	for _, name := range ScenarioNames() {
		steps, err := Scenario(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, steps, name)
	}
}

func TestScenario_Unknown(t *testing.T) {
	_, err := Scenario("warp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warp")
	assert.Contains(t, err.Error(), "completed", "error lists available scenarios")
}

func TestScenarioNames_Sorted(t *testing.T) {
	names := ScenarioNames()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "fast")
	assert.Contains(t, names, "upload")
}

func TestNewCmdDemo_Flags(t *testing.T) {
	var got *Options
	cmd := NewCmdDemo(&cmdutil.Factory{}, func(opts *Options) error {
		got = opts
		return nil
	})
	cmd.SetArgs([]string{"--scenario", "upload", "--tui"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "upload", got.Scenario)
	assert.True(t, got.TUI)
}

func TestDemoRun_UnknownScenario(t *testing.T) {
	ios, _, _, _ := iostreams.Test()
	opts := &Options{
		IO:       ios,
		Settings: func() (*config.Settings, error) { return config.DefaultSettings(), nil },
		Scenario: "warp",
	}
	require.Error(t, demoRun(opts))
}

func TestDemoRun_FastScenarioStaysInvisible(t *testing.T) {
	ios, _, _, errBuf := iostreams.Test()
	settings := config.DefaultSettings()
	settings.Progress = "plain"

	opts := &Options{
		IO:       ios,
		Settings: func() (*config.Settings, error) { return settings, nil },
		Scenario: "fast",
	}
	require.NoError(t, demoRun(opts))

	out := errBuf.String()
	assert.NotContains(t, out, "[visit]", "the bar must never appear for a fast visit")
	assert.Contains(t, out, `scenario "fast" finished`)
}

func TestDemoRun_CancelledScenario(t *testing.T) {
	ios, _, _, errBuf := iostreams.Test()
	settings := config.DefaultSettings()
	settings.Progress = "plain"
	settings.Delay = 20 * time.Millisecond

	opts := &Options{
		IO:       ios,
		Settings: func() (*config.Settings, error) { return settings, nil },
		Scenario: "cancelled",
	}
	require.NoError(t, demoRun(opts))

	out := errBuf.String()
	assert.Contains(t, out, "[visit] 0%", "bar activates once the delay elapses")
	assert.Contains(t, out, "[visit] done", "cancellation still drives the bar to completion")
}

// recorder captures script publishes for ordering assertions.
type recorder struct {
	trace []string
}

func (r *recorder) HandleStart(visit.StartPayload) {
	r.trace = append(r.trace, "start")
}

func (r *recorder) HandleProgress(visit.ProgressPayload) {
	r.trace = append(r.trace, "progress")
}

func (r *recorder) HandleFinish(p visit.FinishPayload) {
	r.trace = append(r.trace, "finish:"+p.Outcome.String())
}

func TestRunScript_PublishesInOrder(t *testing.T) {
	rec := &recorder{}
	bus := visit.NewBus(rec)

	RunScript(bus, []Step{
		{Publish: start("GET /a")},
		{Publish: progress(10)},
		{Publish: finish(visit.OutcomeCompleted)},
	})
	bus.Close()

	assert.Equal(t, []string{"start", "progress", "finish:completed"}, rec.trace)
}
