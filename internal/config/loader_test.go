package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	l := NewLoaderAt(t.TempDir())

	s, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, s.Delay)
	assert.Equal(t, "#29d", s.Color)
	assert.True(t, s.IncludeDefaultStyling)
	assert.True(t, s.ShowSpinner)
	assert.Equal(t, "auto", s.Progress)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
delay: 500ms
color: "#f80"
show_spinner: false
progress: plain
logging:
  max_size_mb: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(content), 0o644))

	l := NewLoaderAt(dir)
	s, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, s.Delay)
	assert.Equal(t, "#f80", s.Color)
	assert.False(t, s.ShowSpinner)
	assert.True(t, s.IncludeDefaultStyling, "unset keys keep defaults")
	assert.Equal(t, "plain", s.Progress)
	assert.Equal(t, 5, s.Logging.MaxSizeMB)
}

func TestLoad_InvalidProgressMode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName),
		[]byte("progress: sideways\n"), 0o644))

	_, err := NewLoaderAt(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "progress mode")
}

func TestLoad_NegativeDelay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName),
		[]byte("delay: -10ms\n"), 0o644))

	_, err := NewLoaderAt(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delay")
}

func TestWrite_RoundTrip(t *testing.T) {
	l := NewLoaderAt(filepath.Join(t.TempDir(), "nested"))

	in := DefaultSettings()
	in.Delay = 100 * time.Millisecond
	in.Color = "63"
	require.NoError(t, l.Write(in))
	require.True(t, l.Exists())

	out, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, out.Delay)
	assert.Equal(t, "63", out.Color)
}

func TestWrite_RejectsInvalidSettings(t *testing.T) {
	l := NewLoaderAt(t.TempDir())
	s := DefaultSettings()
	s.Progress = "bogus"
	require.Error(t, l.Write(s))
}

func TestNewLoader_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnvVar, dir)

	l, err := NewLoader()
	require.NoError(t, err)
	assert.Equal(t, dir, l.Dir())
	assert.Equal(t, filepath.Join(dir, "logs"), l.LogsDir())
}

func TestWatch_RequiresExistingFile(t *testing.T) {
	l := NewLoaderAt(t.TempDir())
	require.Error(t, l.Watch(nil))
}
