package cmdutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/transit/internal/iostreams"
)

func TestNew_SettingsAreCached(t *testing.T) {
	t.Setenv("TRANSIT_CONFIG_DIR", t.TempDir())

	f := New("1.0.0", "2026-08-26")

	first, err := f.Settings()
	require.NoError(t, err)
	second, err := f.Settings()
	require.NoError(t, err)

	assert.Same(t, first, second, "settings load once per process")
	assert.Equal(t, "1.0.0", f.Version)
}

func TestPrintHelpHint(t *testing.T) {
	ios, _, _, errBuf := iostreams.Test()
	PrintHelpHint(ios, "transit watch")
	assert.Contains(t, errBuf.String(), "Run 'transit watch --help'")
}
