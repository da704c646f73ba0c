package visit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "completed", OutcomeCompleted.String())
	assert.Equal(t, "interrupted", OutcomeInterrupted.String())
	assert.Equal(t, "cancelled", OutcomeCancelled.String())
	assert.Equal(t, "outcome(7)", Outcome(7).String())
}

func TestParseOutcome(t *testing.T) {
	o, err := ParseOutcome("interrupted")
	require.NoError(t, err)
	assert.Equal(t, OutcomeInterrupted, o)

	_, err = ParseOutcome("exploded")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exploded")
}

func TestOutcome_JSON(t *testing.T) {
	data, err := json.Marshal(OutcomeCancelled)
	require.NoError(t, err)
	assert.Equal(t, `"cancelled"`, string(data))

	var o Outcome
	require.NoError(t, json.Unmarshal([]byte(`"interrupted"`), &o))
	assert.Equal(t, OutcomeInterrupted, o)

	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &o))
	assert.Error(t, json.Unmarshal([]byte(`42`), &o))
}

func TestNew(t *testing.T) {
	a := New("GET /dashboard")
	b := New("GET /dashboard")

	assert.Equal(t, "GET /dashboard", a.Label)
	assert.NotEqual(t, a.ID, b.ID, "each visit gets its own ID")
	assert.False(t, a.StartedAt.IsZero())
}
