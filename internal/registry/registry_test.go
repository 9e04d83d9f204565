package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateReturnsSameEngine(t *testing.T) {
	r := New(0)
	e1, err := r.GetOrCreate("TESTEX", "FOOBAR")
	require.NoError(t, err)
	e2, err := r.GetOrCreate("TESTEX", "FOOBAR")
	require.NoError(t, err)
	assert.Same(t, e1, e2)
}

func TestBookCapIsEnforced(t *testing.T) {
	r := New(1)
	_, err := r.GetOrCreate("TESTEX", "FOOBAR")
	require.NoError(t, err)

	_, err = r.GetOrCreate("TESTEX", "OTHER")
	assert.ErrorIs(t, err, ErrBookLimit)

	// Re-fetching the existing book never hits the cap.
	_, err = r.GetOrCreate("TESTEX", "FOOBAR")
	assert.NoError(t, err)
}

func TestVenuesAndSymbols(t *testing.T) {
	r := New(0)
	_, err := r.GetOrCreate("TESTEX", "FOOBAR")
	require.NoError(t, err)
	_, err = r.GetOrCreate("TESTEX", "OTHER")
	require.NoError(t, err)

	assert.True(t, r.VenueExists("TESTEX"))
	assert.False(t, r.VenueExists("NOPE"))
	assert.ElementsMatch(t, []string{"TESTEX"}, r.Venues())
	assert.ElementsMatch(t, []string{"FOOBAR", "OTHER"}, r.Symbols("TESTEX"))
}
