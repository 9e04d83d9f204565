package auth

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathDisablesAuth(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.False(t, s.Enabled())
}

func TestLoadAndCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bob":"secret"}`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.True(t, s.Enabled())
	assert.True(t, s.Check("bob", "secret"))
	assert.False(t, s.Check("bob", "wrong"))
	assert.False(t, s.Check("nobody", "secret"))
}

func TestKeyFromHeadersFallsBackToLegacy(t *testing.T) {
	h := http.Header{}
	h.Set("X-Stockfighter-Authorization", "legacy-key")
	key, ok := KeyFromHeaders(h)
	assert.True(t, ok)
	assert.Equal(t, "legacy-key", key)

	h2 := http.Header{}
	h2.Set("X-Starfighter-Authorization", "new-key")
	key2, ok2 := KeyFromHeaders(h2)
	assert.True(t, ok2)
	assert.Equal(t, "new-key", key2)
}
