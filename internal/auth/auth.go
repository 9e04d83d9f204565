// Package auth loads and checks the API-key file (C8, spec.md §6).
// Accounts are checked against the X-Starfighter-Authorization header, with
// a fallback to the legacy X-Stockfighter-Authorization header, matching
// original_source/disorderCook_front.py's api_key_from_headers.
package auth

import (
	"encoding/json"
	"net/http"
	"os"
)

const (
	headerCurrent = "X-Starfighter-Authorization"
	headerLegacy  = "X-Stockfighter-Authorization"
)

// Store is an account -> API key map. A nil or empty Store means
// authentication is disabled entirely.
type Store map[string]string

// Load reads a JSON dict of account name -> API key from path. An empty
// path returns an empty, disabled store.
func Load(path string) (Store, error) {
	if path == "" {
		return Store{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, err
	}
	return store, nil
}

// Enabled reports whether authentication is in effect.
func (s Store) Enabled() bool {
	return len(s) > 0
}

// KeyFromHeaders extracts the API key from whichever of the two supported
// headers is present.
func KeyFromHeaders(h http.Header) (string, bool) {
	if v := h.Get(headerCurrent); v != "" {
		return v, true
	}
	if v := h.Get(headerLegacy); v != "" {
		return v, true
	}
	return "", false
}

// Check reports whether apiKey is the correct key for account. It returns
// false for unknown accounts.
func (s Store) Check(account, apiKey string) bool {
	want, ok := s[account]
	if !ok {
		return false
	}
	return want == apiKey
}

// Known reports whether account has a registered key.
func (s Store) Known(account string) bool {
	_, ok := s[account]
	return ok
}
