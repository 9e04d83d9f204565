// Package registry implements the process-wide (venue, symbol) -> engine
// mapping (C4, spec.md §4.4), replacing the teacher's ad hoc global maps
// with a single server-context value passed explicitly to handlers, per the
// "global mutable state" redesign note in spec.md §9.
package registry

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/saiputravu/stockexchange/internal/engine"
)

// ErrBookLimit is returned when GetOrCreate would exceed the configured cap.
var ErrBookLimit = errors.New("registry: book limit exceeded")

type key struct {
	venue, symbol string
}

// Registry is a process-wide, lock-guarded (venue, symbol) -> *engine.Engine
// map with a configurable upper bound on total books. Book creation is not
// reversible; a book is never removed while the process lives (spec.md
// §4.4).
type Registry struct {
	mu       sync.Mutex
	books    map[key]*engine.Engine
	maxBooks int // 0 means unlimited
}

// New creates an empty registry. maxBooks <= 0 means no cap.
func New(maxBooks int) *Registry {
	return &Registry{
		books:    make(map[key]*engine.Engine),
		maxBooks: maxBooks,
	}
}

// GetOrCreate returns the existing engine for (venue, symbol), or creates
// one if the cap allows it. The existence check and the insert happen
// under the same lock, so concurrent callers racing to create the same
// book never create two.
func (r *Registry) GetOrCreate(venue, symbol string) (*engine.Engine, error) {
	k := key{venue, symbol}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.books[k]; ok {
		return e, nil
	}
	if r.maxBooks > 0 && len(r.books) >= r.maxBooks {
		return nil, ErrBookLimit
	}

	e := engine.New(venue, symbol)
	r.books[k] = e
	log.Info().Str("venue", venue).Str("symbol", symbol).Int("bookCount", len(r.books)).Msg("book created")
	return e, nil
}

// Lookup returns the engine for (venue, symbol) without creating it.
func (r *Registry) Lookup(venue, symbol string) (*engine.Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.books[key{venue, symbol}]
	return e, ok
}

// VenueExists reports whether any book has been created under venue.
func (r *Registry) VenueExists(venue string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.books {
		if k.venue == venue {
			return true
		}
	}
	return false
}

// Venues lists all distinct venues that have at least one book.
func (r *Registry) Venues() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for k := range r.books {
		if !seen[k.venue] {
			seen[k.venue] = true
			out = append(out, k.venue)
		}
	}
	return out
}

// Symbols lists the symbols with a book under venue.
func (r *Registry) Symbols(venue string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for k := range r.books {
		if k.venue == venue {
			out = append(out, k.symbol)
		}
	}
	return out
}
