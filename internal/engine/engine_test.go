package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputravu/stockexchange/internal/book"
)

func TestPlaceAndStatusRoundTrip(t *testing.T) {
	e := New("TESTEX", "FOOBAR")
	defer e.Stop()

	ctx := context.Background()
	snap, err := e.Place(ctx, book.PlaceInput{Account: "A", Side: book.Buy, Type: book.Limit, Price: 10, Qty: 5})
	require.NoError(t, err)
	assert.True(t, snap.IsOpen)

	got, err := e.Status(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestCancelIsIdempotent(t *testing.T) {
	e := New("TESTEX", "FOOBAR")
	defer e.Stop()

	ctx := context.Background()
	snap, err := e.Place(ctx, book.PlaceInput{Account: "A", Side: book.Buy, Type: book.Limit, Price: 10, Qty: 5})
	require.NoError(t, err)

	first, err := e.Cancel(ctx, snap.ID)
	require.NoError(t, err)
	second, err := e.Cancel(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAccountOfUnknownOrder(t *testing.T) {
	e := New("TESTEX", "FOOBAR")
	defer e.Stop()

	_, err := e.AccountOf(context.Background(), 12345)
	assert.ErrorIs(t, err, book.ErrNotFound)
}

// TestSerializesConcurrentCommands exercises the spec.md §5 contract:
// concurrent callers must still observe a single total command order
// against the book, so every order gets its own ID with no duplicates.
func TestSerializesConcurrentCommands(t *testing.T) {
	e := New("TESTEX", "FOOBAR")
	defer e.Stop()

	const n = 50
	ids := make([]int64, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			snap, err := e.Place(context.Background(), book.PlaceInput{
				Account: "A", Side: book.Buy, Type: book.Limit, Price: 10, Qty: 1,
			})
			require.NoError(t, err)
			ids[i] = snap.ID
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "order id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
