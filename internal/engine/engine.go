// Package engine demultiplexes commands onto a single order book. Per
// spec.md §9, the teacher's subprocess-per-book + text-pipe design collapses
// into an in-process dispatcher goroutine per book, reading off a buffered
// mailbox channel so that commands are processed strictly one at a time and
// in arrival order (spec.md §4.3, §5). Lifecycle is supervised with
// gopkg.in/tomb.v2, continuing the teacher's internal/net/server.go idiom.
package engine

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"github.com/saiputravu/stockexchange/internal/book"
)

// ErrStopped is returned to any command that arrives after the engine has
// been told to stop.
var ErrStopped = errors.New("engine: stopped")

// Engine owns exactly one order book and serializes all access to it
// through a single dispatcher goroutine.
type Engine struct {
	Venue  string
	Symbol string

	book    *book.OrderBook
	mailbox chan request
	t       tomb.Tomb
}

type request struct {
	op   func(*book.OrderBook)
	done chan struct{}
}

// New creates and starts the dispatcher goroutine for a fresh book.
func New(venue, symbol string) *Engine {
	e := &Engine{
		Venue:   venue,
		Symbol:  symbol,
		book:    book.New(venue, symbol),
		mailbox: make(chan request, 64),
	}
	e.t.Go(e.run)
	return e
}

func (e *Engine) run() error {
	log.Debug().Str("venue", e.Venue).Str("symbol", e.Symbol).Msg("engine dispatcher starting")
	for {
		select {
		case <-e.t.Dying():
			return nil
		case req := <-e.mailbox:
			req.op(e.book)
			close(req.done)
		}
	}
}

// Stop tells the dispatcher goroutine to exit after its current command.
func (e *Engine) Stop() {
	e.t.Kill(nil)
}

// submit hands one operation to the dispatcher and blocks until it has run
// to completion, enforcing the one-command-at-a-time contract from the
// caller's perspective regardless of how many goroutines call in
// concurrently (spec.md §5).
func (e *Engine) submit(ctx context.Context, op func(*book.OrderBook)) error {
	done := make(chan struct{})
	req := request{op: op, done: done}

	select {
	case e.mailbox <- req:
	case <-e.t.Dying():
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-e.t.Dead():
		// The dispatcher closes done before it exits, so an operation that
		// ran is still reported as a success.
		select {
		case <-done:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Place dispatches ORDER.
func (e *Engine) Place(ctx context.Context, in book.PlaceInput) (book.Snapshot, error) {
	var out book.Snapshot
	err := e.submit(ctx, func(b *book.OrderBook) {
		out = b.Place(in)
	})
	return out, err
}

// Cancel dispatches CANCEL.
func (e *Engine) Cancel(ctx context.Context, orderID int64) (book.Snapshot, error) {
	var out book.Snapshot
	var opErr error
	err := e.submit(ctx, func(b *book.OrderBook) {
		out, opErr = b.Cancel(orderID)
	})
	if err != nil {
		return book.Snapshot{}, err
	}
	return out, opErr
}

// Status dispatches STATUS.
func (e *Engine) Status(ctx context.Context, orderID int64) (book.Snapshot, error) {
	var out book.Snapshot
	var opErr error
	err := e.submit(ctx, func(b *book.OrderBook) {
		out, opErr = b.Status(orderID)
	})
	if err != nil {
		return book.Snapshot{}, err
	}
	return out, opErr
}

// AccountOf dispatches __ACC_FROM_ID__.
func (e *Engine) AccountOf(ctx context.Context, orderID int64) (string, error) {
	var out string
	var opErr error
	err := e.submit(ctx, func(b *book.OrderBook) {
		out, opErr = b.AccountOf(orderID)
	})
	if err != nil {
		return "", err
	}
	return out, opErr
}

// Orderbook dispatches ORDERBOOK.
func (e *Engine) Orderbook(ctx context.Context) (book.DepthSnapshot, error) {
	var out book.DepthSnapshot
	err := e.submit(ctx, func(b *book.OrderBook) {
		out = b.OrderbookSnapshot()
	})
	return out, err
}

// Quote dispatches QUOTE.
func (e *Engine) Quote(ctx context.Context) (book.QuoteSnapshot, error) {
	var out book.QuoteSnapshot
	err := e.submit(ctx, func(b *book.OrderBook) {
		out = b.QuoteSnapshot()
	})
	return out, err
}

// DebugInfo is the implementation-defined diagnostic payload for
// __DEBUG_MEMORY__ (spec.md §4.3, §9 supplemented features).
type DebugInfo struct {
	Orders int
	Fills  int
	Trades int64
}

// DebugMemory dispatches __DEBUG_MEMORY__.
func (e *Engine) DebugMemory(ctx context.Context) (DebugInfo, error) {
	var out DebugInfo
	err := e.submit(ctx, func(b *book.OrderBook) {
		orders, fills, trades := b.DebugMemory()
		out = DebugInfo{Orders: orders, Fills: fills, Trades: trades}
	})
	return out, err
}
