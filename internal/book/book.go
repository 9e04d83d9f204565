package book

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by Cancel/Status/AccountOf for an unknown order id.
var ErrNotFound = errors.New("book: no such order")

// OrderBook is the matching context for a single (venue, symbol) pair. It
// aggregates both sides of the book, the order/fill registry, and the
// per-account position ledger (spec.md §3).
//
// The concurrency contract (spec.md §5) is that exactly one goroutine — the
// owning engine's dispatcher (internal/engine) — calls into a given
// OrderBook. Every exported method still takes the mutex below, so a call
// from outside that dispatcher is also safe; in normal operation the lock is
// never contended because there is only ever one caller.
type OrderBook struct {
	mu sync.Mutex

	Venue  string
	Symbol string

	bids *bookSide
	asks *bookSide

	ordersByID map[int64]*Order
	nextID     int64

	tradeCount     int64
	lastTradePrice int64
	lastTradeQty   int64
	lastTradeTs    time.Time
	hasLastTrade   bool

	accounts map[string]*Position
}

// New creates an empty order book for one (venue, symbol) pair.
func New(venue, symbol string) *OrderBook {
	return &OrderBook{
		Venue:      venue,
		Symbol:     symbol,
		bids:       newBookSide(Buy),
		asks:       newBookSide(Sell),
		ordersByID: make(map[int64]*Order),
		accounts:   make(map[string]*Position),
	}
}

// Place accepts a new order, runs the matching algorithm against it, and
// returns a snapshot of the resulting order. See spec.md §4.2 for the full
// algorithm this implements.
func (b *OrderBook) Place(in PlaceInput) Snapshot {
	if in.Qty < 1 || in.Price < 0 || (in.Side != Buy && in.Side != Sell) ||
		in.Type < Limit || in.Type > ImmediateOrCancel {
		panic("book: invalid PlaceInput")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	o := &Order{
		ID:          b.nextID,
		Account:     in.Account,
		Side:        in.Side,
		Type:        in.Type,
		Price:       in.Price,
		OriginalQty: in.Qty,
		QtyOpen:     in.Qty,
		IsOpen:      true,
		TsCreated:   now,
	}
	b.nextID++
	b.ordersByID[o.ID] = o

	b.match(o)

	return o.snapshot()
}

// Cancel marks an order closed and removes it from its resting level, if
// any. Idempotent: cancelling an already-closed order is a no-op.
func (b *OrderBook) Cancel(orderID int64) (Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.ordersByID[orderID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	if o.IsOpen {
		var side *bookSide
		if o.Side == Buy {
			side = b.bids
		} else {
			side = b.asks
		}
		if lvl, ok := side.levels.Get(&priceLevel{price: o.Price}); ok {
			lvl.remove(o.ID)
			side.dropIfEmpty(lvl)
		}
		o.IsOpen = false
	}
	return o.snapshot(), nil
}

// Status is a pure read of an order's current snapshot.
func (b *OrderBook) Status(orderID int64) (Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.ordersByID[orderID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return o.snapshot(), nil
}

// AccountOf returns the owning account of an order, used by the front end
// to authorize STATUS/CANCEL before performing the real operation.
func (b *OrderBook) AccountOf(orderID int64) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.ordersByID[orderID]
	if !ok {
		return "", ErrNotFound
	}
	return o.Account, nil
}

// OrderbookSnapshot returns the current depth view of both sides.
func (b *OrderBook) OrderbookSnapshot() DepthSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return DepthSnapshot{
		Bids: b.bids.depth(),
		Asks: b.asks.depth(),
		Ts:   time.Now(),
	}
}

// QuoteSnapshot returns the top-of-book quote plus last-trade summary.
func (b *OrderBook) QuoteSnapshot() QuoteSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := QuoteSnapshot{Ts: time.Now()}

	if lvl := b.bids.best(); lvl != nil {
		q.HasBid = true
		q.BidPrice = lvl.price
		q.BidSize = lvl.totalQty()
		q.BidDepth = b.bids.totalDepth()
	}
	if lvl := b.asks.best(); lvl != nil {
		q.HasAsk = true
		q.AskPrice = lvl.price
		q.AskSize = lvl.totalQty()
		q.AskDepth = b.asks.totalDepth()
	}
	if b.hasLastTrade {
		q.HasLastTrade = true
		q.LastPrice = b.lastTradePrice
		q.LastQty = b.lastTradeQty
		q.LastTs = b.lastTradeTs
	}
	return q
}

// DebugMemory reports implementation-defined diagnostics for the extras
// commands (spec.md §4.3, §9 supplemented features).
func (b *OrderBook) DebugMemory() (orders int, fills int, trades int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	orders = len(b.ordersByID)
	for _, o := range b.ordersByID {
		fills += len(o.Fills)
	}
	return orders, fills, b.tradeCount
}

// match runs the aggressive-order matching algorithm for a newly accepted
// order (spec.md §4.2). Caller must hold b.mu.
func (b *OrderBook) match(a *Order) {
	opposite := b.sideOf(a.Side.Opposite())

	if a.Type == FillOrKill {
		if b.available(opposite, a) < a.QtyOpen {
			a.QtyOpen = 0
			a.IsOpen = false
			return
		}
	}

	for a.QtyOpen > 0 {
		lvl := opposite.best()
		if lvl == nil {
			break
		}
		if a.Type != Market && !crosses(a.Side, a.Price, lvl.price) {
			break
		}

		for a.QtyOpen > 0 && !lvl.isEmpty() {
			resting := lvl.peekFront()
			qty := min64(a.QtyOpen, resting.QtyOpen)
			price := resting.Price
			now := time.Now()

			a.QtyOpen -= qty
			resting.QtyOpen -= qty
			lvl.adjust(qty)

			a.Fills = append(a.Fills, Fill{Price: price, Qty: qty, Timestamp: now, CounterpartyID: resting.ID})
			resting.Fills = append(resting.Fills, Fill{Price: price, Qty: qty, Timestamp: now, CounterpartyID: a.ID})
			a.TsLastFill = now
			resting.TsLastFill = now

			b.lastTradePrice = price
			b.lastTradeQty = qty
			b.lastTradeTs = now
			b.hasLastTrade = true
			b.tradeCount++

			b.applyFill(a, resting, price, qty)

			if resting.QtyOpen == 0 {
				resting.IsOpen = false
				lvl.popFront()
			}
		}

		opposite.dropIfEmpty(lvl)
	}

	if a.QtyOpen == 0 {
		a.IsOpen = false
		return
	}

	switch a.Type {
	case Limit:
		side := b.sideOf(a.Side)
		lvl := side.getOrCreate(a.Price)
		lvl.append(a)
		a.IsOpen = true
	case Market, ImmediateOrCancel:
		a.QtyOpen = 0
		a.IsOpen = false
	case FillOrKill:
		// Unreachable: the pre-check above guarantees either a full fill or
		// zero fills for FOK orders.
	}
}

// available sums the opposing side's quantity reachable by aggressor a,
// used for the FOK pre-check.
func (b *OrderBook) available(opposite *bookSide, a *Order) int64 {
	var total int64
	opposite.levels.Scan(func(lvl *priceLevel) bool {
		if a.Type != Market && !crosses(a.Side, a.Price, lvl.price) {
			return false
		}
		total += lvl.totalQty()
		return true
	})
	return total
}

func (b *OrderBook) sideOf(s Side) *bookSide {
	if s == Buy {
		return b.bids
	}
	return b.asks
}

// applyFill updates both counterparties' account positions for one trade.
// Buyer pays cash and receives shares; seller is symmetric. Uses int64
// throughout per spec.md §4.2's numeric semantics note.
func (b *OrderBook) applyFill(a, resting *Order, price, qty int64) {
	var buyer, seller *Order
	if a.Side == Buy {
		buyer, seller = a, resting
	} else {
		buyer, seller = resting, a
	}

	cash := price * qty
	bp := b.positionOf(buyer.Account)
	bp.CashDelta -= cash
	bp.Shares += qty

	sp := b.positionOf(seller.Account)
	sp.CashDelta += cash
	sp.Shares -= qty
}

func (b *OrderBook) positionOf(account string) *Position {
	p, ok := b.accounts[account]
	if !ok {
		p = &Position{}
		b.accounts[account] = p
	}
	return p
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
