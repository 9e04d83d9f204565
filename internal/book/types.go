// Package book implements the per-symbol matching engine: the price-ordered
// order book, the four order types, and the trade/fill record model.
package book

import "time"

// Side is which side of the book an order rests on or crosses into.
type Side int

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType is one of the four order types this engine supports.
type OrderType int

const (
	Limit OrderType = iota + 1
	Market
	FillOrKill
	ImmediateOrCancel
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "limit"
	case Market:
		return "market"
	case FillOrKill:
		return "fill-or-kill"
	case ImmediateOrCancel:
		return "immediate-or-cancel"
	default:
		return "unknown"
	}
}

// Fill is one half of a trade, attached to the order it belongs to.
type Fill struct {
	Price          int64
	Qty            int64
	Timestamp      time.Time
	CounterpartyID int64
}

// Order is a single order accepted by a book. ID is assigned at
// acceptance and is strictly increasing within one book.
type Order struct {
	ID          int64
	Account     string
	Side        Side
	Type        OrderType
	Price       int64 // ignored for Market
	OriginalQty int64
	QtyOpen     int64
	IsOpen      bool
	TsCreated   time.Time
	TsLastFill  time.Time
	Fills       []Fill
}

// Snapshot is the immutable view of an Order returned to clients. It is a
// deep copy, safe to hold onto after the book has moved on.
type Snapshot struct {
	ID          int64
	Account     string
	Side        Side
	Type        OrderType
	Price       int64
	OriginalQty int64
	QtyOpen     int64
	IsOpen      bool
	TsCreated   time.Time
	TsLastFill  time.Time
	Fills       []Fill
}

func (o *Order) snapshot() Snapshot {
	fills := make([]Fill, len(o.Fills))
	copy(fills, o.Fills)
	return Snapshot{
		ID:          o.ID,
		Account:     o.Account,
		Side:        o.Side,
		Type:        o.Type,
		Price:       o.Price,
		OriginalQty: o.OriginalQty,
		QtyOpen:     o.QtyOpen,
		IsOpen:      o.IsOpen,
		TsCreated:   o.TsCreated,
		TsLastFill:  o.TsLastFill,
		Fills:       fills,
	}
}

// PlaceInput is what a caller supplies to Place. The front end (or tests)
// are expected to have already validated these fields; the book asserts on
// the invariants it requires rather than returning validation errors.
type PlaceInput struct {
	Account string
	Side    Side
	Type    OrderType
	Price   int64
	Qty     int64
}

// DepthLevel is one row of an order-book depth snapshot.
type DepthLevel struct {
	Price int64
	Qty   int64
}

// DepthSnapshot is the full two-sided depth view returned by ORDERBOOK.
type DepthSnapshot struct {
	Bids []DepthLevel
	Asks []DepthLevel
	Ts   time.Time
}

// QuoteSnapshot is the top-of-book summary returned by QUOTE.
type QuoteSnapshot struct {
	BidPrice     int64
	BidSize      int64
	BidDepth     int64
	HasBid       bool
	AskPrice     int64
	AskSize      int64
	AskDepth     int64
	HasAsk       bool
	LastPrice    int64
	LastQty      int64
	LastTs       time.Time
	HasLastTrade bool
	Ts           time.Time
}

// Position is one account's running cash/shares delta within a book.
type Position struct {
	CashDelta int64
	Shares    int64
}
