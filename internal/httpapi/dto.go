package httpapi

import (
	"time"

	"github.com/saiputravu/stockexchange/internal/book"
)

// orderTypeWire/directionWire map the internal enums back onto the
// Stockfighter-compatible wire vocabulary accepted on the way in.
func orderTypeWire(t book.OrderType) string {
	switch t {
	case book.Limit:
		return "limit"
	case book.Market:
		return "market"
	case book.FillOrKill:
		return "fill-or-kill"
	case book.ImmediateOrCancel:
		return "immediate-or-cancel"
	default:
		return "unknown"
	}
}

func directionWire(s book.Side) string {
	if s == book.Buy {
		return "buy"
	}
	return "sell"
}

type fillDTO struct {
	Price int64     `json:"price"`
	Qty   int64     `json:"qty"`
	TS    time.Time `json:"ts"`
}

// orderDTO is the JSON order-snapshot returned by ORDER/STATUS/CANCEL.
type orderDTO struct {
	OK          bool      `json:"ok"`
	Venue       string    `json:"venue"`
	Symbol      string    `json:"symbol"`
	Account     string    `json:"account"`
	Direction   string    `json:"direction"`
	OrderType   string    `json:"orderType"`
	ID          int64     `json:"id"`
	Price       int64     `json:"price"`
	OriginalQty int64     `json:"originalQty"`
	Qty         int64     `json:"qty"`
	TotalFilled int64     `json:"totalFilled"`
	Open        bool      `json:"open"`
	TS          time.Time `json:"ts"`
	Fills       []fillDTO `json:"fills"`
}

func newOrderDTO(venue, symbol string, s book.Snapshot) orderDTO {
	fills := make([]fillDTO, len(s.Fills))
	var totalFilled int64
	for i, f := range s.Fills {
		fills[i] = fillDTO{Price: f.Price, Qty: f.Qty, TS: f.Timestamp}
		totalFilled += f.Qty
	}
	return orderDTO{
		OK:          true,
		Venue:       venue,
		Symbol:      symbol,
		Account:     s.Account,
		Direction:   directionWire(s.Side),
		OrderType:   orderTypeWire(s.Type),
		ID:          s.ID,
		Price:       s.Price,
		OriginalQty: s.OriginalQty,
		Qty:         s.QtyOpen,
		TotalFilled: totalFilled,
		Open:        s.IsOpen,
		TS:          s.TsCreated,
		Fills:       fills,
	}
}

type depthLevelDTO struct {
	Price int64 `json:"price"`
	Qty   int64 `json:"qty"`
	IsBuy bool  `json:"isBuy"`
}

type orderbookDTO struct {
	OK     bool            `json:"ok"`
	Venue  string          `json:"venue"`
	Symbol string          `json:"symbol"`
	Bids   []depthLevelDTO `json:"bids"`
	Asks   []depthLevelDTO `json:"asks"`
	TS     time.Time       `json:"ts"`
}

func newOrderbookDTO(venue, symbol string, d book.DepthSnapshot) orderbookDTO {
	bids := make([]depthLevelDTO, len(d.Bids))
	for i, lvl := range d.Bids {
		bids[i] = depthLevelDTO{Price: lvl.Price, Qty: lvl.Qty, IsBuy: true}
	}
	asks := make([]depthLevelDTO, len(d.Asks))
	for i, lvl := range d.Asks {
		asks[i] = depthLevelDTO{Price: lvl.Price, Qty: lvl.Qty, IsBuy: false}
	}
	return orderbookDTO{OK: true, Venue: venue, Symbol: symbol, Bids: bids, Asks: asks, TS: d.Ts}
}

type quoteDTO struct {
	OK        bool       `json:"ok"`
	Venue     string     `json:"venue"`
	Symbol    string     `json:"symbol"`
	Bid       *int64     `json:"bid,omitempty"`
	BidSize   *int64     `json:"bidSize,omitempty"`
	BidDepth  *int64     `json:"bidDepth,omitempty"`
	Ask       *int64     `json:"ask,omitempty"`
	AskSize   *int64     `json:"askSize,omitempty"`
	AskDepth  *int64     `json:"askDepth,omitempty"`
	Last      *int64     `json:"last,omitempty"`
	LastSize  *int64     `json:"lastSize,omitempty"`
	LastTrade *time.Time `json:"lastTrade,omitempty"`
	QuoteTime time.Time  `json:"quoteTime"`
}

func newQuoteDTO(venue, symbol string, q book.QuoteSnapshot) quoteDTO {
	dto := quoteDTO{OK: true, Venue: venue, Symbol: symbol, QuoteTime: q.Ts}
	if q.HasBid {
		dto.Bid = &q.BidPrice
		dto.BidSize = &q.BidSize
		dto.BidDepth = &q.BidDepth
	}
	if q.HasAsk {
		dto.Ask = &q.AskPrice
		dto.AskSize = &q.AskSize
		dto.AskDepth = &q.AskDepth
	}
	if q.HasLastTrade {
		dto.Last = &q.LastPrice
		dto.LastSize = &q.LastQty
		dto.LastTrade = &q.LastTs
	}
	return dto
}

type venueDTO struct {
	Name  string `json:"name"`
	Venue string `json:"venue"`
	State string `json:"state"`
}

type symbolDTO struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type debugDTO struct {
	OK     bool   `json:"ok"`
	Venue  string `json:"venue"`
	Symbol string `json:"symbol"`
	Orders int    `json:"orders"`
	Fills  int    `json:"fills"`
	Trades int64  `json:"trades"`
}
