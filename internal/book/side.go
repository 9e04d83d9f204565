package book

import "github.com/tidwall/btree"

// bookSide is one side (bids or asks) of an order book: a price-ordered
// collection of price levels. Only non-empty levels are kept; a level is
// deleted from the tree as soon as it empties out.
//
// Grounded on the teacher's internal/engine/orderbook.go PriceLevels, which
// keeps bids/asks as btree.BTreeG[*PriceLevel] trees with a side-specific
// comparator (greatest-first for bids, least-first for asks).
type bookSide struct {
	side   Side
	levels *btree.BTreeG[*priceLevel]
}

func newBookSide(side Side) *bookSide {
	var less func(a, b *priceLevel) bool
	if side == Buy {
		less = func(a, b *priceLevel) bool { return a.price > b.price }
	} else {
		less = func(a, b *priceLevel) bool { return a.price < b.price }
	}
	return &bookSide{
		side:   side,
		levels: btree.NewBTreeG(less),
	}
}

// best returns the best (first-priority) non-empty level, or nil.
func (s *bookSide) best() *priceLevel {
	lvl, ok := s.levels.Min()
	if !ok {
		return nil
	}
	return lvl
}

// getOrCreate returns the level at price, creating it if absent.
func (s *bookSide) getOrCreate(price int64) *priceLevel {
	lvl, ok := s.levels.Get(&priceLevel{price: price})
	if ok {
		return lvl
	}
	lvl = newPriceLevel(price)
	s.levels.Set(lvl)
	return lvl
}

// dropIfEmpty removes lvl from the tree if it has no more resting orders.
func (s *bookSide) dropIfEmpty(lvl *priceLevel) {
	if lvl.isEmpty() {
		s.levels.Delete(lvl)
	}
}

// crosses reports whether a resting level at levelPrice would trade against
// an incoming order on the opposite side with the given limit, for order
// types that carry a real limit (LIMIT, FOK, IOC). MARKET orders cross
// everything and never call this.
func crosses(aggressorSide Side, aggressorPrice, levelPrice int64) bool {
	if aggressorSide == Buy {
		return levelPrice <= aggressorPrice
	}
	return levelPrice >= aggressorPrice
}

// depth returns (price, total qty) pairs, best-first.
func (s *bookSide) depth() []DepthLevel {
	var out []DepthLevel
	s.levels.Scan(func(lvl *priceLevel) bool {
		out = append(out, DepthLevel{Price: lvl.price, Qty: lvl.totalQty()})
		return true
	})
	return out
}

// totalDepth sums resting quantity across every level on this side, not
// just the best one.
func (s *bookSide) totalDepth() int64 {
	var total int64
	s.levels.Scan(func(lvl *priceLevel) bool {
		total += lvl.totalQty()
		return true
	})
	return total
}
