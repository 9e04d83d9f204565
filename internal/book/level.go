package book

// priceLevel is the FIFO queue of resting orders at one price on one side.
// total is maintained incrementally so depth queries stay O(levels) instead
// of O(orders).
type priceLevel struct {
	price  int64
	orders []*Order
	total  int64
}

func newPriceLevel(price int64) *priceLevel {
	return &priceLevel{price: price}
}

func (l *priceLevel) append(o *Order) {
	l.orders = append(l.orders, o)
	l.total += o.QtyOpen
}

func (l *priceLevel) peekFront() *Order {
	if len(l.orders) == 0 {
		return nil
	}
	return l.orders[0]
}

// popFront removes the front order. Callers must have already reduced its
// QtyOpen to zero (or otherwise accounted for the change in l.total
// themselves via adjust).
func (l *priceLevel) popFront() {
	if len(l.orders) == 0 {
		return
	}
	l.orders = l.orders[1:]
}

// adjust reduces the level's running total by qty, to be called whenever a
// contained order's QtyOpen is decremented by a fill.
func (l *priceLevel) adjust(qty int64) {
	l.total -= qty
}

func (l *priceLevel) totalQty() int64 {
	return l.total
}

func (l *priceLevel) isEmpty() bool {
	return len(l.orders) == 0
}

// remove drops a specific order from the level, used by cancellation. O(n)
// in level size, which is acceptable since it is the cancelling client's own
// order (spec.md §4.2).
func (l *priceLevel) remove(orderID int64) bool {
	for i, o := range l.orders {
		if o.ID == orderID {
			l.total -= o.QtyOpen
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return true
		}
	}
	return false
}
