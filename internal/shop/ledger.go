// Package shop holds session state: the stock ledger, the cash balance,
// the bounded transaction log, and the probabilistic sale resolver.
package shop

import "github.com/hollyoak/plantshop/internal/catalog"

// DefaultStartingStock is the uniform per-item stock a fresh ledger opens with.
const DefaultStartingStock = 1

// Ledger tracks remaining stock per item id. All mutation funnels through
// Consume so there is exactly one auditable path to a decrement. Not safe
// for concurrent use; a session serializes its offers.
type Ledger struct {
	stock map[string]int
}

// NewLedger builds a ledger from the catalog with a uniform starting stock.
// A non-positive startingStock falls back to DefaultStartingStock.
func NewLedger(items []catalog.Item, startingStock int) *Ledger {
	if startingStock <= 0 {
		startingStock = DefaultStartingStock
	}
	stock := make(map[string]int, len(items))
	for _, item := range items {
		stock[item.ID] = startingStock
	}
	return &Ledger{stock: stock}
}

// StockOf returns the remaining stock for an item. Unknown ids read as
// zero stock, never an error.
func (l *Ledger) StockOf(id string) int {
	return l.stock[id]
}

// Consume decrements an item's stock by one. Reports false — and leaves
// the ledger untouched — when the item is already depleted or unknown.
func (l *Ledger) Consume(id string) bool {
	if l.stock[id] <= 0 {
		return false
	}
	l.stock[id]--
	return true
}

// Restore overwrites an item's count, used when reloading a persisted
// session. Negative counts clamp to zero.
func (l *Ledger) Restore(id string, count int) {
	if count < 0 {
		count = 0
	}
	l.stock[id] = count
}

// Snapshot returns a copy of the current stock map.
func (l *Ledger) Snapshot() map[string]int {
	out := make(map[string]int, len(l.stock))
	for id, n := range l.stock {
		out[id] = n
	}
	return out
}
