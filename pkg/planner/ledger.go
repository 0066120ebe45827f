package planner

import (
	"github.com/shopspring/decimal"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

// Ledger is the mutable component -> available-quantity table. It is the
// single shared resource of a planning run: the reservation pre-pass, the
// allocator and the fulfillment walker all mutate it in strict sequence.
// A Ledger is never accessed concurrently; stages hand it off by explicit
// sequencing or via Clone.
type Ledger struct {
	available map[entities.ComponentCode]decimal.Decimal
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		available: make(map[entities.ComponentCode]decimal.Decimal),
	}
}

// NewLedgerFromStock builds a ledger from stock records, normalizing
// component codes and summing quantities over records that share a code.
func NewLedgerFromStock(records []*entities.StockRecord, norm entities.CodeNormalization) *Ledger {
	ledger := NewLedger()
	for _, record := range records {
		code := norm.NormalizeComponent(string(record.Component))
		if code == "" {
			continue
		}
		ledger.available[code] = ledger.available[code].Add(record.Quantity)
	}
	return ledger
}

// Available returns the remaining quantity for a component. Unknown
// components are zero, never an error.
func (l *Ledger) Available(component entities.ComponentCode) decimal.Decimal {
	return l.available[component]
}

// Debit reduces a component's quantity without clamping. Callers must have
// verified sufficiency; the allocator's feasible quantity is non-exceeding
// by construction, so the balance cannot go negative there.
func (l *Ledger) Debit(component entities.ComponentCode, amount decimal.Decimal) {
	l.available[component] = l.available[component].Sub(amount)
}

// DebitClamped reduces a component's quantity, flooring the result at zero.
// Used by callers debiting approximate demand that may exceed availability.
func (l *Ledger) DebitClamped(component entities.ComponentCode, amount decimal.Decimal) {
	next := l.available[component].Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}
	l.available[component] = next
}

// Clone returns an independent copy for stage hand-off.
func (l *Ledger) Clone() *Ledger {
	clone := &Ledger{
		available: make(map[entities.ComponentCode]decimal.Decimal, len(l.available)),
	}
	for code, qty := range l.available {
		clone.available[code] = qty
	}
	return clone
}

// Len returns the number of known components.
func (l *Ledger) Len() int {
	return len(l.available)
}

// Snapshot returns a copy of the current balances for presentation.
func (l *Ledger) Snapshot() map[entities.ComponentCode]decimal.Decimal {
	snapshot := make(map[entities.ComponentCode]decimal.Decimal, len(l.available))
	for code, qty := range l.available {
		snapshot[code] = qty
	}
	return snapshot
}
