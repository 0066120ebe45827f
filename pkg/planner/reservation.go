package planner

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

// ReservationStrategy selects how open-order demand is excluded from the
// producible-for-new-stock figures. The two active strategies are not
// interchangeable: one debits component stock before allocation, the other
// discounts the computed unit count per product. They are kept as distinct
// named policies and never merged.
type ReservationStrategy int

const (
	// ReserveNone ignores open orders during allocation.
	ReserveNone ReservationStrategy = iota
	// ReserveLedger debits accumulated open-order component demand from
	// the ledger before allocation begins (clamped at zero).
	ReserveLedger
	// ReserveOutputDiscount subtracts each product's open-order demand
	// from its computed feasible quantity, max(0, feasible - reserved).
	ReserveOutputDiscount
)

// String method for ReservationStrategy enum
func (s ReservationStrategy) String() string {
	switch s {
	case ReserveNone:
		return "None"
	case ReserveLedger:
		return "Ledger"
	case ReserveOutputDiscount:
		return "OutputDiscount"
	default:
		return "Unknown"
	}
}

// ParseReservationStrategy parses a configuration string
func ParseReservationStrategy(s string) (ReservationStrategy, error) {
	switch s {
	case "", "none":
		return ReserveNone, nil
	case "ledger":
		return ReserveLedger, nil
	case "output-discount":
		return ReserveOutputDiscount, nil
	default:
		return ReserveNone, fmt.Errorf("invalid reservation strategy: %s (expected: none, ledger, or output-discount)", s)
	}
}

// ReservationPolicy is the behavior behind a ReservationStrategy. Prepare
// runs exactly once, strictly before allocation, and may mutate the ledger.
// DiscountUnits is consulted by the allocator for every product after the
// feasible quantity is computed against the current ledger.
type ReservationPolicy interface {
	Prepare(ctx context.Context, orders []*entities.OrderLine, orderBOM *BOMIndex, ledger *Ledger) error
	DiscountUnits(product entities.ProductCode, feasible entities.Units) entities.Units
}

// NewReservationPolicy returns the policy for a strategy
func NewReservationPolicy(strategy ReservationStrategy) ReservationPolicy {
	switch strategy {
	case ReserveLedger:
		return &ledgerReservation{}
	case ReserveOutputDiscount:
		return &outputDiscountReservation{}
	default:
		return noReservation{}
	}
}

// noReservation leaves both the ledger and the unit counts untouched.
type noReservation struct{}

func (noReservation) Prepare(ctx context.Context, orders []*entities.OrderLine, orderBOM *BOMIndex, ledger *Ledger) error {
	return nil
}

func (noReservation) DiscountUnits(product entities.ProductCode, feasible entities.Units) entities.Units {
	return feasible
}

// ledgerReservation accumulates per-component demand implied by every open
// order line through the order BOM, then applies one clamped debit per
// component. Demand may exceed availability, hence the clamp.
type ledgerReservation struct{}

func (r *ledgerReservation) Prepare(ctx context.Context, orders []*entities.OrderLine, orderBOM *BOMIndex, ledger *Ledger) error {
	demand := make(map[entities.ComponentCode]decimal.Decimal)
	for _, order := range orders {
		if !order.Demanding() {
			continue
		}
		for _, line := range orderBOM.Lines(order.Product) {
			required := line.QtyPer.Mul(order.Quantity)
			demand[line.Component] = demand[line.Component].Add(required)
		}
	}
	for component, total := range demand {
		ledger.DebitClamped(component, total)
	}
	return nil
}

func (r *ledgerReservation) DiscountUnits(product entities.ProductCode, feasible entities.Units) entities.Units {
	return feasible
}

// outputDiscountReservation totals requested units per product and
// subtracts that from the feasible quantity the allocator computed. The
// ledger itself is not pre-debited; fractional demand rounds the discounted
// count down.
type outputDiscountReservation struct {
	reserved map[entities.ProductCode]decimal.Decimal
}

func (r *outputDiscountReservation) Prepare(ctx context.Context, orders []*entities.OrderLine, orderBOM *BOMIndex, ledger *Ledger) error {
	r.reserved = make(map[entities.ProductCode]decimal.Decimal)
	for _, order := range orders {
		if !order.Demanding() {
			continue
		}
		r.reserved[order.Product] = r.reserved[order.Product].Add(order.Quantity)
	}
	return nil
}

func (r *outputDiscountReservation) DiscountUnits(product entities.ProductCode, feasible entities.Units) entities.Units {
	reserved, exists := r.reserved[product]
	if !exists {
		return feasible
	}
	discounted := decimal.NewFromInt(int64(feasible)).Sub(reserved)
	if discounted.IsNegative() {
		return 0
	}
	return entities.Units(discounted.Floor().IntPart())
}
