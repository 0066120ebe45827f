package planner

import (
	"context"
	"fmt"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

// UnconstrainedPolicy decides the feasible quantity for a product whose BOM
// lines all carry a zero quantity-per-unit. With no constraining line the
// minimum over lines is undefined; the observed legacy behavior collapses
// it to zero, the alternative treats the product as unbounded.
type UnconstrainedPolicy int

const (
	// ZeroIfUnconstrained yields zero producible units (legacy behavior).
	ZeroIfUnconstrained UnconstrainedPolicy = iota
	// UnboundedIfUnconstrained flags the result as unbounded. No ledger
	// debit occurs either way: every line's quantity-per-unit is zero.
	UnboundedIfUnconstrained
)

// String method for UnconstrainedPolicy enum
func (p UnconstrainedPolicy) String() string {
	switch p {
	case ZeroIfUnconstrained:
		return "Zero"
	case UnboundedIfUnconstrained:
		return "Unbounded"
	default:
		return "Unknown"
	}
}

// ParseUnconstrainedPolicy parses a configuration string
func ParseUnconstrainedPolicy(s string) (UnconstrainedPolicy, error) {
	switch s {
	case "", "zero":
		return ZeroIfUnconstrained, nil
	case "unbounded":
		return UnboundedIfUnconstrained, nil
	default:
		return ZeroIfUnconstrained, fmt.Errorf("invalid unconstrained policy: %s (expected: zero or unbounded)", s)
	}
}

// AllocatorConfig holds the behavioral switches of the greedy allocator
type AllocatorConfig struct {
	Unconstrained UnconstrainedPolicy
	// EmitZeroRows emits a result row for products with zero feasible
	// quantity instead of filtering them out.
	EmitZeroRows bool
}

// Allocator computes producible quantities product by product in priority
// order, debiting the ledger after each product. The walk is a strict
// left-to-right fold with the ledger as accumulator: each product's result
// depends on the debits of every product ranked before it, so the sequence
// is inherently sequential and must not be re-entered on a shared ledger.
type Allocator struct {
	bom    *BOMIndex
	config AllocatorConfig
}

// NewAllocator creates a greedy allocator over a BOM index
func NewAllocator(bom *BOMIndex, config AllocatorConfig) *Allocator {
	return &Allocator{
		bom:    bom,
		config: config,
	}
}

// Allocate processes the ranked products against the ledger. The ledger is
// mutated in place; reservation must already have run Prepare. Products
// with no BOM lines are skipped without a result row. Cancellation is
// checked between products; each product's debit is atomic relative to the
// rest of the walk.
func (a *Allocator) Allocate(
	ctx context.Context,
	ranked []*entities.ProductPriority,
	ledger *Ledger,
	reservation ReservationPolicy,
) ([]entities.BuildResult, error) {
	results := make([]entities.BuildResult, 0, len(ranked))

	for _, priority := range ranked {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("allocation cancelled: %w", err)
		}

		lines := a.bom.Lines(priority.Product)
		if len(lines) == 0 {
			continue
		}

		feasible, constrained := a.feasibleUnits(lines, ledger)

		if !constrained {
			if a.config.Unconstrained == UnboundedIfUnconstrained {
				results = append(results, buildResult(priority, 0, true))
			} else if a.config.EmitZeroRows {
				results = append(results, buildResult(priority, 0, false))
			}
			continue
		}

		feasible = reservation.DiscountUnits(priority.Product, feasible)

		if feasible > 0 {
			a.debit(lines, ledger, feasible)
			results = append(results, buildResult(priority, feasible, false))
		} else if a.config.EmitZeroRows {
			results = append(results, buildResult(priority, 0, false))
		}
	}

	return results, nil
}

// feasibleUnits returns the minimum of floor(available/qtyPer) over the
// constraining lines. The second return is false when no line constrains.
func (a *Allocator) feasibleUnits(lines []*entities.BOMLine, ledger *Ledger) (entities.Units, bool) {
	var min entities.Units
	constrained := false

	for _, line := range lines {
		if !line.Constraining() {
			continue
		}
		buildable := entities.Units(ledger.Available(line.Component).Div(line.QtyPer).Floor().IntPart())
		if !constrained || buildable < min {
			min = buildable
			constrained = true
		}
	}

	return min, constrained
}

// debit consumes stock for every constraining line. The feasible quantity
// is non-exceeding by construction, so the unclamped debit cannot drive a
// balance negative.
func (a *Allocator) debit(lines []*entities.BOMLine, ledger *Ledger, units entities.Units) {
	qty := decimalFromUnits(units)
	for _, line := range lines {
		if !line.Constraining() {
			continue
		}
		ledger.Debit(line.Component, line.QtyPer.Mul(qty))
	}
}

func buildResult(priority *entities.ProductPriority, units entities.Units, unbounded bool) entities.BuildResult {
	return entities.BuildResult{
		Product:      priority.Product,
		Units:        units,
		Unbounded:    unbounded,
		Description:  priority.Description,
		Curve:        priority.Curve,
		PlannerGroup: priority.PlannerGroup,
	}
}
