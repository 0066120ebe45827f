package planner

import (
	"context"
	"fmt"
	"sort"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

// FulfillmentWalker classifies open order lines as fulfillable against a
// ledger. Which ledger it walks (post-allocation, post-reservation, or a
// fresh one) is the caller's choice; the walker itself only mutates
// whatever it is handed.
type FulfillmentWalker struct {
	orderBOM *BOMIndex
}

// NewFulfillmentWalker creates a walker over the order-specific BOM index
func NewFulfillmentWalker(orderBOM *BOMIndex) *FulfillmentWalker {
	return &FulfillmentWalker{
		orderBOM: orderBOM,
	}
}

// Walk processes order lines in ascending promised-date order, ties broken
// by original input position. A line is fulfilled only if every component
// of its order BOM is available in full; fulfillment debits the ledger
// atomically per line. Lines that cannot be fulfilled are skipped and never
// affect later lines. Lines with no order BOM or non-positive quantity are
// skipped silently.
func (w *FulfillmentWalker) Walk(
	ctx context.Context,
	orders []*entities.OrderLine,
	ledger *Ledger,
) ([]entities.FulfilledLine, error) {
	type indexed struct {
		line *entities.OrderLine
		pos  int
	}

	walkable := make([]indexed, 0, len(orders))
	for i, order := range orders {
		if !order.Demanding() {
			continue
		}
		walkable = append(walkable, indexed{line: order, pos: i})
	}

	sort.Slice(walkable, func(i, j int) bool {
		if !walkable[i].line.PromisedDate.Equal(walkable[j].line.PromisedDate) {
			return walkable[i].line.PromisedDate.Before(walkable[j].line.PromisedDate)
		}
		return walkable[i].pos < walkable[j].pos
	})

	fulfilled := make([]entities.FulfilledLine, 0, len(walkable))

	for _, entry := range walkable {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fulfillment walk cancelled: %w", err)
		}

		order := entry.line
		lines := w.orderBOM.Lines(order.Product)
		if len(lines) == 0 {
			continue
		}

		if !w.satisfiable(lines, order, ledger) {
			continue
		}

		for _, line := range lines {
			ledger.Debit(line.Component, line.QtyPer.Mul(order.Quantity))
		}

		fulfilled = append(fulfilled, entities.FulfilledLine{
			Order:        order.Order,
			Line:         order.Line,
			Product:      order.Product,
			Quantity:     order.Quantity,
			PromisedDate: order.PromisedDate,
		})
	}

	return fulfilled, nil
}

// satisfiable checks every BOM component in full; partial fulfillment of a
// line is never produced.
func (w *FulfillmentWalker) satisfiable(lines []*entities.BOMLine, order *entities.OrderLine, ledger *Ledger) bool {
	for _, line := range lines {
		required := line.QtyPer.Mul(order.Quantity)
		if ledger.Available(line.Component).LessThan(required) {
			return false
		}
	}
	return true
}
