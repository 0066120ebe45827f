package planner

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

// Test data builders shared by the planner tests.

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testLedger builds a ledger directly from component -> quantity strings
func testLedger(stock map[string]string) *Ledger {
	ledger := NewLedger()
	for code, amount := range stock {
		ledger.available[entities.ComponentCode(code)] = qty(amount)
	}
	return ledger
}

// testBOM builds an index from (product, component, qtyPer) triples,
// preserving the given order
func testBOM(triples [][3]string) *BOMIndex {
	lines := make([]*entities.BOMLine, 0, len(triples))
	for _, t := range triples {
		lines = append(lines, &entities.BOMLine{
			Product:   entities.ProductCode(t[0]),
			Component: entities.ComponentCode(t[1]),
			QtyPer:    qty(t[2]),
		})
	}
	return NewBOMIndex(lines, entities.CodeNormalization{})
}

// testRanking builds priority records already in the given order with
// ascending ranks
func testRanking(products ...string) []*entities.ProductPriority {
	ranked := make([]*entities.ProductPriority, 0, len(products))
	for i, p := range products {
		ranked = append(ranked, &entities.ProductPriority{
			Product: entities.ProductCode(p),
			Rank:    i + 1,
		})
	}
	return ranked
}

func testOrderLine(order string, line int, product, quantity, promised string) *entities.OrderLine {
	date, err := time.Parse("2006-01-02", promised)
	if err != nil {
		panic(err)
	}
	return &entities.OrderLine{
		Order:        order,
		Line:         line,
		Product:      entities.ProductCode(product),
		Quantity:     qty(quantity),
		PromisedDate: date,
	}
}

// buildWorkshopTestData is the shared two-product scenario: X consumes
// {A:2, B:1}, Y consumes {A:1}, starting stock {A:10, B:4}.
func buildWorkshopTestData() (*Ledger, *BOMIndex, []*entities.ProductPriority) {
	ledger := testLedger(map[string]string{"A": "10", "B": "4"})
	bom := testBOM([][3]string{
		{"X", "A", "2"},
		{"X", "B", "1"},
		{"Y", "A", "1"},
	})
	return ledger, bom, testRanking("X", "Y")
}
