package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BOMLine represents a single line in a product's Bill of Materials.
// A QtyPer of zero is legal and non-constraining: the line never limits the
// feasible quantity and consumes nothing when the product is built.
type BOMLine struct {
	Product   ProductCode
	Component ComponentCode
	QtyPer    decimal.Decimal
}

// NewBOMLine creates a validated BOMLine
func NewBOMLine(product ProductCode, component ComponentCode, qtyPer decimal.Decimal) (*BOMLine, error) {
	if string(product) == "" {
		return nil, fmt.Errorf("product code cannot be empty")
	}
	if string(component) == "" {
		return nil, fmt.Errorf("component code cannot be empty")
	}
	if qtyPer.IsNegative() {
		return nil, fmt.Errorf("quantity per unit cannot be negative, got %s", qtyPer)
	}

	return &BOMLine{
		Product:   product,
		Component: component,
		QtyPer:    qtyPer,
	}, nil
}

// Constraining reports whether this line limits the feasible quantity.
func (l *BOMLine) Constraining() bool {
	return l.QtyPer.IsPositive()
}
