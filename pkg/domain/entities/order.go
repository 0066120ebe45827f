package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine represents one line of an open customer order. Lines with a
// requested quantity of zero or less are excluded from all processing.
type OrderLine struct {
	Order        string
	Line         int
	Product      ProductCode
	Quantity     decimal.Decimal
	PromisedDate time.Time
}

// NewOrderLine creates a validated OrderLine
func NewOrderLine(order string, line int, product ProductCode, quantity decimal.Decimal, promisedDate time.Time) (*OrderLine, error) {
	if order == "" {
		return nil, fmt.Errorf("order code cannot be empty")
	}
	if line < 0 {
		return nil, fmt.Errorf("line number cannot be negative, got %d", line)
	}
	if string(product) == "" {
		return nil, fmt.Errorf("product code cannot be empty")
	}

	return &OrderLine{
		Order:        order,
		Line:         line,
		Product:      product,
		Quantity:     quantity,
		PromisedDate: promisedDate,
	}, nil
}

// Demanding reports whether the line carries positive requested quantity.
func (l *OrderLine) Demanding() bool {
	return l.Quantity.IsPositive()
}
