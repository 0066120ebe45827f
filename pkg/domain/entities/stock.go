package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StockRecord is one raw inventory row. Multiple rows for the same
// component are legal; the ledger sums them during aggregation.
type StockRecord struct {
	Component ComponentCode
	Quantity  decimal.Decimal
}

// NewStockRecord creates a validated StockRecord
func NewStockRecord(component ComponentCode, quantity decimal.Decimal) (*StockRecord, error) {
	if string(component) == "" {
		return nil, fmt.Errorf("component code cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("stock quantity cannot be negative, got %s", quantity)
	}

	return &StockRecord{
		Component: component,
		Quantity:  quantity,
	}, nil
}
