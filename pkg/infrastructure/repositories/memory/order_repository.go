package memory

import (
	"context"

	"github.com/rfaria/buildplan/pkg/domain/entities"
	"github.com/rfaria/buildplan/pkg/domain/repositories"
)

// OrderRepository provides in-memory storage for open order lines and the
// order-specific BOM
type OrderRepository struct {
	orders     []entities.OrderLine
	bomLines   []entities.BOMLine
	bomIndexes map[entities.ProductCode][]int
}

// NewOrderRepository creates a new in-memory order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		bomIndexes: make(map[entities.ProductCode][]int),
	}
}

// Verify interface compliance
var _ repositories.OrderRepository = (*OrderRepository)(nil)

// LoadOrderLines loads open order lines into the repository
func (r *OrderRepository) LoadOrderLines(lines []*entities.OrderLine) error {
	for _, line := range lines {
		r.AddOrderLine(*line)
	}
	return nil
}

// AddOrderLine adds a single order line
func (r *OrderRepository) AddOrderLine(line entities.OrderLine) {
	r.orders = append(r.orders, line)
}

// LoadOrderBOMLines loads order-specific BOM lines into the repository
func (r *OrderRepository) LoadOrderBOMLines(lines []*entities.BOMLine) error {
	for _, line := range lines {
		r.AddOrderBOMLine(*line)
	}
	return nil
}

// AddOrderBOMLine adds a single order BOM line
func (r *OrderRepository) AddOrderBOMLine(line entities.BOMLine) {
	index := len(r.bomLines)
	r.bomLines = append(r.bomLines, line)
	r.bomIndexes[line.Product] = append(r.bomIndexes[line.Product], index)
}

// GetAllOrderLines returns all open order lines in insertion order
func (r *OrderRepository) GetAllOrderLines(ctx context.Context) ([]*entities.OrderLine, error) {
	orders := make([]*entities.OrderLine, 0, len(r.orders))
	for i := range r.orders {
		orders = append(orders, &r.orders[i])
	}
	return orders, nil
}

// GetOrderBOM returns the order-specific BOM lines for a product
func (r *OrderRepository) GetOrderBOM(ctx context.Context, product entities.ProductCode) ([]*entities.BOMLine, error) {
	indexes, exists := r.bomIndexes[product]
	if !exists {
		return nil, nil
	}
	lines := make([]*entities.BOMLine, 0, len(indexes))
	for _, i := range indexes {
		lines = append(lines, &r.bomLines[i])
	}
	return lines, nil
}

// GetAllOrderBOMLines returns all order-specific BOM lines in insertion order
func (r *OrderRepository) GetAllOrderBOMLines(ctx context.Context) ([]*entities.BOMLine, error) {
	lines := make([]*entities.BOMLine, 0, len(r.bomLines))
	for i := range r.bomLines {
		lines = append(lines, &r.bomLines[i])
	}
	return lines, nil
}
