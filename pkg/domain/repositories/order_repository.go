package repositories

import (
	"context"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

// OrderRepository provides access to open order lines and the
// order-specific BOM, which may come from a different source than the
// general BOM.
type OrderRepository interface {
	GetAllOrderLines(ctx context.Context) ([]*entities.OrderLine, error)
	GetOrderBOM(ctx context.Context, product entities.ProductCode) ([]*entities.BOMLine, error)
	GetAllOrderBOMLines(ctx context.Context) ([]*entities.BOMLine, error)
	LoadOrderLines(lines []*entities.OrderLine) error
	LoadOrderBOMLines(lines []*entities.BOMLine) error
}
