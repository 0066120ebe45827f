package repositories

import (
	"context"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

// BOMRepository provides access to bill-of-materials lines. GetBOM returns
// the lines for one product in input order; a product with no lines yields
// an empty slice, never an error.
type BOMRepository interface {
	GetBOM(ctx context.Context, product entities.ProductCode) ([]*entities.BOMLine, error)
	GetAllBOMLines(ctx context.Context) ([]*entities.BOMLine, error)
	LoadBOMLines(lines []*entities.BOMLine) error
}
