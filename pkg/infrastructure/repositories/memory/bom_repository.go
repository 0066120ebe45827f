package memory

import (
	"context"

	"github.com/rfaria/buildplan/pkg/domain/entities"
	"github.com/rfaria/buildplan/pkg/domain/repositories"
)

// BOMRepository provides in-memory BOM storage with a per-product index
type BOMRepository struct {
	lines   []entities.BOMLine
	indexes map[entities.ProductCode][]int
}

// NewBOMRepository creates a new in-memory BOM repository
func NewBOMRepository() *BOMRepository {
	return &BOMRepository{
		indexes: make(map[entities.ProductCode][]int),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadBOMLines loads BOM lines into the repository
func (r *BOMRepository) LoadBOMLines(lines []*entities.BOMLine) error {
	for _, line := range lines {
		r.AddBOMLine(*line)
	}
	return nil
}

// AddBOMLine adds a single BOM line, preserving input order per product
func (r *BOMRepository) AddBOMLine(line entities.BOMLine) {
	index := len(r.lines)
	r.lines = append(r.lines, line)
	r.indexes[line.Product] = append(r.indexes[line.Product], index)
}

// GetBOM returns the BOM lines for a product in input order
func (r *BOMRepository) GetBOM(ctx context.Context, product entities.ProductCode) ([]*entities.BOMLine, error) {
	indexes, exists := r.indexes[product]
	if !exists {
		return nil, nil
	}
	lines := make([]*entities.BOMLine, 0, len(indexes))
	for _, i := range indexes {
		lines = append(lines, &r.lines[i])
	}
	return lines, nil
}

// GetAllBOMLines returns all BOM lines in insertion order
func (r *BOMRepository) GetAllBOMLines(ctx context.Context) ([]*entities.BOMLine, error) {
	lines := make([]*entities.BOMLine, 0, len(r.lines))
	for i := range r.lines {
		lines = append(lines, &r.lines[i])
	}
	return lines, nil
}
