package planner

import (
	"sort"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

// BOMIndex groups BOM lines by product, preserving input order within each
// product. Codes are normalized at build time; the index is immutable for
// the duration of a run.
type BOMIndex struct {
	lines   []entities.BOMLine
	byProd  map[entities.ProductCode][]int
	ordered []entities.ProductCode
}

// NewBOMIndex builds an index from raw BOM lines
func NewBOMIndex(lines []*entities.BOMLine, norm entities.CodeNormalization) *BOMIndex {
	idx := &BOMIndex{
		lines:  make([]entities.BOMLine, 0, len(lines)),
		byProd: make(map[entities.ProductCode][]int),
	}
	for _, line := range lines {
		product := norm.NormalizeProduct(string(line.Product))
		component := norm.NormalizeComponent(string(line.Component))
		if product == "" || component == "" {
			continue
		}
		i := len(idx.lines)
		idx.lines = append(idx.lines, entities.BOMLine{
			Product:   product,
			Component: component,
			QtyPer:    line.QtyPer,
		})
		if _, seen := idx.byProd[product]; !seen {
			idx.ordered = append(idx.ordered, product)
		}
		idx.byProd[product] = append(idx.byProd[product], i)
	}
	return idx
}

// Lines returns the BOM lines for a product in input order. A product with
// no lines yields nil.
func (x *BOMIndex) Lines(product entities.ProductCode) []*entities.BOMLine {
	indexes, exists := x.byProd[product]
	if !exists {
		return nil
	}
	result := make([]*entities.BOMLine, 0, len(indexes))
	for _, i := range indexes {
		result = append(result, &x.lines[i])
	}
	return result
}

// HasProduct reports whether the product has at least one BOM line.
func (x *BOMIndex) HasProduct(product entities.ProductCode) bool {
	_, exists := x.byProd[product]
	return exists
}

// Products returns every product with BOM lines, in first-seen order.
func (x *BOMIndex) Products() []entities.ProductCode {
	return x.ordered
}

// RankProducts returns priority records sorted ascending by rank, ties
// broken by original input position. The tie-break is explicit rather than
// relying on sort stability so the processing order is reproducible.
func RankProducts(priorities []*entities.ProductPriority, norm entities.CodeNormalization) []*entities.ProductPriority {
	type indexed struct {
		record *entities.ProductPriority
		pos    int
	}

	ranked := make([]indexed, 0, len(priorities))
	for i, p := range priorities {
		record := *p
		record.Product = norm.NormalizeProduct(string(p.Product))
		if record.Product == "" {
			continue
		}
		ranked = append(ranked, indexed{record: &record, pos: i})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].record.Rank != ranked[j].record.Rank {
			return ranked[i].record.Rank < ranked[j].record.Rank
		}
		return ranked[i].pos < ranked[j].pos
	})

	result := make([]*entities.ProductPriority, len(ranked))
	for i, entry := range ranked {
		result[i] = entry.record
	}
	return result
}
