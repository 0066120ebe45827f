package entities

import "fmt"

// ProductPriority carries the processing rank and descriptive metadata for a
// product. Lower rank is processed earlier. The descriptive fields are
// carried through to the result set but never enter the computation.
type ProductPriority struct {
	Product      ProductCode
	Rank         int
	Description  string
	Curve        string
	PlannerGroup string
}

// NewProductPriority creates a validated ProductPriority
func NewProductPriority(product ProductCode, rank int, description, curve, plannerGroup string) (*ProductPriority, error) {
	if string(product) == "" {
		return nil, fmt.Errorf("product code cannot be empty")
	}

	return &ProductPriority{
		Product:      product,
		Rank:         rank,
		Description:  description,
		Curve:        curve,
		PlannerGroup: plannerGroup,
	}, nil
}
