package memory

import (
	"context"

	"github.com/rfaria/buildplan/pkg/domain/entities"
	"github.com/rfaria/buildplan/pkg/domain/repositories"
)

// PriorityRepository provides in-memory priority metadata storage
type PriorityRepository struct {
	priorities []entities.ProductPriority
}

// NewPriorityRepository creates a new in-memory priority repository
func NewPriorityRepository() *PriorityRepository {
	return &PriorityRepository{}
}

// Verify interface compliance
var _ repositories.PriorityRepository = (*PriorityRepository)(nil)

// LoadPriorities loads priority records into the repository
func (r *PriorityRepository) LoadPriorities(priorities []*entities.ProductPriority) error {
	for _, priority := range priorities {
		r.AddPriority(*priority)
	}
	return nil
}

// AddPriority adds a single priority record
func (r *PriorityRepository) AddPriority(priority entities.ProductPriority) {
	r.priorities = append(r.priorities, priority)
}

// GetAllPriorities returns all priority records in insertion order
func (r *PriorityRepository) GetAllPriorities(ctx context.Context) ([]*entities.ProductPriority, error) {
	priorities := make([]*entities.ProductPriority, 0, len(r.priorities))
	for i := range r.priorities {
		priorities = append(priorities, &r.priorities[i])
	}
	return priorities, nil
}
