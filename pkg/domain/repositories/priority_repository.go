package repositories

import (
	"context"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

// PriorityRepository provides access to product priority metadata.
// GetAllPriorities returns records in original input order; callers that
// need rank order perform their own stable sort.
type PriorityRepository interface {
	GetAllPriorities(ctx context.Context) ([]*entities.ProductPriority, error)
	LoadPriorities(priorities []*entities.ProductPriority) error
}
