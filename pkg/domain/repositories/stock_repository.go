package repositories

import (
	"context"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

// StockRepository provides access to on-hand stock records
type StockRepository interface {
	GetAllStock(ctx context.Context) ([]*entities.StockRecord, error)
	LoadStock(records []*entities.StockRecord) error
}
