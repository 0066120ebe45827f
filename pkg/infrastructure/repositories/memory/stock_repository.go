package memory

import (
	"context"

	"github.com/rfaria/buildplan/pkg/domain/entities"
	"github.com/rfaria/buildplan/pkg/domain/repositories"
)

// StockRepository provides in-memory stock storage
type StockRepository struct {
	records []entities.StockRecord
}

// NewStockRepository creates a new in-memory stock repository
func NewStockRepository() *StockRepository {
	return &StockRepository{}
}

// Verify interface compliance
var _ repositories.StockRepository = (*StockRepository)(nil)

// LoadStock loads stock records into the repository
func (r *StockRepository) LoadStock(records []*entities.StockRecord) error {
	for _, record := range records {
		r.AddStock(*record)
	}
	return nil
}

// AddStock adds a single stock record
func (r *StockRepository) AddStock(record entities.StockRecord) {
	r.records = append(r.records, record)
}

// GetAllStock returns all stock records in insertion order
func (r *StockRepository) GetAllStock(ctx context.Context) ([]*entities.StockRecord, error) {
	records := make([]*entities.StockRecord, 0, len(r.records))
	for i := range r.records {
		records = append(records, &r.records[i])
	}
	return records, nil
}
