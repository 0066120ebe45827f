package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

func TestBOMRepository_PreservesInputOrder(t *testing.T) {
	repo := NewBOMRepository()
	repo.AddBOMLine(entities.BOMLine{Product: "X", Component: "B", QtyPer: decimal.NewFromInt(1)})
	repo.AddBOMLine(entities.BOMLine{Product: "X", Component: "A", QtyPer: decimal.NewFromInt(2)})
	repo.AddBOMLine(entities.BOMLine{Product: "Y", Component: "A", QtyPer: decimal.NewFromInt(3)})

	lines, err := repo.GetBOM(context.Background(), "X")
	if err != nil {
		t.Fatalf("GetBOM failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines for X, got %d", len(lines))
	}
	if lines[0].Component != "B" || lines[1].Component != "A" {
		t.Errorf("Expected input order B, A; got %s, %s", lines[0].Component, lines[1].Component)
	}
}

func TestBOMRepository_UnknownProductIsNotAnError(t *testing.T) {
	repo := NewBOMRepository()

	lines, err := repo.GetBOM(context.Background(), "MISSING")
	if err != nil {
		t.Fatalf("Expected no error for unknown product, got %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Expected no lines, got %d", len(lines))
	}
}

func TestStockRepository_KeepsDuplicateComponentRows(t *testing.T) {
	repo := NewStockRepository()
	repo.AddStock(entities.StockRecord{Component: "A", Quantity: decimal.NewFromInt(3)})
	repo.AddStock(entities.StockRecord{Component: "A", Quantity: decimal.NewFromInt(4)})

	records, err := repo.GetAllStock(context.Background())
	if err != nil {
		t.Fatalf("GetAllStock failed: %v", err)
	}
	// Aggregation is the ledger's job; the repository returns raw rows.
	if len(records) != 2 {
		t.Errorf("Expected 2 raw rows, got %d", len(records))
	}
}

func TestOrderRepository_SeparatesOrdersAndOrderBOM(t *testing.T) {
	repo := NewOrderRepository()
	repo.AddOrderLine(entities.OrderLine{Order: "SO-1", Line: 10, Product: "Z", Quantity: decimal.NewFromInt(1)})
	repo.AddOrderBOMLine(entities.BOMLine{Product: "Z", Component: "A", QtyPer: decimal.NewFromInt(2)})

	orders, err := repo.GetAllOrderLines(context.Background())
	if err != nil {
		t.Fatalf("GetAllOrderLines failed: %v", err)
	}
	if len(orders) != 1 || orders[0].Order != "SO-1" {
		t.Fatalf("Expected order SO-1, got %v", orders)
	}

	bom, err := repo.GetOrderBOM(context.Background(), "Z")
	if err != nil {
		t.Fatalf("GetOrderBOM failed: %v", err)
	}
	if len(bom) != 1 || bom[0].Component != "A" {
		t.Fatalf("Expected order BOM line for A, got %v", bom)
	}
}
