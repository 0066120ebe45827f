package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rfaria/buildplan/pkg/domain/entities"
	"github.com/rfaria/buildplan/pkg/domain/repositories"
)

// EngineConfig holds the behavioral configuration of a planning run
type EngineConfig struct {
	Normalization entities.CodeNormalization
	Unconstrained UnconstrainedPolicy
	EmitZeroRows  bool
	Reservation   ReservationStrategy
	// FulfillOrders enables the order fulfillment walk after allocation.
	FulfillOrders bool
	// FulfillmentLedger selects the ledger the walk runs against.
	FulfillmentLedger LedgerSource
}

// DefaultEngineConfig mirrors the observed legacy behavior: no reservation,
// zero for unconstrained products, zero rows filtered out.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Unconstrained:     ZeroIfUnconstrained,
		Reservation:       ReserveNone,
		FulfillmentLedger: PostAllocationLedger,
	}
}

// Engine wires the record-set repositories to the planning stages. One
// engine may serve many runs; every run constructs its own ledger, so runs
// are independent and may execute in parallel on separate engines or
// sequentially on one.
type Engine struct {
	stockRepo    repositories.StockRepository
	bomRepo      repositories.BOMRepository
	priorityRepo repositories.PriorityRepository
	orderRepo    repositories.OrderRepository
	config       EngineConfig
}

// NewEngine creates an engine with default configuration. orderRepo may be
// nil when no open orders exist; reservation and fulfillment then no-op.
func NewEngine(
	stockRepo repositories.StockRepository,
	bomRepo repositories.BOMRepository,
	priorityRepo repositories.PriorityRepository,
	orderRepo repositories.OrderRepository,
) *Engine {
	return NewEngineWithConfig(stockRepo, bomRepo, priorityRepo, orderRepo, DefaultEngineConfig())
}

// NewEngineWithConfig creates an engine with custom configuration
func NewEngineWithConfig(
	stockRepo repositories.StockRepository,
	bomRepo repositories.BOMRepository,
	priorityRepo repositories.PriorityRepository,
	orderRepo repositories.OrderRepository,
	config EngineConfig,
) *Engine {
	return &Engine{
		stockRepo:    stockRepo,
		bomRepo:      bomRepo,
		priorityRepo: priorityRepo,
		orderRepo:    orderRepo,
		config:       config,
	}
}

// Plan executes one full planning run: build the ledger and indexes, run
// the reservation pre-pass, allocate in priority order, then walk open
// orders. The absence of required record sets is the only failure reported
// from the boundary; within the stages every missing lookup is a zero or a
// skip, never an error.
func (e *Engine) Plan(ctx context.Context) (*PlanResult, error) {
	stock, err := e.stockRepo.GetAllStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock records: %w", err)
	}
	if len(stock) == 0 {
		return nil, fmt.Errorf("no stock records available")
	}

	bomLines, err := e.bomRepo.GetAllBOMLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load BOM lines: %w", err)
	}
	if len(bomLines) == 0 {
		return nil, fmt.Errorf("no BOM lines available")
	}

	priorities, err := e.priorityRepo.GetAllPriorities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product priorities: %w", err)
	}
	if len(priorities) == 0 {
		return nil, fmt.Errorf("no product priorities available")
	}

	orders, orderBOM, err := e.loadOrders(ctx)
	if err != nil {
		return nil, err
	}

	bomIndex := NewBOMIndex(bomLines, e.config.Normalization)
	ranked := RankProducts(priorities, e.config.Normalization)
	ledger := NewLedgerFromStock(stock, e.config.Normalization)

	reservation := NewReservationPolicy(e.config.Reservation)
	if err := reservation.Prepare(ctx, orders, orderBOM, ledger); err != nil {
		return nil, fmt.Errorf("reservation pre-pass failed: %w", err)
	}

	// Captured before allocation for the ReservationLedger walk variant.
	var postReservation *Ledger
	if e.config.FulfillOrders && e.config.FulfillmentLedger == ReservationLedger {
		postReservation = ledger.Clone()
	}

	allocator := NewAllocator(bomIndex, AllocatorConfig{
		Unconstrained: e.config.Unconstrained,
		EmitZeroRows:  e.config.EmitZeroRows,
	})
	builds, err := allocator.Allocate(ctx, ranked, ledger, reservation)
	if err != nil {
		return nil, err
	}

	result := &PlanResult{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Builds:      builds,
	}

	if e.config.FulfillOrders && len(orders) > 0 {
		walkLedger := ledger
		switch e.config.FulfillmentLedger {
		case ReservationLedger:
			walkLedger = postReservation
		case FreshLedger:
			walkLedger = NewLedgerFromStock(stock, e.config.Normalization)
		}

		walker := NewFulfillmentWalker(orderBOM)
		fulfilled, err := walker.Walk(ctx, orders, walkLedger)
		if err != nil {
			return nil, err
		}
		result.Fulfilled = fulfilled
		result.FinalLedger = walkLedger.Snapshot()
	} else {
		result.FinalLedger = ledger.Snapshot()
	}

	return result, nil
}

// loadOrders fetches open order lines and the order-specific BOM. Both are
// optional record sets; a nil order repository means neither exists.
func (e *Engine) loadOrders(ctx context.Context) ([]*entities.OrderLine, *BOMIndex, error) {
	if e.orderRepo == nil {
		return nil, NewBOMIndex(nil, e.config.Normalization), nil
	}

	orders, err := e.orderRepo.GetAllOrderLines(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order lines: %w", err)
	}

	orderBOMLines, err := e.orderRepo.GetAllOrderBOMLines(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order BOM lines: %w", err)
	}

	// Product codes must match the normalized BOM index keys.
	normalized := make([]*entities.OrderLine, 0, len(orders))
	for _, order := range orders {
		line := *order
		line.Product = e.config.Normalization.NormalizeProduct(string(order.Product))
		normalized = append(normalized, &line)
	}

	return normalized, NewBOMIndex(orderBOMLines, e.config.Normalization), nil
}
