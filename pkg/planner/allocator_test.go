package planner

import (
	"context"
	"testing"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

func allocate(t *testing.T, ledger *Ledger, bom *BOMIndex, ranked []*entities.ProductPriority, config AllocatorConfig) []entities.BuildResult {
	t.Helper()
	allocator := NewAllocator(bom, config)
	results, err := allocator.Allocate(context.Background(), ranked, ledger, NewReservationPolicy(ReserveNone))
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	return results
}

func TestAllocator_WorkshopScenario(t *testing.T) {
	ledger, bom, ranked := buildWorkshopTestData()

	results := allocate(t, ledger, bom, ranked, AllocatorConfig{})

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Product != "X" || results[0].Units != 4 {
		t.Errorf("Expected X feasible 4, got %s=%d", results[0].Product, results[0].Units)
	}
	if results[1].Product != "Y" || results[1].Units != 2 {
		t.Errorf("Expected Y feasible 2, got %s=%d", results[1].Product, results[1].Units)
	}
	if got := ledger.Available("A"); !got.IsZero() {
		t.Errorf("Expected final A stock 0, got %s", got)
	}
	if got := ledger.Available("B"); !got.IsZero() {
		t.Errorf("Expected final B stock 0, got %s", got)
	}
}

func TestAllocator_PriorityOrderIsLoadBearing(t *testing.T) {
	// Same data, Y ranked first: Y drains A before X is considered.
	ledger, bom, _ := buildWorkshopTestData()

	results := allocate(t, ledger, bom, testRanking("Y", "X"), AllocatorConfig{})

	if len(results) != 1 {
		t.Fatalf("Expected only Y to produce, got %d results", len(results))
	}
	if results[0].Product != "Y" || results[0].Units != 10 {
		t.Errorf("Expected Y feasible 10, got %s=%d", results[0].Product, results[0].Units)
	}
}

func TestAllocator_PriorityMonotonicity(t *testing.T) {
	// Moving X earlier never lowers X's feasible quantity.
	earlyLedger, bom, _ := buildWorkshopTestData()
	early := allocate(t, earlyLedger, bom, testRanking("X", "Y"), AllocatorConfig{})

	lateLedger, _, _ := buildWorkshopTestData()
	late := allocate(t, lateLedger, bom, testRanking("Y", "X"), AllocatorConfig{})

	unitsFor := func(results []entities.BuildResult, product entities.ProductCode) entities.Units {
		for _, r := range results {
			if r.Product == product {
				return r.Units
			}
		}
		return 0
	}

	if unitsFor(early, "X") < unitsFor(late, "X") {
		t.Errorf("Expected X earlier >= X later, got %d < %d", unitsFor(early, "X"), unitsFor(late, "X"))
	}
}

func TestAllocator_Conservation(t *testing.T) {
	ledger := testLedger(map[string]string{"A": "10", "B": "7"})
	bom := testBOM([][3]string{
		{"X", "A", "2"},
		{"X", "B", "1.5"},
	})

	before := ledger.Snapshot()
	results := allocate(t, ledger, bom, testRanking("X"), AllocatorConfig{})

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	units := decimalFromUnits(results[0].Units)

	for _, line := range bom.Lines("X") {
		expected := before[line.Component].Sub(line.QtyPer.Mul(units))
		got := ledger.Available(line.Component)
		if !got.Equal(expected) {
			t.Errorf("Component %s: expected %s remaining, got %s", line.Component, expected, got)
		}
		if got.IsNegative() {
			t.Errorf("Component %s: balance went negative: %s", line.Component, got)
		}
	}
}

func TestAllocator_ZeroFeasibleLeavesLedgerUntouched(t *testing.T) {
	ledger := testLedger(map[string]string{"A": "10", "B": "0"})
	bom := testBOM([][3]string{
		{"X", "A", "2"},
		{"X", "B", "1"},
	})

	results := allocate(t, ledger, bom, testRanking("X"), AllocatorConfig{})

	if len(results) != 0 {
		t.Fatalf("Expected zero-feasible product to be filtered, got %d results", len(results))
	}
	if got := ledger.Available("A"); !got.Equal(qty("10")) {
		t.Errorf("Expected A untouched at 10, got %s", got)
	}
}

func TestAllocator_EmitZeroRows(t *testing.T) {
	ledger := testLedger(map[string]string{"A": "10", "B": "0"})
	bom := testBOM([][3]string{
		{"X", "A", "2"},
		{"X", "B", "1"},
	})

	results := allocate(t, ledger, bom, testRanking("X"), AllocatorConfig{EmitZeroRows: true})

	if len(results) != 1 {
		t.Fatalf("Expected a zero row, got %d results", len(results))
	}
	if results[0].Units != 0 || results[0].Unbounded {
		t.Errorf("Expected zero bounded row, got units=%d unbounded=%v", results[0].Units, results[0].Unbounded)
	}
}

func TestAllocator_NonInteractingProductsAreOrderIndependent(t *testing.T) {
	bom := testBOM([][3]string{
		{"X", "A", "2"},
		{"Y", "B", "3"},
	})

	firstLedger := testLedger(map[string]string{"A": "8", "B": "9"})
	first := allocate(t, firstLedger, bom, testRanking("X", "Y"), AllocatorConfig{})

	secondLedger := testLedger(map[string]string{"A": "8", "B": "9"})
	second := allocate(t, secondLedger, bom, testRanking("Y", "X"), AllocatorConfig{})

	unitsFor := func(results []entities.BuildResult, product entities.ProductCode) entities.Units {
		for _, r := range results {
			if r.Product == product {
				return r.Units
			}
		}
		return 0
	}

	for _, product := range []entities.ProductCode{"X", "Y"} {
		if unitsFor(first, product) != unitsFor(second, product) {
			t.Errorf("Product %s: expected same units regardless of order, got %d vs %d",
				product, unitsFor(first, product), unitsFor(second, product))
		}
	}
}

func TestAllocator_ProductWithoutBOMIsSkipped(t *testing.T) {
	ledger := testLedger(map[string]string{"A": "10"})
	bom := testBOM([][3]string{
		{"X", "A", "2"},
	})

	results := allocate(t, ledger, bom, testRanking("GHOST", "X"), AllocatorConfig{EmitZeroRows: true})

	if len(results) != 1 || results[0].Product != "X" {
		t.Fatalf("Expected only X in results, got %v", results)
	}
}

func TestAllocator_UnconstrainedPolicies(t *testing.T) {
	bom := testBOM([][3]string{
		{"X", "A", "0"},
		{"X", "B", "0"},
	})

	t.Run("zero_policy_collapses_to_zero", func(t *testing.T) {
		ledger := testLedger(map[string]string{"A": "10"})
		results := allocate(t, ledger, bom, testRanking("X"), AllocatorConfig{
			Unconstrained: ZeroIfUnconstrained,
			EmitZeroRows:  true,
		})
		if len(results) != 1 || results[0].Units != 0 || results[0].Unbounded {
			t.Fatalf("Expected zero row, got %v", results)
		}
	})

	t.Run("unbounded_policy_flags_result", func(t *testing.T) {
		ledger := testLedger(map[string]string{"A": "10"})
		results := allocate(t, ledger, bom, testRanking("X"), AllocatorConfig{
			Unconstrained: UnboundedIfUnconstrained,
		})
		if len(results) != 1 || !results[0].Unbounded {
			t.Fatalf("Expected unbounded row, got %v", results)
		}
		if got := ledger.Available("A"); !got.Equal(qty("10")) {
			t.Errorf("Expected no debit for unconstrained product, got A=%s", got)
		}
	})
}

func TestAllocator_ZeroQtyLinesDoNotConstrain(t *testing.T) {
	ledger := testLedger(map[string]string{"A": "6", "DOC": "0"})
	bom := testBOM([][3]string{
		{"X", "A", "2"},
		{"X", "DOC", "0"},
	})

	results := allocate(t, ledger, bom, testRanking("X"), AllocatorConfig{})

	if len(results) != 1 || results[0].Units != 3 {
		t.Fatalf("Expected feasible 3 ignoring zero-qty line, got %v", results)
	}
}

func TestAllocator_FractionalQuantities(t *testing.T) {
	ledger := testLedger(map[string]string{"A": "5"})
	bom := testBOM([][3]string{
		{"X", "A", "1.5"},
	})

	results := allocate(t, ledger, bom, testRanking("X"), AllocatorConfig{})

	// floor(5 / 1.5) = 3, consuming 4.5
	if len(results) != 1 || results[0].Units != 3 {
		t.Fatalf("Expected feasible 3, got %v", results)
	}
	if got := ledger.Available("A"); !got.Equal(qty("0.5")) {
		t.Errorf("Expected remaining A 0.5, got %s", got)
	}
}

func TestAllocator_OutputDiscountReservation(t *testing.T) {
	ledger, bom, ranked := buildWorkshopTestData()

	policy := NewReservationPolicy(ReserveOutputDiscount)
	orders := []*entities.OrderLine{
		testOrderLine("SO-1", 10, "X", "3", "2024-01-01"),
	}
	if err := policy.Prepare(context.Background(), orders, testBOM(nil), ledger); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	allocator := NewAllocator(bom, AllocatorConfig{})
	results, err := allocator.Allocate(context.Background(), ranked, ledger, policy)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	// X feasible is 4, discounted by 3 reserved units to 1; only the
	// discounted unit consumes stock, so Y sees A = 10-2 = 8.
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Product != "X" || results[0].Units != 1 {
		t.Errorf("Expected X discounted to 1, got %d", results[0].Units)
	}
	if results[1].Product != "Y" || results[1].Units != 8 {
		t.Errorf("Expected Y feasible 8, got %d", results[1].Units)
	}
}

func TestAllocator_Cancellation(t *testing.T) {
	ledger, bom, ranked := buildWorkshopTestData()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	allocator := NewAllocator(bom, AllocatorConfig{})
	_, err := allocator.Allocate(ctx, ranked, ledger, NewReservationPolicy(ReserveNone))
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
}
