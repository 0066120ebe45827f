package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rfaria/buildplan/pkg/domain/entities"
)

// CoercionMode controls how malformed numeric and date fields are handled
type CoercionMode int

const (
	// Lenient coerces malformed values to zero sentinels; the planner
	// excludes them from constraining computation.
	Lenient CoercionMode = iota
	// Strict rejects the file with a row-indexed error.
	Strict
)

// String method for CoercionMode enum
func (m CoercionMode) String() string {
	switch m {
	case Lenient:
		return "Lenient"
	case Strict:
		return "Strict"
	default:
		return "Unknown"
	}
}

// ParseCoercionMode parses a configuration string
func ParseCoercionMode(s string) (CoercionMode, error) {
	switch s {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	default:
		return Lenient, fmt.Errorf("invalid coercion mode: %s (expected: lenient or strict)", s)
	}
}

// Loader handles loading planning data from CSV files
type Loader struct {
	mode CoercionMode
}

// NewLoader creates a new CSV loader
func NewLoader(mode CoercionMode) *Loader {
	return &Loader{mode: mode}
}

// LoadStock loads stock records from a CSV file
func (l *Loader) LoadStock(filename string) ([]*entities.StockRecord, error) {
	records, err := l.readFile(filename, []string{"component", "quantity"})
	if err != nil {
		return nil, fmt.Errorf("stock CSV: %w", err)
	}

	var stock []*entities.StockRecord
	for i, record := range records {
		quantity, err := l.parseDecimal(record[1])
		if err != nil {
			return nil, fmt.Errorf("stock CSV row %d: invalid quantity: %s", i+2, record[1])
		}
		stock = append(stock, &entities.StockRecord{
			Component: entities.ComponentCode(record[0]),
			Quantity:  quantity,
		})
	}

	return stock, nil
}

// LoadBOM loads BOM lines from a CSV file
func (l *Loader) LoadBOM(filename string) ([]*entities.BOMLine, error) {
	records, err := l.readFile(filename, []string{"product", "component", "qty_per"})
	if err != nil {
		return nil, fmt.Errorf("BOM CSV: %w", err)
	}

	var lines []*entities.BOMLine
	for i, record := range records {
		qtyPer, err := l.parseDecimal(record[2])
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: invalid qty_per: %s", i+2, record[2])
		}
		lines = append(lines, &entities.BOMLine{
			Product:   entities.ProductCode(record[0]),
			Component: entities.ComponentCode(record[1]),
			QtyPer:    qtyPer,
		})
	}

	return lines, nil
}

// LoadPriorities loads product priority metadata from a CSV file
func (l *Loader) LoadPriorities(filename string) ([]*entities.ProductPriority, error) {
	expectedHeader := []string{"product", "priority", "description", "curve", "planner_group"}
	records, err := l.readFile(filename, expectedHeader)
	if err != nil {
		return nil, fmt.Errorf("priorities CSV: %w", err)
	}

	var priorities []*entities.ProductPriority
	for i, record := range records {
		rank, err := l.parseInt(record[1])
		if err != nil {
			return nil, fmt.Errorf("priorities CSV row %d: invalid priority: %s", i+2, record[1])
		}
		priorities = append(priorities, &entities.ProductPriority{
			Product:      entities.ProductCode(record[0]),
			Rank:         rank,
			Description:  record[2],
			Curve:        record[3],
			PlannerGroup: record[4],
		})
	}

	return priorities, nil
}

// LoadOrderLines loads open order lines from a CSV file
func (l *Loader) LoadOrderLines(filename string) ([]*entities.OrderLine, error) {
	expectedHeader := []string{"order", "line", "product", "quantity", "promised_date"}
	records, err := l.readFile(filename, expectedHeader)
	if err != nil {
		return nil, fmt.Errorf("orders CSV: %w", err)
	}

	var orders []*entities.OrderLine
	for i, record := range records {
		line, err := l.parseInt(record[1])
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: invalid line number: %s", i+2, record[1])
		}
		quantity, err := l.parseDecimal(record[3])
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: invalid quantity: %s", i+2, record[3])
		}
		promised, err := l.parseDate(record[4])
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: invalid promised_date: %s (expected YYYY-MM-DD)", i+2, record[4])
		}
		orders = append(orders, &entities.OrderLine{
			Order:        record[0],
			Line:         line,
			Product:      entities.ProductCode(record[2]),
			Quantity:     quantity,
			PromisedDate: promised,
		})
	}

	return orders, nil
}

// LoadOrderBOM loads order-specific BOM lines. The file shape matches the
// general BOM; the source may differ.
func (l *Loader) LoadOrderBOM(filename string) ([]*entities.BOMLine, error) {
	lines, err := l.LoadBOM(filename)
	if err != nil {
		return nil, fmt.Errorf("order %w", err)
	}
	return lines, nil
}

// readFile reads a CSV file, validates its header, and returns data rows
func (l *Loader) readFile(filename string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s must have header and at least one data row", filename)
	}

	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s header mismatch. Expected: %v, Got: %v", filename, expectedHeader, records[0])
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", filename, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

// parseDecimal coerces malformed values to zero in lenient mode
func (l *Loader) parseDecimal(s string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		if l.mode == Lenient {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return value, nil
}

// parseInt coerces malformed values to zero in lenient mode
func (l *Loader) parseInt(s string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		if l.mode == Lenient {
			return 0, nil
		}
		return 0, err
	}
	return value, nil
}

// parseDate coerces malformed values to the zero time in lenient mode;
// zero-dated order lines sort first, matching "missing" sentinel handling.
func (l *Loader) parseDate(s string) (time.Time, error) {
	value, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		if l.mode == Lenient {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return value, nil
}
