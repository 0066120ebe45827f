package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rfaria/buildplan/pkg/domain/entities"
	"github.com/rfaria/buildplan/pkg/domain/repositories"
	"github.com/rfaria/buildplan/pkg/planner"
)

// ErrPlanNotFound reports a lookup for a run ID with no persisted plan
var ErrPlanNotFound = errors.New("plan run not found")

// Store provides a SQLite-backed source for the planning record sets and a
// sink for plan results. Quantities are stored as text and parsed with
// decimal to avoid float drift.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Verify interface compliance
var (
	_ repositories.StockRepository    = (*Store)(nil)
	_ repositories.BOMRepository      = (*Store)(nil)
	_ repositories.PriorityRepository = (*Store)(nil)
	_ repositories.OrderRepository    = (*Store)(nil)
)

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stock (
		rowid_order INTEGER PRIMARY KEY AUTOINCREMENT,
		component TEXT NOT NULL,
		quantity TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bom_lines (
		rowid_order INTEGER PRIMARY KEY AUTOINCREMENT,
		product TEXT NOT NULL,
		component TEXT NOT NULL,
		qty_per TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_bom_lines_product ON bom_lines(product);

	CREATE TABLE IF NOT EXISTS priorities (
		rowid_order INTEGER PRIMARY KEY AUTOINCREMENT,
		product TEXT NOT NULL,
		priority_rank INTEGER NOT NULL,
		description TEXT,
		curve TEXT,
		planner_group TEXT
	);

	CREATE TABLE IF NOT EXISTS order_lines (
		rowid_order INTEGER PRIMARY KEY AUTOINCREMENT,
		order_code TEXT NOT NULL,
		line_number INTEGER NOT NULL,
		product TEXT NOT NULL,
		quantity TEXT NOT NULL,
		promised_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS order_bom_lines (
		rowid_order INTEGER PRIMARY KEY AUTOINCREMENT,
		product TEXT NOT NULL,
		component TEXT NOT NULL,
		qty_per TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_order_bom_lines_product ON order_bom_lines(product);

	CREATE TABLE IF NOT EXISTS plan_runs (
		run_id TEXT PRIMARY KEY,
		generated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS plan_builds (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		product TEXT NOT NULL,
		units INTEGER NOT NULL,
		unbounded INTEGER NOT NULL DEFAULT 0,
		description TEXT,
		curve TEXT,
		planner_group TEXT,
		FOREIGN KEY (run_id) REFERENCES plan_runs(run_id)
	);
	CREATE INDEX IF NOT EXISTS idx_plan_builds_run ON plan_builds(run_id);

	CREATE TABLE IF NOT EXISTS plan_fulfillments (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		order_code TEXT NOT NULL,
		line_number INTEGER NOT NULL,
		product TEXT NOT NULL,
		quantity TEXT NOT NULL,
		promised_date TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES plan_runs(run_id)
	);
	CREATE INDEX IF NOT EXISTS idx_plan_fulfillments_run ON plan_fulfillments(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// LoadStock persists stock records
func (s *Store) LoadStock(records []*entities.StockRecord) error {
	for _, record := range records {
		_, err := s.db.Exec(`INSERT INTO stock (component, quantity) VALUES (?, ?)`,
			string(record.Component), record.Quantity.String())
		if err != nil {
			return fmt.Errorf("failed to insert stock record: %w", err)
		}
	}
	return nil
}

// GetAllStock returns all stock records in insertion order
func (s *Store) GetAllStock(ctx context.Context) ([]*entities.StockRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT component, quantity FROM stock ORDER BY rowid_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}
	defer rows.Close()

	var records []*entities.StockRecord
	for rows.Next() {
		var component, quantity string
		if err := rows.Scan(&component, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan stock row: %w", err)
		}
		qty, err := decimal.NewFromString(quantity)
		if err != nil {
			return nil, fmt.Errorf("invalid stored quantity %q: %w", quantity, err)
		}
		records = append(records, &entities.StockRecord{
			Component: entities.ComponentCode(component),
			Quantity:  qty,
		})
	}
	return records, rows.Err()
}

// LoadBOMLines persists BOM lines
func (s *Store) LoadBOMLines(lines []*entities.BOMLine) error {
	return s.insertBOMLines("bom_lines", lines)
}

// GetBOM returns the BOM lines for one product in insertion order
func (s *Store) GetBOM(ctx context.Context, product entities.ProductCode) ([]*entities.BOMLine, error) {
	return s.queryBOMLines(ctx,
		`SELECT product, component, qty_per FROM bom_lines WHERE product = ? ORDER BY rowid_order`,
		string(product))
}

// GetAllBOMLines returns all BOM lines in insertion order
func (s *Store) GetAllBOMLines(ctx context.Context) ([]*entities.BOMLine, error) {
	return s.queryBOMLines(ctx,
		`SELECT product, component, qty_per FROM bom_lines ORDER BY rowid_order`)
}

// LoadPriorities persists priority records
func (s *Store) LoadPriorities(priorities []*entities.ProductPriority) error {
	for _, p := range priorities {
		_, err := s.db.Exec(
			`INSERT INTO priorities (product, priority_rank, description, curve, planner_group) VALUES (?, ?, ?, ?, ?)`,
			string(p.Product), p.Rank, p.Description, p.Curve, p.PlannerGroup)
		if err != nil {
			return fmt.Errorf("failed to insert priority record: %w", err)
		}
	}
	return nil
}

// GetAllPriorities returns priority records in insertion order
func (s *Store) GetAllPriorities(ctx context.Context) ([]*entities.ProductPriority, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product, priority_rank, description, curve, planner_group FROM priorities ORDER BY rowid_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to query priorities: %w", err)
	}
	defer rows.Close()

	var priorities []*entities.ProductPriority
	for rows.Next() {
		var p entities.ProductPriority
		var product string
		if err := rows.Scan(&product, &p.Rank, &p.Description, &p.Curve, &p.PlannerGroup); err != nil {
			return nil, fmt.Errorf("failed to scan priority row: %w", err)
		}
		p.Product = entities.ProductCode(product)
		priorities = append(priorities, &p)
	}
	return priorities, rows.Err()
}

// LoadOrderLines persists open order lines
func (s *Store) LoadOrderLines(lines []*entities.OrderLine) error {
	for _, line := range lines {
		_, err := s.db.Exec(
			`INSERT INTO order_lines (order_code, line_number, product, quantity, promised_date) VALUES (?, ?, ?, ?, ?)`,
			line.Order, line.Line, string(line.Product), line.Quantity.String(),
			line.PromisedDate.Format("2006-01-02"))
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}
	return nil
}

// GetAllOrderLines returns open order lines in insertion order
func (s *Store) GetAllOrderLines(ctx context.Context) ([]*entities.OrderLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_code, line_number, product, quantity, promised_date FROM order_lines ORDER BY rowid_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var orders []*entities.OrderLine
	for rows.Next() {
		var line entities.OrderLine
		var product, quantity, promised string
		if err := rows.Scan(&line.Order, &line.Line, &product, &quantity, &promised); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		qty, err := decimal.NewFromString(quantity)
		if err != nil {
			return nil, fmt.Errorf("invalid stored quantity %q: %w", quantity, err)
		}
		date, err := time.Parse("2006-01-02", promised)
		if err != nil {
			return nil, fmt.Errorf("invalid stored promised date %q: %w", promised, err)
		}
		line.Product = entities.ProductCode(product)
		line.Quantity = qty
		line.PromisedDate = date
		orders = append(orders, &line)
	}
	return orders, rows.Err()
}

// LoadOrderBOMLines persists order-specific BOM lines
func (s *Store) LoadOrderBOMLines(lines []*entities.BOMLine) error {
	return s.insertBOMLines("order_bom_lines", lines)
}

// GetOrderBOM returns the order-specific BOM lines for one product
func (s *Store) GetOrderBOM(ctx context.Context, product entities.ProductCode) ([]*entities.BOMLine, error) {
	return s.queryBOMLines(ctx,
		`SELECT product, component, qty_per FROM order_bom_lines WHERE product = ? ORDER BY rowid_order`,
		string(product))
}

// GetAllOrderBOMLines returns all order-specific BOM lines in insertion order
func (s *Store) GetAllOrderBOMLines(ctx context.Context) ([]*entities.BOMLine, error) {
	return s.queryBOMLines(ctx,
		`SELECT product, component, qty_per FROM order_bom_lines ORDER BY rowid_order`)
}

// SavePlanResult persists a completed planning run keyed by its run ID
func (s *Store) SavePlanResult(ctx context.Context, result *planner.PlanResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO plan_runs (run_id, generated_at) VALUES (?, ?)`,
		result.RunID.String(), result.GeneratedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert plan run: %w", err)
	}

	for i, build := range result.Builds {
		unbounded := 0
		if build.Unbounded {
			unbounded = 1
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO plan_builds (run_id, position, product, units, unbounded, description, curve, planner_group)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			result.RunID.String(), i, string(build.Product), int64(build.Units), unbounded,
			build.Description, build.Curve, build.PlannerGroup)
		if err != nil {
			return fmt.Errorf("failed to insert build result: %w", err)
		}
	}

	for i, line := range result.Fulfilled {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO plan_fulfillments (run_id, position, order_code, line_number, product, quantity, promised_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			result.RunID.String(), i, line.Order, line.Line, string(line.Product),
			line.Quantity.String(), line.PromisedDate.Format("2006-01-02"))
		if err != nil {
			return fmt.Errorf("failed to insert fulfillment: %w", err)
		}
	}

	return tx.Commit()
}

// GetPlanResult loads a persisted planning run
func (s *Store) GetPlanResult(ctx context.Context, runID uuid.UUID) (*planner.PlanResult, error) {
	var generatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT generated_at FROM plan_runs WHERE run_id = ?`, runID.String()).Scan(&generatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query plan run: %w", err)
	}

	when, err := time.Parse(time.RFC3339, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid stored timestamp %q: %w", generatedAt, err)
	}

	result := &planner.PlanResult{
		RunID:       runID,
		GeneratedAt: when,
	}

	buildRows, err := s.db.QueryContext(ctx,
		`SELECT product, units, unbounded, description, curve, planner_group
		 FROM plan_builds WHERE run_id = ? ORDER BY position`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query build results: %w", err)
	}
	defer buildRows.Close()

	for buildRows.Next() {
		var build entities.BuildResult
		var product string
		var units int64
		var unbounded int
		if err := buildRows.Scan(&product, &units, &unbounded, &build.Description, &build.Curve, &build.PlannerGroup); err != nil {
			return nil, fmt.Errorf("failed to scan build result: %w", err)
		}
		build.Product = entities.ProductCode(product)
		build.Units = entities.Units(units)
		build.Unbounded = unbounded != 0
		result.Builds = append(result.Builds, build)
	}
	if err := buildRows.Err(); err != nil {
		return nil, err
	}

	fulfillRows, err := s.db.QueryContext(ctx,
		`SELECT order_code, line_number, product, quantity, promised_date
		 FROM plan_fulfillments WHERE run_id = ? ORDER BY position`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query fulfillments: %w", err)
	}
	defer fulfillRows.Close()

	for fulfillRows.Next() {
		var line entities.FulfilledLine
		var product, quantity, promised string
		if err := fulfillRows.Scan(&line.Order, &line.Line, &product, &quantity, &promised); err != nil {
			return nil, fmt.Errorf("failed to scan fulfillment: %w", err)
		}
		qty, err := decimal.NewFromString(quantity)
		if err != nil {
			return nil, fmt.Errorf("invalid stored quantity %q: %w", quantity, err)
		}
		date, err := time.Parse("2006-01-02", promised)
		if err != nil {
			return nil, fmt.Errorf("invalid stored promised date %q: %w", promised, err)
		}
		line.Product = entities.ProductCode(product)
		line.Quantity = qty
		line.PromisedDate = date
		result.Fulfilled = append(result.Fulfilled, line)
	}
	return result, fulfillRows.Err()
}

func (s *Store) insertBOMLines(table string, lines []*entities.BOMLine) error {
	for _, line := range lines {
		_, err := s.db.Exec(
			`INSERT INTO `+table+` (product, component, qty_per) VALUES (?, ?, ?)`,
			string(line.Product), string(line.Component), line.QtyPer.String())
		if err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

func (s *Store) queryBOMLines(ctx context.Context, query string, args ...any) ([]*entities.BOMLine, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query BOM lines: %w", err)
	}
	defer rows.Close()

	var lines []*entities.BOMLine
	for rows.Next() {
		var product, component, qtyPer string
		if err := rows.Scan(&product, &component, &qtyPer); err != nil {
			return nil, fmt.Errorf("failed to scan BOM line: %w", err)
		}
		qty, err := decimal.NewFromString(qtyPer)
		if err != nil {
			return nil, fmt.Errorf("invalid stored qty_per %q: %w", qtyPer, err)
		}
		lines = append(lines, &entities.BOMLine{
			Product:   entities.ProductCode(product),
			Component: entities.ComponentCode(component),
			QtyPer:    qty,
		})
	}
	return lines, rows.Err()
}
