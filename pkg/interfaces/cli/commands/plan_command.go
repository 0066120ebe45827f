package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rfaria/buildplan/pkg/config"
	"github.com/rfaria/buildplan/pkg/domain/repositories"
	"github.com/rfaria/buildplan/pkg/infrastructure/repositories/csv"
	"github.com/rfaria/buildplan/pkg/infrastructure/repositories/memory"
	"github.com/rfaria/buildplan/pkg/infrastructure/repositories/sqlite"
	"github.com/rfaria/buildplan/pkg/interfaces/cli/output"
	"github.com/rfaria/buildplan/pkg/planner"
)

// Config holds configuration for the plan command
type Config struct {
	ConfigFile     string
	ScenarioDir    string
	StockFile      string
	BOMFile        string
	PrioritiesFile string
	OrdersFile     string
	OrderBOMFile   string
	Database       string
	Format         string
	Verbose        bool
	Help           bool
}

// PlanCommand handles the main planning execution logic
type PlanCommand struct {
	config Config
	out    io.Writer
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(cfg Config) *PlanCommand {
	return &PlanCommand{
		config: cfg,
		out:    os.Stdout,
	}
}

// SetOutput redirects rendered results, used by tests
func (c *PlanCommand) SetOutput(w io.Writer) {
	c.out = w
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	appConfig, err := c.loadAppConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := c.validateInputs(appConfig); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	files, err := c.resolveInputFiles(appConfig)
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	format, err := output.ParseFormat(c.config.Format)
	if err != nil {
		return err
	}

	engineConfig, err := appConfig.EngineConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	coercion, err := appConfig.CoercionMode()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(files)
	}

	if c.config.Verbose {
		fmt.Println("Loading data from CSV files...")
	}

	loader := csv.NewLoader(coercion)

	stock, err := loader.LoadStock(files["Stock"])
	if err != nil {
		return fmt.Errorf("error loading stock: %w", err)
	}

	bomLines, err := loader.LoadBOM(files["BOM"])
	if err != nil {
		return fmt.Errorf("error loading BOM: %w", err)
	}

	priorities, err := loader.LoadPriorities(files["Priorities"])
	if err != nil {
		return fmt.Errorf("error loading priorities: %w", err)
	}

	stockRepo := memory.NewStockRepository()
	if err := stockRepo.LoadStock(stock); err != nil {
		return fmt.Errorf("failed to load stock into repository: %w", err)
	}

	bomRepo := memory.NewBOMRepository()
	if err := bomRepo.LoadBOMLines(bomLines); err != nil {
		return fmt.Errorf("failed to load BOM lines into repository: %w", err)
	}

	priorityRepo := memory.NewPriorityRepository()
	if err := priorityRepo.LoadPriorities(priorities); err != nil {
		return fmt.Errorf("failed to load priorities into repository: %w", err)
	}

	orderRepo, err := c.loadOrders(loader, files)
	if err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Printf("Data loaded:\n")
		fmt.Printf("  Stock records: %d\n", len(stock))
		fmt.Printf("  BOM lines: %d\n", len(bomLines))
		fmt.Printf("  Priorities: %d\n", len(priorities))
		fmt.Println()
	}

	// A nil *memory.OrderRepository must stay a nil interface for the
	// engine's no-orders path.
	var engineOrderRepo repositories.OrderRepository
	if orderRepo != nil {
		engineOrderRepo = orderRepo
	}

	engine := planner.NewEngineWithConfig(stockRepo, bomRepo, priorityRepo, engineOrderRepo, engineConfig)

	if c.config.Verbose {
		fmt.Println("Running allocation...")
	}

	startTime := time.Now()
	result, err := engine.Plan(ctx)
	planTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error running plan: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("Plan completed in %v\n\n", planTime)
	}

	database := c.config.Database
	if database == "" {
		database = appConfig.Inputs.Database
	}
	if database != "" {
		if err := c.persistResult(ctx, database, result); err != nil {
			return fmt.Errorf("error persisting plan: %w", err)
		}
		if c.config.Verbose {
			fmt.Printf("Plan %s saved to %s\n\n", result.RunID, database)
		}
	}

	if err := output.Render(c.out, result, format); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

// loadAppConfig merges the optional YAML file with defaults
func (c *PlanCommand) loadAppConfig() (config.Config, error) {
	if c.config.ConfigFile == "" {
		return config.Default(), nil
	}
	return config.Load(c.config.ConfigFile)
}

// loadOrders returns a populated order repository, or nil when the run
// carries no order inputs.
func (c *PlanCommand) loadOrders(loader *csv.Loader, files map[string]string) (*memory.OrderRepository, error) {
	ordersPath := files["Orders"]
	orderBOMPath := files["OrderBOM"]
	if ordersPath == "" && orderBOMPath == "" {
		return nil, nil
	}

	orderRepo := memory.NewOrderRepository()
	if ordersPath != "" {
		orders, err := loader.LoadOrderLines(ordersPath)
		if err != nil {
			return nil, fmt.Errorf("error loading orders: %w", err)
		}
		if err := orderRepo.LoadOrderLines(orders); err != nil {
			return nil, fmt.Errorf("failed to load orders into repository: %w", err)
		}
	}
	if orderBOMPath != "" {
		orderBOM, err := loader.LoadOrderBOM(orderBOMPath)
		if err != nil {
			return nil, fmt.Errorf("error loading order BOM: %w", err)
		}
		if err := orderRepo.LoadOrderBOMLines(orderBOM); err != nil {
			return nil, fmt.Errorf("failed to load order BOM into repository: %w", err)
		}
	}
	return orderRepo, nil
}

// persistResult saves the plan run to the SQLite store
func (c *PlanCommand) persistResult(ctx context.Context, dbPath string, result *planner.PlanResult) error {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SavePlanResult(ctx, result)
}

// validateInputs validates the command configuration
func (c *PlanCommand) validateInputs(appConfig config.Config) error {
	if c.config.ScenarioDir != "" || appConfig.Inputs.ScenarioDir != "" {
		return nil
	}
	stock := firstNonEmpty(c.config.StockFile, appConfig.Inputs.Stock)
	bom := firstNonEmpty(c.config.BOMFile, appConfig.Inputs.BOM)
	priorities := firstNonEmpty(c.config.PrioritiesFile, appConfig.Inputs.Priorities)
	if stock == "" || bom == "" || priorities == "" {
		return fmt.Errorf("must specify either -scenario directory or stock, bom and priorities files")
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use. Scenario
// directories use conventional names; individual flags override.
func (c *PlanCommand) resolveInputFiles(appConfig config.Config) (map[string]string, error) {
	scenarioDir := firstNonEmpty(c.config.ScenarioDir, appConfig.Inputs.ScenarioDir)

	files := map[string]string{
		"Stock":      firstNonEmpty(c.config.StockFile, appConfig.Inputs.Stock),
		"BOM":        firstNonEmpty(c.config.BOMFile, appConfig.Inputs.BOM),
		"Priorities": firstNonEmpty(c.config.PrioritiesFile, appConfig.Inputs.Priorities),
		"Orders":     firstNonEmpty(c.config.OrdersFile, appConfig.Inputs.Orders),
		"OrderBOM":   firstNonEmpty(c.config.OrderBOMFile, appConfig.Inputs.OrderBOM),
	}

	if scenarioDir != "" {
		conventional := map[string]string{
			"Stock":      "stock.csv",
			"BOM":        "bom.csv",
			"Priorities": "priorities.csv",
			"Orders":     "orders.csv",
			"OrderBOM":   "order_bom.csv",
		}
		for name, base := range conventional {
			if files[name] != "" {
				continue
			}
			path := filepath.Join(scenarioDir, base)
			if _, err := os.Stat(path); err == nil {
				files[name] = path
			}
		}
	}

	for _, name := range []string{"Stock", "BOM", "Priorities"} {
		path := files[name]
		if path == "" {
			return nil, fmt.Errorf("%s file not found in scenario directory %s", name, scenarioDir)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	return files, nil
}

// printHeader prints the command header information
func (c *PlanCommand) printHeader(files map[string]string) {
	fmt.Printf("Build Plan CLI\n")
	fmt.Printf("Input files:\n")
	fmt.Printf("  Stock: %s\n", files["Stock"])
	fmt.Printf("  BOM: %s\n", files["BOM"])
	fmt.Printf("  Priorities: %s\n", files["Priorities"])
	if files["Orders"] != "" {
		fmt.Printf("  Orders: %s\n", files["Orders"])
	}
	if files["OrderBOM"] != "" {
		fmt.Printf("  Order BOM: %s\n", files["OrderBOM"])
	}
	fmt.Printf("Output format: %s\n", c.config.Format)
	fmt.Println()
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Println(`buildplan - greedy build plan and order fulfillment engine

Usage:
  buildplan [flags]

Input selection:
  -config      Path to YAML configuration file
  -scenario    Directory with stock.csv, bom.csv, priorities.csv and
               optionally orders.csv, order_bom.csv
  -stock       Path to stock CSV file
  -bom         Path to BOM CSV file
  -priorities  Path to priorities CSV file
  -orders      Path to order lines CSV file
  -order-bom   Path to order BOM CSV file
  -db          SQLite file to persist the plan run

Output:
  -format      Output format: text, json, csv, msgpack (default text)
  -verbose     Enable verbose output

Behavioral switches (unconstrained policy, reservation strategy, order
fulfillment) are set in the YAML configuration file.`)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
