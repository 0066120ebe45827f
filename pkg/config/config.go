package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rfaria/buildplan/pkg/domain/entities"
	"github.com/rfaria/buildplan/pkg/infrastructure/repositories/csv"
	"github.com/rfaria/buildplan/pkg/planner"
)

// Config is the YAML-backed configuration of a planning run
type Config struct {
	Inputs   InputsConfig   `yaml:"inputs"`
	Planning PlanningConfig `yaml:"planning"`
	Server   ServerConfig   `yaml:"server"`
}

// InputsConfig locates the input record sets
type InputsConfig struct {
	// ScenarioDir holds the conventional file names (stock.csv, bom.csv,
	// priorities.csv, orders.csv, order_bom.csv). Individual paths
	// override it.
	ScenarioDir string `yaml:"scenario_dir"`
	Stock       string `yaml:"stock"`
	BOM         string `yaml:"bom"`
	Priorities  string `yaml:"priorities"`
	Orders      string `yaml:"orders"`
	OrderBOM    string `yaml:"order_bom"`
	// Database is an optional SQLite file; when set, results are
	// persisted there keyed by run ID.
	Database string `yaml:"database"`
}

// PlanningConfig carries the behavioral switches of the engine
type PlanningConfig struct {
	Unconstrained     string `yaml:"unconstrained"`
	Reservation       string `yaml:"reservation"`
	FulfillOrders     bool   `yaml:"fulfill_orders"`
	FulfillmentLedger string `yaml:"fulfillment_ledger"`
	EmitZeroRows      bool   `yaml:"emit_zero_rows"`
	StripPunctuation  bool   `yaml:"strip_punctuation"`
	Coercion          string `yaml:"coercion"`
}

// ServerConfig configures the optional HTTP API
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns the configuration matching the observed legacy behavior
func Default() Config {
	return Config{
		Planning: PlanningConfig{
			Unconstrained:     "zero",
			Reservation:       "none",
			FulfillmentLedger: "post-allocation",
			Coercion:          "lenient",
		},
		Server: ServerConfig{
			Listen: ":8080",
		},
	}
}

// Load reads and validates a YAML configuration file
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if _, err := cfg.EngineConfig(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	if _, err := cfg.CoercionMode(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// EngineConfig translates the planning section into an engine configuration
func (c Config) EngineConfig() (planner.EngineConfig, error) {
	unconstrained, err := planner.ParseUnconstrainedPolicy(c.Planning.Unconstrained)
	if err != nil {
		return planner.EngineConfig{}, err
	}
	reservation, err := planner.ParseReservationStrategy(c.Planning.Reservation)
	if err != nil {
		return planner.EngineConfig{}, err
	}
	ledgerSource, err := planner.ParseLedgerSource(c.Planning.FulfillmentLedger)
	if err != nil {
		return planner.EngineConfig{}, err
	}

	return planner.EngineConfig{
		Normalization: entities.CodeNormalization{
			StripPunctuation: c.Planning.StripPunctuation,
		},
		Unconstrained:     unconstrained,
		EmitZeroRows:      c.Planning.EmitZeroRows,
		Reservation:       reservation,
		FulfillOrders:     c.Planning.FulfillOrders,
		FulfillmentLedger: ledgerSource,
	}, nil
}

// CoercionMode translates the coercion setting for the CSV loader
func (c Config) CoercionMode() (csv.CoercionMode, error) {
	return csv.ParseCoercionMode(c.Planning.Coercion)
}
