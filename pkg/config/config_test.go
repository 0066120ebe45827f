package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rfaria/buildplan/pkg/planner"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "buildplan.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeTempConfig(t, `
inputs:
  scenario_dir: testdata/workshop
  database: plans.db
planning:
  unconstrained: unbounded
  reservation: ledger
  fulfill_orders: true
  fulfillment_ledger: fresh
  emit_zero_rows: true
  strip_punctuation: true
  coercion: strict
server:
  listen: ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig failed: %v", err)
	}
	if engineCfg.Unconstrained != planner.UnboundedIfUnconstrained {
		t.Errorf("Expected unbounded policy, got %v", engineCfg.Unconstrained)
	}
	if engineCfg.Reservation != planner.ReserveLedger {
		t.Errorf("Expected ledger reservation, got %v", engineCfg.Reservation)
	}
	if engineCfg.FulfillmentLedger != planner.FreshLedger {
		t.Errorf("Expected fresh ledger source, got %v", engineCfg.FulfillmentLedger)
	}
	if !engineCfg.Normalization.StripPunctuation {
		t.Error("Expected punctuation stripping enabled")
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("Expected listen :9090, got %s", cfg.Server.Listen)
	}
}

func TestLoad_DefaultsMirrorLegacyBehavior(t *testing.T) {
	cfg := Default()

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig failed: %v", err)
	}
	if engineCfg.Unconstrained != planner.ZeroIfUnconstrained {
		t.Errorf("Expected zero policy by default, got %v", engineCfg.Unconstrained)
	}
	if engineCfg.Reservation != planner.ReserveNone {
		t.Errorf("Expected no reservation by default, got %v", engineCfg.Reservation)
	}
	if engineCfg.EmitZeroRows {
		t.Error("Expected zero rows filtered by default")
	}
}

func TestLoad_RejectsInvalidEnums(t *testing.T) {
	path := writeTempConfig(t, `
planning:
  reservation: everything
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Expected error for invalid reservation strategy")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Expected error for missing config file")
	}
}
