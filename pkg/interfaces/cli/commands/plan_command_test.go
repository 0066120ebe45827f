package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScenario(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func TestPlanCommand_ScenarioDirectory(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, map[string]string{
		"stock.csv": "component,quantity\nA,10\nB,4\n",
		"bom.csv": "product,component,qty_per\n" +
			"X,A,2\nX,B,1\nY,A,1\n",
		"priorities.csv": "product,priority,description,curve,planner_group\n" +
			"X,1,Widget X,A,PG1\nY,2,Widget Y,B,PG1\n",
	})

	cmd := NewPlanCommand(Config{ScenarioDir: dir, Format: "csv"})
	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "X,Widget X,A,PG1,4") {
		t.Errorf("expected X build row, got:\n%s", out)
	}
	if !strings.Contains(out, "Y,Widget Y,B,PG1,2") {
		t.Errorf("expected Y build row, got:\n%s", out)
	}
}

func TestPlanCommand_IndividualFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, map[string]string{
		"inv.csv":   "component,quantity\nA,6\n",
		"recipe.csv": "product,component,qty_per\nX,A,3\n",
		"rank.csv": "product,priority,description,curve,planner_group\n" +
			"X,1,,,\n",
	})

	cmd := NewPlanCommand(Config{
		StockFile:      filepath.Join(dir, "inv.csv"),
		BOMFile:        filepath.Join(dir, "recipe.csv"),
		PrioritiesFile: filepath.Join(dir, "rank.csv"),
		Format:         "json",
	})
	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"units": 2`) {
		t.Errorf("expected 2 buildable units, got:\n%s", buf.String())
	}
}

func TestPlanCommand_MissingInputs(t *testing.T) {
	cmd := NewPlanCommand(Config{Format: "text"})
	err := cmd.Execute(context.Background())
	if err == nil {
		t.Fatal("expected error when no inputs are configured")
	}
	if !strings.Contains(err.Error(), "validation error") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPlanCommand_MissingFile(t *testing.T) {
	dir := t.TempDir()
	cmd := NewPlanCommand(Config{
		StockFile:      filepath.Join(dir, "nope.csv"),
		BOMFile:        filepath.Join(dir, "nope.csv"),
		PrioritiesFile: filepath.Join(dir, "nope.csv"),
	})
	if err := cmd.Execute(context.Background()); err == nil {
		t.Fatal("expected error for missing files")
	}
}

func TestPlanCommand_PersistsToDatabase(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, map[string]string{
		"stock.csv": "component,quantity\nA,10\n",
		"bom.csv":   "product,component,qty_per\nX,A,2\n",
		"priorities.csv": "product,priority,description,curve,planner_group\n" +
			"X,1,,,\n",
	})

	dbPath := filepath.Join(dir, "plans.db")
	cmd := NewPlanCommand(Config{ScenarioDir: dir, Database: dbPath, Format: "text"})
	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("expected database file to be created: %v", err)
	}
}
