package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rfaria/buildplan/pkg/config"
	"github.com/rfaria/buildplan/pkg/infrastructure/repositories/sqlite"
	"github.com/rfaria/buildplan/pkg/interfaces/api"
	"github.com/rfaria/buildplan/pkg/interfaces/cli/commands"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to YAML configuration file")
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing CSV files",
		)
		stockFile      = flag.String("stock", "", "Path to stock CSV file")
		bomFile        = flag.String("bom", "", "Path to BOM CSV file")
		prioritiesFile = flag.String("priorities", "", "Path to priorities CSV file")
		ordersFile     = flag.String("orders", "", "Path to order lines CSV file")
		orderBOMFile   = flag.String("order-bom", "", "Path to order BOM CSV file")
		database       = flag.String("db", "", "SQLite file to persist plan runs")
		format         = flag.String("format", "text", "Output format: text, json, csv, msgpack")
		verbose        = flag.Bool("verbose", false, "Enable verbose output")
		serve          = flag.Bool("serve", false, "Run the HTTP API instead of a one-shot plan")
		help           = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *serve {
		if err := runServer(*configFile, *database); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg := commands.Config{
		ConfigFile:     *configFile,
		ScenarioDir:    *scenarioDir,
		StockFile:      *stockFile,
		BOMFile:        *bomFile,
		PrioritiesFile: *prioritiesFile,
		OrdersFile:     *ordersFile,
		OrderBOMFile:   *orderBOMFile,
		Database:       *database,
		Format:         *format,
		Verbose:        *verbose,
		Help:           *help,
	}

	cmd := commands.NewPlanCommand(cfg)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runServer starts the HTTP API backed by the SQLite store
func runServer(configFile, database string) error {
	appConfig := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		appConfig = loaded
	}

	dbPath := database
	if dbPath == "" {
		dbPath = appConfig.Inputs.Database
	}
	if dbPath == "" {
		return fmt.Errorf("serve mode requires a database (-db flag or inputs.database)")
	}

	engineConfig, err := appConfig.EngineConfig()
	if err != nil {
		return err
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, engineConfig)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         appConfig.Server.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
