package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/orderalloc/orderalloc/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		demandFile      = flag.String("demand", "", "Path to demand lines CSV file")
		supplyFile      = flag.String("supply", "", "Path to supply totals CSV file")
		adjustmentsFile = flag.String("adjust", "", "Path to adjustments CSV file (optional)")
		configFile      = flag.String("config", "", "Path to YAML config file (optional)")
		strategy        = flag.String(
			"strategy",
			"",
			"Strategy type: FCFS, ETD_PRIORITY, PROPORTIONAL, REVENUE_PRIORITY, HYBRID",
		)
		products  = flag.String("products", "", "Comma-separated product IDs to scope to")
		customers = flag.String("customers", "", "Comma-separated customer codes to scope to")
		etdFrom   = flag.String("etd-from", "", "Earliest ETD to include, YYYY-MM-DD")
		etdTo     = flag.String("etd-to", "", "Latest ETD to include, YYYY-MM-DD")
		outputDir = flag.String("output", "", "Output directory for results (optional)")
		format    = flag.String("format", "text", "Output format: text, json, csv")
		verbose   = flag.Bool("verbose", false, "Enable verbose output")
		commit    = flag.Bool("commit", false, "Persist the allocation after validation")
		dbPath    = flag.String("db", "", "SQLite database path for committed allocations")
		actorID   = flag.String("actor", "", "Acting user ID (required with -commit)")
		role      = flag.String("role", "planner", "Acting user role: admin, planner, viewer")
		history   = flag.Bool("history", false, "List committed allocations instead of allocating")
		since     = flag.String("since", "", "With -history, only show commits since YYYY-MM-DD")
		show      = flag.String("show", "", "With -history, show one allocation by number")
		help      = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	ctx := context.Background()

	if *history {
		cmd := commands.NewHistoryCommand(commands.HistoryConfig{
			DBPath:           *dbPath,
			Since:            *since,
			AllocationNumber: *show,
		})
		if err := cmd.Execute(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Create command configuration
	config := commands.Config{
		DemandFile:      *demandFile,
		SupplyFile:      *supplyFile,
		AdjustmentsFile: *adjustmentsFile,
		ConfigFile:      *configFile,
		Strategy:        *strategy,
		Products:        *products,
		Customers:       *customers,
		ETDFrom:         *etdFrom,
		ETDTo:           *etdTo,
		OutputDir:       *outputDir,
		Format:          *format,
		Verbose:         *verbose,
		Commit:          *commit,
		DBPath:          *dbPath,
		ActorID:         *actorID,
		Role:            *role,
		Help:            *help,
	}

	// Create and execute command
	cmd := commands.NewAllocateCommand(config)

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
