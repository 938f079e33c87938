package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/orderalloc/orderalloc/pkg/application/dto"
	"github.com/orderalloc/orderalloc/pkg/application/services/allocation"
	"github.com/orderalloc/orderalloc/pkg/domain/entities"
	"github.com/orderalloc/orderalloc/pkg/domain/services"
	appconfig "github.com/orderalloc/orderalloc/pkg/infrastructure/config"
	"github.com/orderalloc/orderalloc/pkg/infrastructure/logging"
	"github.com/orderalloc/orderalloc/pkg/infrastructure/repositories/csv"
	"github.com/orderalloc/orderalloc/pkg/infrastructure/repositories/memory"
	"github.com/orderalloc/orderalloc/pkg/infrastructure/storage"
	"github.com/orderalloc/orderalloc/pkg/interfaces/cli/output"
)

// Config holds configuration for the allocate command
type Config struct {
	DemandFile      string
	SupplyFile      string
	AdjustmentsFile string
	ConfigFile      string
	Strategy        string
	Products        string
	Customers       string
	ETDFrom         string
	ETDTo           string
	OutputDir       string
	Format          string
	Verbose         bool
	Commit          bool
	DBPath          string
	ActorID         string
	Role            string
	Help            bool
}

// AllocateCommand handles the main allocation execution logic
type AllocateCommand struct {
	config Config
}

// NewAllocateCommand creates a new allocate command with the given configuration
func NewAllocateCommand(config Config) *AllocateCommand {
	return &AllocateCommand{
		config: config,
	}
}

// Execute runs the allocate command
func (c *AllocateCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	appCfg, err := c.loadAppConfig()
	if err != nil {
		return err
	}

	strategyCfg, err := c.resolveStrategy(appCfg)
	if err != nil {
		return err
	}

	// Load data from CSV files
	if c.config.Verbose {
		fmt.Println("📂 Loading data from CSV files...")
	}

	csvLoader := csv.NewLoader()

	lines, err := csvLoader.LoadDemandLines(c.config.DemandFile)
	if err != nil {
		return fmt.Errorf("error loading demand lines: %w", err)
	}

	totals, err := csvLoader.LoadSupply(c.config.SupplyFile)
	if err != nil {
		return fmt.Errorf("error loading supply: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Data loaded successfully:\n")
		fmt.Printf("  Demand Lines: %d\n", len(lines))
		fmt.Printf("  Products with Supply: %d\n", len(totals))
		fmt.Println()
	}

	// Create repositories
	demandRepo := memory.NewDemandRepository()
	demandRepo.LoadDemandLines(lines)

	supplyRepo := memory.NewSupplyRepository()
	for productID, total := range totals {
		supplyRepo.SetSupply(productID, total)
	}

	scope, err := c.buildScope()
	if err != nil {
		return err
	}

	scopedLines, err := demandRepo.GetDemandLines(ctx, scope)
	if err != nil {
		return fmt.Errorf("error reading demand lines: %w", err)
	}
	supplies := services.BuildSupplySnapshots(totals, scopedLines)

	// Run simulation
	if c.config.Verbose {
		fmt.Printf("🔄 Running %s allocation...\n", strategyCfg.StrategyType)
	}

	engine := allocation.NewEngine(logging.NewLoggerWithSystem(appCfg.Logging, "engine"))

	startTime := time.Now()
	results, err := engine.Simulate(ctx, scopedLines, supplies, strategyCfg)
	simulationTime := time.Since(startTime)

	if err != nil {
		return fmt.Errorf("error running allocation: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Allocation completed in %v\n\n", simulationTime)
	}

	// Apply operator adjustments if provided
	if c.config.AdjustmentsFile != "" {
		overrides, err := csvLoader.LoadAdjustments(c.config.AdjustmentsFile)
		if err != nil {
			return fmt.Errorf("error loading adjustments: %w", err)
		}
		results = allocation.RecalculateWithAdjustments(results, overrides, supplies)
		if c.config.Verbose {
			fmt.Printf("✏️  Applied %d adjustments\n\n", len(overrides))
		}
	}

	report := &output.Report{
		Results:   results,
		Summaries: dto.Summarize(results, supplies),
	}

	// Validate, then commit when requested
	role := entities.Role(c.config.Role)
	validation := allocation.Validate(results, scopedLines, supplies, role, strategyCfg)
	report.Validation = validation

	if c.config.Commit {
		if !validation.Valid {
			if genErr := c.generate(report, simulationTime); genErr != nil {
				return genErr
			}
			return fmt.Errorf("refusing to commit: validation failed")
		}

		receipt, err := c.commit(ctx, results, demandRepo, supplyRepo, appCfg, strategyCfg)
		if err != nil {
			return err
		}
		report.Receipt = receipt
	}

	return c.generate(report, simulationTime)
}

func (c *AllocateCommand) generate(report *output.Report, simulationTime time.Duration) error {
	return output.Generate(report, output.Config{
		Format:         c.config.Format,
		OutputDir:      c.config.OutputDir,
		Verbose:        c.config.Verbose,
		SimulationTime: simulationTime,
	})
}

func (c *AllocateCommand) commit(
	ctx context.Context,
	results []*entities.AllocationResult,
	demandRepo *memory.DemandRepository,
	supplyRepo *memory.SupplyRepository,
	appCfg *appconfig.Config,
	strategyCfg *entities.StrategyConfig,
) (*dto.CommitReceipt, error) {
	dbPath := c.config.DBPath
	if dbPath == "" {
		dbPath = appCfg.Storage.DatabasePath
	}

	store, err := storage.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening allocation store: %w", err)
	}
	defer store.Close()

	committer := allocation.NewCommitter(demandRepo, supplyRepo, store,
		logging.NewLoggerWithSystem(appCfg.Logging, "commit"))

	metadata := map[string]string{
		"strategy": strategyCfg.StrategyType.String(),
		"source":   c.config.DemandFile,
	}

	receipt, err := committer.Commit(ctx, results, strategyCfg, metadata, c.config.ActorID)
	if err != nil {
		return nil, fmt.Errorf("error committing allocation: %w", err)
	}
	return receipt, nil
}

// validateInputs checks required flags
func (c *AllocateCommand) validateInputs() error {
	if c.config.DemandFile == "" {
		return fmt.Errorf("demand file is required (use -demand)")
	}
	if c.config.SupplyFile == "" {
		return fmt.Errorf("supply file is required (use -supply)")
	}
	if c.config.Commit && c.config.ActorID == "" {
		return fmt.Errorf("actor ID is required when committing (use -actor)")
	}
	return nil
}

// loadAppConfig loads the YAML config file, or defaults when none given
func (c *AllocateCommand) loadAppConfig() (*appconfig.Config, error) {
	if c.config.ConfigFile == "" {
		return appconfig.Default(), nil
	}
	cfg, err := appconfig.Load(c.config.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config file: %w", err)
	}
	return cfg, nil
}

// resolveStrategy builds the strategy configuration, letting the
// -strategy flag override the config file's type
func (c *AllocateCommand) resolveStrategy(appCfg *appconfig.Config) (*entities.StrategyConfig, error) {
	section := appCfg.Strategy
	if c.config.Strategy != "" {
		section.Type = c.config.Strategy
	}
	strategyCfg, err := section.ToStrategyConfig()
	if err != nil {
		return nil, fmt.Errorf("error in strategy configuration: %w", err)
	}
	return strategyCfg, nil
}

// buildScope parses the scope flags into a demand filter
func (c *AllocateCommand) buildScope() (entities.Scope, error) {
	var scope entities.Scope

	for _, id := range splitList(c.config.Products) {
		scope.ProductIDs = append(scope.ProductIDs, entities.ProductID(id))
	}
	for _, code := range splitList(c.config.Customers) {
		scope.CustomerCodes = append(scope.CustomerCodes, entities.CustomerCode(code))
	}

	if c.config.ETDFrom != "" {
		from, err := time.Parse("2006-01-02", c.config.ETDFrom)
		if err != nil {
			return scope, fmt.Errorf("invalid -etd-from %q: %w", c.config.ETDFrom, err)
		}
		scope.ETDFrom = from
	}
	if c.config.ETDTo != "" {
		to, err := time.Parse("2006-01-02", c.config.ETDTo)
		if err != nil {
			return scope, fmt.Errorf("invalid -etd-to %q: %w", c.config.ETDTo, err)
		}
		scope.ETDTo = to
	}

	return scope, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var parts []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// showHelp displays usage information
func (c *AllocateCommand) showHelp() {
	fmt.Println("Allocation Engine - simulate and commit supply allocations")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  alloc -demand demand.csv -supply supply.csv [options]")
	fmt.Println()
	fmt.Println("Input:")
	fmt.Println("  -demand string     Path to demand lines CSV file (required)")
	fmt.Println("  -supply string     Path to supply totals CSV file (required)")
	fmt.Println("  -adjust string     Path to adjustments CSV file (optional)")
	fmt.Println("  -config string     Path to YAML config file (optional)")
	fmt.Println()
	fmt.Println("Strategy:")
	fmt.Println("  -strategy string   Strategy type: FCFS, ETD_PRIORITY, PROPORTIONAL,")
	fmt.Println("                     REVENUE_PRIORITY, HYBRID (overrides config file)")
	fmt.Println()
	fmt.Println("Scope:")
	fmt.Println("  -products string   Comma-separated product IDs")
	fmt.Println("  -customers string  Comma-separated customer codes")
	fmt.Println("  -etd-from string   Earliest ETD, YYYY-MM-DD")
	fmt.Println("  -etd-to string     Latest ETD, YYYY-MM-DD")
	fmt.Println()
	fmt.Println("Commit:")
	fmt.Println("  -commit            Persist the allocation after validation")
	fmt.Println("  -db string         SQLite database path")
	fmt.Println("  -actor string      Acting user ID (required with -commit)")
	fmt.Println("  -role string       Acting user role: admin, planner, viewer")
	fmt.Println()
	fmt.Println("Output:")
	fmt.Println("  -output string     Output directory for results (optional)")
	fmt.Println("  -format string     Output format: text, json, csv")
	fmt.Println("  -verbose           Enable verbose output")
}
