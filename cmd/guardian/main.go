package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/guardian/internal/agegate"
	"github.com/alexanderramin/guardian/internal/capability"
	"github.com/alexanderramin/guardian/internal/cli"
	"github.com/alexanderramin/guardian/internal/contentfilter"
	"github.com/alexanderramin/guardian/internal/crisis"
	"github.com/alexanderramin/guardian/internal/db"
	"github.com/alexanderramin/guardian/internal/guard"
	"github.com/alexanderramin/guardian/internal/limits"
	"github.com/alexanderramin/guardian/internal/moderation"
	"github.com/alexanderramin/guardian/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.guardian/guardian.db
	dbPath := os.Getenv("GUARDIAN_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".guardian", "guardian.db")
	}

	// Parent config lives next to the event database by default.
	configPath := os.Getenv("GUARDIAN_CONFIG")
	if configPath == "" {
		configPath = filepath.Join(filepath.Dir(dbPath), "parent_config.json")
	}

	nodeID := os.Getenv("GUARDIAN_NODE_ID")
	if nodeID == "" {
		if host, err := os.Hostname(); err == nil {
			nodeID = host
		} else {
			nodeID = "guardian-local"
		}
	}

	// Open the safety event database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	events := repository.NewSQLiteSafetyEventRepo(database)

	gate := agegate.NewGate(configPath)
	recorder := repository.NewSafetyRecorder(events, gate.AgeBand())

	// Wire the guard model client
	guardCfg := guard.LoadConfig()
	var observer guard.Observer = guard.NoopObserver{}
	if guardCfg.LogCalls {
		observer = guard.NewLogObserver(os.Stderr)
	}
	client := guard.NewClient(guardCfg, observer)

	app := &cli.App{
		Gate:     gate,
		Guard:    client,
		Pipeline: moderation.NewPipeline(client, recorder),
		Crisis:   crisis.NewManager(recorder),
		Engine:   capability.NewEngine(nodeID),
		Limiter:  limits.NewLimiter(limits.DefaultLimits()),
		Filter:   contentfilter.NewFilter(true),
		Events:   events,
	}

	// Detect interactive terminal for the setup and PIN wizards.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
