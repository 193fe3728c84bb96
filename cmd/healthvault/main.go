package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/healthvault/internal/config"
	"github.com/hpungsan/healthvault/internal/journal"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return true
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

func main() {
	// Handle --help/--version before journal init (no state needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := os.Getenv("VAULT_HOME")
	if baseDir == "" {
		baseDir = filepath.Join(homeDir, ".healthvault")
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := journal.Open(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open journal: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	app := newCLIApp(db, cfg)
	if err := app.Run(os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
