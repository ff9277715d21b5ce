/*
main.go - Application entry point

PURPOSE:
  Command line for the shift engine: runs the HTTP server, prints the
  holiday calendar and seeds a database from a roster fixture.

COMMANDS:
  serve      Start the HTTP API
  holidays   Print the holidays of a year
  seed       Load a JSON roster (or the built-in demo) into the database

GLOBAL FLAGS:
  --config   Directory holding config.yml (default ".")
  --db       SQLite database path, overrides database.path
             Use ":memory:" for an in-memory database

ENVIRONMENT:
  Every config key can be set with the SHIFT_ prefix, e.g.
  SHIFT_SERVER_PORT=3000, SHIFT_HORIZON_DAYS=14. A .env file in the working
  directory is loaded first.

EXAMPLES:
  ./server serve --db=./data/shifts.db
  ./server seed --clear
  ./server holidays --year 2025

SEE ALSO:
  - config/config.go: configuration keys and defaults
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/shift-engine/config"
	"github.com/warp/shift-engine/pkg/logger"
	"github.com/warp/shift-engine/store/sqlite"
)

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "shift-engine",
	Short: "Shift scheduling and assignment engine",
	Long:  `Plans daily and weekly shift assignments around holidays, leave and station requirements.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yml")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides database.path)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(holidaysCmd)
	rootCmd.AddCommand(seedCmd)
}

// loadConfig reads configuration, installs the logger and applies --db.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	logger.Init(cfg.Logging.Env)
	return cfg, nil
}

func openStore(cfg *config.Config) (*sqlite.Store, error) {
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}
