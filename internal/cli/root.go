// Package cli implements the cubegym command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cubelab/cubegym/internal/config"
	"github.com/cubelab/cubegym/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	dbPath     string
	configPath string
	verbose    bool

	log = logrus.New()
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubegym",
	Short: "Rubik's cube episode gym",
	Long: `cubegym is a discrete-state Rubik's cube engine and episode runner for
trial-and-error agents.

Scramble and manipulate cubes from the command line, run recorded episodes
against a policy, inspect what the agent did, and export transitions for
offline training.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetLevel(logrus.InfoLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.cubegym/cubegym.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// loadConfig resolves configuration from the --config file when given,
// defaults otherwise, with CUBEGYM_* environment overrides in both cases.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadWithEnvOverrides(configPath)
	}
	return config.FromEnv()
}

// applyLogConfig sets the logger up per the configuration. --verbose wins
// over the configured level.
func applyLogConfig(cfg *config.Config) {
	if !verbose {
		if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
			log.SetLevel(level)
		}
	}
	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
}

// openDB opens the episode database from --db, the configured path, or the
// default location, and applies pending migrations.
func openDB() (*storage.DB, error) {
	path := dbPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.DBPath
	}

	var db *storage.DB
	var err error
	if path == "" {
		db, err = storage.OpenDefault()
	} else {
		db, err = storage.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
