// Package cli implements the liftlog command line tool. Commands analyse a
// workout export file (or a running liftlogd via --remote) without needing
// the database.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/mapping"
	"github.com/meltforce/liftlog/internal/models"
)

var (
	// Global flags
	filePath    string
	fileFormat  string
	remoteURL   string
	startDate   string
	endDate     string
	exercises   []string
	formulaName string
	unitName    string
	jsonOut     bool
	verbose     bool

	// Version info (set from main)
	Version = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "liftlog",
	Short: "Strength training log analytics",
	Long: `liftlog reads a Hevy or Alpha Progression CSV export and reports
statistics, personal records, weekly volume and estimated one-rep maxes.
Exercise-to-muscle mappings are kept in a user overlay file.

Environment variables (LIFTLOG_*, HEVY_API_KEY) and a .env file in the
working directory configure defaults.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&filePath, "file", "f", "", "workout CSV export to analyse")
	rootCmd.PersistentFlags().StringVar(&fileFormat, "format", "hevy", "export format of --file: hevy or alpha")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "read entries from a liftlogd base URL instead of --file")
	rootCmd.PersistentFlags().StringVar(&startDate, "start", "", "first date to include (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&endDate, "end", "", "last date to include (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringSliceVarP(&exercises, "exercise", "e", nil, "restrict to these exercises (repeatable)")
	rootCmd.PersistentFlags().StringVar(&formulaName, "formula", "", "one-rep-max formula (default from config, epley)")
	rootCmd.PersistentFlags().StringVar(&unitName, "unit", "", "weight unit for output: kg or lbs (default from config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

// loadConfig builds the CLI configuration: defaults, then .env, then the
// environment, then flags.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg)
	if formulaName != "" {
		cfg.Analysis.Formula = formulaName
	}
	if unitName != "" {
		cfg.Analysis.Unit = unitName
	}
	return cfg, nil
}

// settings are the resolved analysis parameters of one invocation.
type settings struct {
	cfg     *config.Config
	formula analysis.Formula
	unit    models.WeightUnit
	rng     analysis.DateRange
	log     *slog.Logger
}

func resolve() (*settings, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	s := &settings{cfg: cfg}
	if s.formula, err = cfg.Analysis.OneRMFormula(); err != nil {
		return nil, err
	}
	if s.unit, err = cfg.Analysis.WeightUnit(); err != nil {
		return nil, err
	}
	if s.rng, err = analysis.ParseRange(startDate, endDate); err != nil {
		return nil, err
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	s.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return s, nil
}

// openMappings loads the overlay from the configured path or the user
// config directory.
func (s *settings) openMappings() (*mapping.Store, error) {
	path := s.cfg.Mappings.Path
	if path == "" {
		var err error
		if path, err = mapping.DefaultPath(); err != nil {
			return nil, err
		}
	}
	store := mapping.New(mapping.FilePersister{Path: path}, s.log)
	store.Load()
	s.log.Debug("exercise mappings loaded", "path", path, "count", store.Len())
	return store, nil
}
