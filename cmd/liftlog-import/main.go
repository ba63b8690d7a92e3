package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/importer"
	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/ingest/hevy"
	"github.com/meltforce/liftlog/internal/mapping"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/meltforce/liftlog/internal/upload"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportPath := flag.String("path", "", "directory of CSV exports, or a single export (required)")
	formatName := flag.String("format", "", "export format: hevy or alpha (default: detect per file)")
	login := flag.String("user", "", "tailnet login to import for (default: the local user)")
	migrationsPath := flag.String("migrations", "migrations", "directory holding the SQL migrations")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-import -config config.yaml -path /path/to/exports [-format hevy|alpha] [-user login] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if _, err := os.Stat(*exportPath); err != nil {
		log.Error("export path does not exist", "path", *exportPath)
		os.Exit(1)
	}
	format, err := upload.ParseFormat(*formatName)
	if err != nil {
		log.Error("invalid format", "error", err)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, *migrationsPath); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode, no data will be written to the database")
	}

	// Connect database
	db, err := storage.New(ctx, dsn, cfg.Database.MaxConns)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	userID := storage.LocalUserID
	if *login != "" {
		if userID, err = db.GetOrCreateUser(ctx, *login, *login); err != nil {
			log.Error("failed to resolve user", "error", err)
			os.Exit(1)
		}
	}

	mappingPath := cfg.Mappings.Path
	if mappingPath == "" {
		if mappingPath, err = mapping.DefaultPath(); err != nil {
			log.Error("locating exercise mappings", "error", err)
			os.Exit(1)
		}
	}
	muscles := mapping.New(mapping.FilePersister{Path: mappingPath}, log)
	muscles.Load()

	providers := map[upload.Format]importer.Provider{
		upload.Hevy:  hevy.NewProvider(db, log),
		upload.Alpha: alpha.NewProvider(db, cfg.Ingest.IncludeWarmups, log),
	}

	// Run import
	imp := importer.New(db, providers, muscles, userID, format, log, *dryRun)
	stats, err := imp.Import(ctx, *exportPath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_errored", stats.FilesErrored,
		"entries_parsed", stats.EntriesParsed,
		"entries_inserted", stats.EntriesInserted,
		"entries_duplicated", stats.EntriesDuplicated,
		"mappings_updated", stats.MappingsUpdated,
	)
}
