// Package importer loads a directory of workout CSV exports straight into
// the database, for first-time backfills where uploading over HTTP is
// impractical.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/ingest"
	"github.com/meltforce/liftlog/internal/mapping"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/meltforce/liftlog/internal/upload"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesErrored   int

	EntriesParsed     int
	EntriesInserted   int64
	EntriesDuplicated int64
	MappingsUpdated   int
}

// Provider ingests one export for a user.
type Provider interface {
	Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error)
}

// Store is the part of *storage.DB the importer needs.
type Store interface {
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, log storage.ImportLog) error
	QueryEntries(ctx context.Context, f storage.EntryFilter) ([]models.WorkoutEntry, error)
}

var _ Store = (*storage.DB)(nil)

// Importer reads CSV exports from disk and feeds them to the providers.
type Importer struct {
	db        Store
	providers map[upload.Format]Provider
	muscles   *mapping.Store
	userID    int
	format    upload.Format
	log       *slog.Logger
	dryRun    bool
	stats     Stats
}

// New creates an Importer writing for userID. An empty format is detected
// per file. muscles may be nil, which skips the mapping refresh.
func New(db Store, providers map[upload.Format]Provider, muscles *mapping.Store, userID int, format upload.Format, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{
		db:        db,
		providers: providers,
		muscles:   muscles,
		userID:    userID,
		format:    format,
		log:       log,
		dryRun:    dryRun,
	}
}

// Import processes every .csv file under root, then copies catalog muscles
// into the mapping overlay for the user's exercises.
func (imp *Importer) Import(ctx context.Context, root string) (*Stats, error) {
	base, files, err := upload.FindExports(root)
	if err != nil {
		return &imp.stats, err
	}

	// Phase 1: Exports
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		rel, _ := filepath.Rel(base, f)
		if err := imp.importFile(ctx, f, rel); err != nil {
			imp.log.Warn("import failed", "file", rel, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		imp.stats.FilesProcessed++
	}

	// Phase 2: Muscle mappings
	if imp.dryRun || imp.muscles == nil || imp.stats.EntriesInserted == 0 {
		return &imp.stats, nil
	}
	entries, err := imp.db.QueryEntries(ctx, storage.EntryFilter{UserID: imp.userID})
	if err != nil {
		return &imp.stats, fmt.Errorf("loading entries for mapping refresh: %w", err)
	}
	imp.stats.MappingsUpdated = analysis.UpdateMappingsFromWorkouts(entries, imp.muscles)
	if imp.stats.MappingsUpdated > 0 {
		imp.muscles.Save()
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path, rel string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	format := imp.format
	if format == "" {
		format = upload.DetectFormat(data)
	}

	if imp.dryRun {
		n, err := upload.CountEntries(data, format)
		if err != nil {
			return fmt.Errorf("parsing %s export: %w", format, err)
		}
		imp.log.Info("dry run", "file", rel, "format", format, "entries", n)
		imp.stats.EntriesParsed += n
		return nil
	}

	provider, ok := imp.providers[format]
	if !ok {
		return fmt.Errorf("no provider for %s exports", format)
	}

	metadata, _ := json.Marshal(map[string]string{"filename": rel, "via": "importer"})
	raw := json.RawMessage(metadata)
	logEntry := storage.ImportLog{
		UserID:   imp.userID,
		Source:   string(format) + "_csv",
		Status:   storage.ImportRunning,
		Metadata: &raw,
	}
	logID, err := imp.db.InsertImportLog(ctx, logEntry)
	if err != nil {
		return fmt.Errorf("creating import log: %w", err)
	}

	start := time.Now()
	result, ingestErr := provider.Ingest(ctx, bytes.NewReader(data), imp.userID)
	imp.finishLog(ctx, logID, logEntry, result, ingestErr, time.Since(start))
	if ingestErr != nil {
		return ingestErr
	}

	imp.log.Info("imported", "file", rel, "format", format,
		"inserted", result.EntriesInserted, "duplicate", result.EntriesDuplicate)
	imp.stats.EntriesParsed += result.EntriesParsed
	imp.stats.EntriesInserted += result.EntriesInserted
	imp.stats.EntriesDuplicated += result.EntriesDuplicate
	return nil
}

// finishLog moves the import log out of the running state.
func (imp *Importer) finishLog(ctx context.Context, id int64, entry storage.ImportLog, result *ingest.Result, ingestErr error, elapsed time.Duration) {
	durationMs := int(elapsed.Milliseconds())
	entry.DurationMs = &durationMs
	entry.Status = storage.ImportSuccess
	if ingestErr != nil {
		entry.Status = storage.ImportError
		msg := ingestErr.Error()
		entry.ErrorMessage = &msg
	}
	if result != nil {
		if result.ImportID != uuid.Nil {
			importID := result.ImportID
			entry.ImportID = &importID
		}
		entry.RowsReceived = result.RowsReceived
		entry.RowsSkipped = result.RowsSkipped
		entry.EntriesInserted = result.EntriesInserted
		entry.EntriesDuplicate = result.EntriesDuplicate
	}
	if err := imp.db.UpdateImportLog(ctx, id, entry); err != nil {
		imp.log.Error("failed to update import log", "id", id, "error", err)
	}
}
