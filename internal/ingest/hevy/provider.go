package hevy

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/meltforce/liftlog/internal/ingest"
)

// Provider processes Hevy and plain workout CSV uploads.
type Provider struct {
	db  ingest.EntryWriter
	log *slog.Logger
}

// NewProvider creates a new CSV ingest provider.
func NewProvider(db ingest.EntryWriter, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest parses a CSV upload and stores its entries as one import batch.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	entries, stats, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{
		Source:       SourceHevy,
		RowsReceived: stats.Rows,
		RowsSkipped:  stats.Skipped,
	}
	if len(entries) > 0 {
		result.Source = entries[0].Raw.Source
	}
	if err := ingest.Store(ctx, p.db, userID, entries, result); err != nil {
		return nil, err
	}

	p.log.Info("csv ingest complete",
		"import_id", result.ImportID,
		"rows", result.RowsReceived,
		"skipped", result.RowsSkipped,
		"inserted", result.EntriesInserted,
		"duplicates", result.EntriesDuplicate,
	)
	return result, nil
}
