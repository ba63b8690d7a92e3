package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/meltforce/liftlog/internal/ingest"
)

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	db             ingest.EntryWriter
	includeWarmups bool
	log            *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(db ingest.EntryWriter, includeWarmups bool, log *slog.Logger) *Provider {
	return &Provider{db: db, includeWarmups: includeWarmups, log: log}
}

// Ingest parses an export and stores its sets as one import batch.
// Re-importing an export stores nothing new.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	received := 0
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			received += len(ex.Sets)
		}
	}
	entries := ToEntries(sessions, p.includeWarmups)

	result := &ingest.Result{
		Source:       Source,
		RowsReceived: received,
		RowsSkipped:  received - len(entries),
	}
	if err := ingest.Store(ctx, p.db, userID, entries, result); err != nil {
		return nil, err
	}

	p.log.Info("alpha ingest complete",
		"import_id", result.ImportID,
		"sessions", len(sessions),
		"sets", received,
		"inserted", result.EntriesInserted,
	)
	return result, nil
}
