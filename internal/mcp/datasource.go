package mcp

import (
	"context"
	"slices"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// DataSource abstracts the entry store for MCP tools. *storage.DB (local),
// HTTPClient (remote via REST API) and MemorySource (a loaded file) satisfy
// this interface.
type DataSource interface {
	QueryEntries(ctx context.Context, f storage.EntryFilter) ([]models.WorkoutEntry, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)

// MemorySource serves entries already held in memory, such as a parsed CSV
// export. The filter's UserID and ImportID are ignored.
type MemorySource struct {
	Entries []models.WorkoutEntry
}

var _ DataSource = (*MemorySource)(nil)

func (m *MemorySource) QueryEntries(_ context.Context, f storage.EntryFilter) ([]models.WorkoutEntry, error) {
	var out []models.WorkoutEntry
	for _, e := range m.Entries {
		if f.Start != "" && e.Date < f.Start {
			continue
		}
		if f.End != "" && e.Date > f.End {
			continue
		}
		if len(f.Exercises) > 0 && !slices.Contains(f.Exercises, e.Exercise) {
			continue
		}
		if f.Source != "" && e.Raw.Source != f.Source {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}
