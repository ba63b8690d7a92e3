package hevysync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meltforce/liftlog/internal/ingest"
)

// Syncer pulls new workouts and stores them as one import batch per run.
type Syncer struct {
	fetcher Fetcher
	state   *StateDB
	db      ingest.EntryWriter
	log     *slog.Logger
}

// NewSyncer wires a fetcher, the run state and the entry store.
func NewSyncer(fetcher Fetcher, state *StateDB, db ingest.EntryWriter, log *slog.Logger) *Syncer {
	return &Syncer{fetcher: fetcher, state: state, db: db, log: log}
}

// Run fetches the workouts recorded since the last successful run (all on
// the first run) and stores them for userID. Every attempt is recorded,
// failed ones included.
func (s *Syncer) Run(ctx context.Context, userID int) (*ingest.Result, error) {
	var after string
	last, ok, err := s.state.LastSuccessfulSync(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		after = last.UTC().Format(time.RFC3339)
	}

	runID, err := s.state.StartRun(ctx, after)
	if err != nil {
		return nil, err
	}
	s.log.Info("sync started", "run_id", runID, "after", after)

	result := &ingest.Result{ImportID: runID, Source: Source}
	runErr := s.run(ctx, userID, after, result)

	if err := s.state.FinishRun(context.WithoutCancel(ctx), runID, result.RowsReceived, result.EntriesInserted, runErr); err != nil {
		s.log.Error("recording sync run", "run_id", runID, "error", err)
	}
	if runErr != nil {
		s.log.Error("sync failed", "run_id", runID, "error", runErr)
		return nil, runErr
	}

	s.log.Info("sync complete",
		"run_id", runID,
		"received", result.RowsReceived,
		"inserted", result.EntriesInserted,
	)
	return result, nil
}

func (s *Syncer) run(ctx context.Context, userID int, after string, result *ingest.Result) error {
	entries, err := s.fetcher.FetchWorkouts(ctx, after)
	if err != nil {
		return fmt.Errorf("fetching workouts: %w", err)
	}
	result.RowsReceived = len(entries)
	return ingest.Store(ctx, s.db, userID, entries, result)
}

// Runs returns the most recent recorded runs.
func (s *Syncer) Runs(ctx context.Context, limit int) ([]Run, error) {
	return s.state.Runs(ctx, limit)
}
