package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/ingest/hevy"
	liftmcp "github.com/meltforce/liftlog/internal/mcp"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

var errNoSource = errors.New("no workout data: pass --file <export.csv> or --remote <url>")

// parseEntries reads one export in format ("hevy" also accepts the plain
// date,exercise,weight,reps layout).
func parseEntries(r io.Reader, format string, includeWarmups bool) ([]models.WorkoutEntry, error) {
	switch strings.ToLower(format) {
	case "", "hevy", "csv":
		entries, _, err := hevy.Parse(r)
		return entries, err
	case "alpha":
		sessions, err := alpha.Parse(r)
		if err != nil {
			return nil, err
		}
		return alpha.ToEntries(sessions, includeWarmups), nil
	}
	return nil, fmt.Errorf("unknown file format %q (want hevy or alpha)", format)
}

func readFile(path, format string, includeWarmups bool) ([]models.WorkoutEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := parseEntries(f, format, includeWarmups)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return entries, nil
}

// dataSource returns the entry source selected by --remote or --file.
func (s *settings) dataSource() (liftmcp.DataSource, error) {
	if remoteURL != "" {
		return liftmcp.NewHTTPClient(remoteURL), nil
	}
	if filePath == "" {
		return nil, errNoSource
	}
	entries, err := readFile(filePath, fileFormat, s.cfg.Ingest.IncludeWarmups)
	if err != nil {
		return nil, err
	}
	s.log.Debug("workout file loaded", "path", filePath, "entries", len(entries))
	return &liftmcp.MemorySource{Entries: entries}, nil
}

// entries loads the entries of the requested window and exercises.
func (s *settings) entries(ctx context.Context) ([]models.WorkoutEntry, error) {
	ds, err := s.dataSource()
	if err != nil {
		return nil, err
	}
	return ds.QueryEntries(ctx, storage.EntryFilter{
		UserID:    storage.LocalUserID,
		Start:     startDate,
		End:       endDate,
		Exercises: exercises,
	})
}

// memWriter collects synced entries in memory. Entries whose fingerprint
// was seen before, including those passed to newMemWriter, are dropped.
type memWriter struct {
	seen    map[string]struct{}
	entries []models.WorkoutEntry
}

func newMemWriter(known []models.WorkoutEntry) *memWriter {
	w := &memWriter{seen: make(map[string]struct{}, len(known))}
	for _, e := range known {
		w.seen[models.Fingerprint(e)] = struct{}{}
	}
	return w
}

func (w *memWriter) InsertEntries(_ context.Context, rows []models.EntryRow) (int64, error) {
	var n int64
	for _, r := range rows {
		if _, dup := w.seen[r.Fingerprint]; dup {
			continue
		}
		w.seen[r.Fingerprint] = struct{}{}
		w.entries = append(w.entries, r.Entry)
		n++
	}
	return n, nil
}
