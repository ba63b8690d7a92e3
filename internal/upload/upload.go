// Package upload sends Hevy and Alpha Progression CSV exports from a local
// directory to a liftlogd server, skipping files that were already sent.
package upload

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/ingest/hevy"
)

// Format names an export layout. Its value is the ingest endpoint suffix.
type Format string

const (
	Hevy  Format = "hevy"
	Alpha Format = "alpha"
)

// ParseFormat accepts "hevy", "alpha" or "" (detect per file).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", Hevy, Alpha:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want hevy or alpha)", s)
}

// DetectFormat looks at the first non-blank line: Alpha Progression
// exports separate fields with semicolons, Hevy exports with commas.
func DetectFormat(data []byte) Format {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.Contains(line, "\";\"") || (strings.Contains(line, ";") && !strings.Contains(line, ",")) {
			return Alpha
		}
		return Hevy
	}
	return Hevy
}

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int `json:"files_total"`
	FilesUploaded int `json:"files_uploaded"`
	FilesSkipped  int `json:"files_skipped"`
	FilesErrored  int `json:"files_errored"`

	EntriesParsed    int   `json:"entries_parsed"`
	EntriesInserted  int64 `json:"entries_inserted"`
	EntriesDuplicate int64 `json:"entries_duplicate"`
}

// Uploader walks a directory of CSV exports and POSTs the new ones to the
// server.
type Uploader struct {
	client *Client
	state  *StateDB
	root   string
	format Format
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates an Uploader for root, which may be a directory or a single
// file. An empty format is detected per file. In dry-run mode files are
// parsed locally and nothing is sent or recorded.
func New(client *Client, state *StateDB, root string, format Format, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		root:   root,
		format: format,
		dryRun: dryRun,
		log:    log,
	}
}

// Run uploads every new export under root, oldest name first. Per-file
// failures are logged and counted; only a cancelled context or an
// unreadable root stops the run.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	base, files, err := FindExports(u.root)
	if err != nil {
		return &u.stats, err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		u.stats.FilesTotal++
		rel, _ := filepath.Rel(base, f)
		if err := u.processFile(ctx, f, rel); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return &u.stats, err
			}
			u.log.Warn("upload failed", "file", rel, "error", err)
			u.stats.FilesErrored++
		}
	}
	return &u.stats, nil
}

// FindExports returns the .csv files under root in name order, and the
// directory their state paths are relative to. A file root yields itself.
func FindExports(root string) (string, []string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return filepath.Dir(root), []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(files)
	return root, files, nil
}

func (u *Uploader) processFile(ctx context.Context, path, rel string) error {
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}
	uploaded, err := u.state.Pushed(rel, hash)
	if err != nil {
		return fmt.Errorf("checking state: %w", err)
	}
	if uploaded {
		u.stats.FilesSkipped++
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	format := u.format
	if format == "" {
		format = DetectFormat(data)
	}

	if u.dryRun {
		n, err := CountEntries(data, format)
		if err != nil {
			return fmt.Errorf("parsing %s export: %w", format, err)
		}
		u.log.Info("dry run", "file", rel, "format", format, "entries", n)
		u.stats.EntriesParsed += n
		u.stats.FilesUploaded++
		return nil
	}

	result, err := u.client.SendExport(ctx, format, filepath.Base(path), data)
	if err != nil {
		return err
	}
	rec := Record{
		Path:             rel,
		Hash:             hash,
		Format:           format,
		ImportID:         result.ImportID,
		EntriesInserted:  int(result.EntriesInserted),
		EntriesDuplicate: int(result.EntriesDuplicate),
	}
	if err := u.state.Remember(rec); err != nil {
		return fmt.Errorf("recording upload: %w", err)
	}
	u.log.Info("uploaded", "file", rel, "format", format,
		"inserted", result.EntriesInserted, "duplicate", result.EntriesDuplicate)
	u.stats.FilesUploaded++
	u.stats.EntriesParsed += result.EntriesParsed
	u.stats.EntriesInserted += result.EntriesInserted
	u.stats.EntriesDuplicate += result.EntriesDuplicate
	return nil
}

// CountEntries parses data the way the server would, with warmups kept.
func CountEntries(data []byte, format Format) (int, error) {
	if format == Alpha {
		sessions, err := alpha.Parse(bytes.NewReader(data))
		if err != nil {
			return 0, err
		}
		return len(alpha.ToEntries(sessions, true)), nil
	}
	entries, _, err := hevy.Parse(bytes.NewReader(data))
	return len(entries), err
}
