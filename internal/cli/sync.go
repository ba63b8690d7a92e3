package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/meltforce/liftlog/internal/export"
	"github.com/meltforce/liftlog/internal/hevysync"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

var syncOut string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch new workouts from the Hevy API",
	Long: `Fetch the workouts recorded since the last successful sync and write the
new sets as an entries document. Sets already in --file are skipped. The
sync state lives in LIFTLOG_SYNC_STATE_DIR.

Examples:
  HEVY_API_KEY=... liftlog sync -o new.csv
  liftlog sync -f workouts.csv --json`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&syncOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	s, err := resolve()
	if err != nil {
		return err
	}
	if s.cfg.Sync.Token == "" {
		return errors.New("sync needs an API token: set LIFTLOG_SYNC_TOKEN or HEVY_API_KEY")
	}

	var known []models.WorkoutEntry
	if filePath != "" {
		if known, err = readFile(filePath, fileFormat, s.cfg.Ingest.IncludeWarmups); err != nil {
			return err
		}
	}

	state, err := hevysync.OpenStateDB(s.cfg.Sync.StateDir)
	if err != nil {
		return err
	}
	defer state.Close()

	client := hevysync.NewClient(s.cfg.Sync.BaseURL, s.cfg.Sync.Token, s.cfg.Sync.Timeout, s.log)
	w := newMemWriter(known)
	result, err := hevysync.NewSyncer(client, state, w, s.log).Run(cmd.Context(), storage.LocalUserID)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "received %d sets, %d new, %d duplicate\n",
		result.RowsReceived, result.EntriesInserted, result.EntriesDuplicate)

	write := func(out io.Writer) error {
		if jsonOut {
			return export.EntriesJSON(out, w.entries)
		}
		return export.EntriesCSV(out, w.entries)
	}
	if syncOut == "" {
		return write(cmd.OutOrStdout())
	}
	return export.ToFile(syncOut, write)
}
