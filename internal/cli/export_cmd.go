package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meltforce/liftlog/internal/export"
)

var (
	exportTo  string
	exportOut string
)

var exportCmd = &cobra.Command{
	Use:   "export <kind>",
	Short: "Write stats, records, weekly summaries or entries as CSV or JSON",
	Long: `Render an export document. Kinds: ` + strings.Join(export.Kinds, ", ") + `.

Examples:
  liftlog export records -f workouts.csv --to csv -o records.csv
  liftlog export stats -f workouts.csv --to json`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: export.Kinds,
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportTo, "to", "csv", "document format: csv or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	kind := args[0]
	if !slices.Contains(export.Kinds, kind) {
		return fmt.Errorf("%w: %q (want one of %s)", export.ErrUnknownKind, kind, strings.Join(export.Kinds, ", "))
	}
	format, err := export.ParseFormat(exportTo)
	if err != nil {
		return err
	}
	s, err := resolve()
	if err != nil {
		return err
	}
	entries, err := s.entries(cmd.Context())
	if err != nil {
		return err
	}

	write := func(w io.Writer) error {
		return export.Document(w, kind, format, entries, s.formula, s.rng)
	}
	if exportOut == "" {
		return write(cmd.OutOrStdout())
	}
	if err := export.ToFile(exportOut, write); err != nil {
		return err
	}
	s.log.Info("export written", "kind", kind, "format", format, "path", exportOut)
	return nil
}
