package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/mapping"
)

var (
	mapDefaults  bool
	mapPrimary   string
	mapSecondary []string
	mapCategory  string
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Manage the exercise-to-muscle overlay",
	Long: `The overlay assigns muscles to exercises the built-in catalog does not
know, or overrides the catalog. It is stored as JSON in the user config
directory unless LIFTLOG_MAPPINGS_PATH says otherwise.`,
}

var mappingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show overlay rows",
	Args:  cobra.NoArgs,
	RunE:  runMappingsList,
}

var mappingsSetCmd = &cobra.Command{
	Use:   "set <exercise>",
	Short: "Set the muscles of an exercise",
	Long: `Store an overlay row for an exercise, replacing any existing one.

Examples:
  liftlog mappings set "Cable Fly Custom" --primary Chest --secondary Shoulders`,
	Args: cobra.ExactArgs(1),
	RunE: runMappingsSet,
}

var mappingsRemoveCmd = &cobra.Command{
	Use:   "remove <exercise>",
	Short: "Delete the overlay row of an exercise",
	Args:  cobra.ExactArgs(1),
	RunE:  runMappingsRemove,
}

var mappingsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Copy catalog muscles into the overlay for every exercise in --file",
	Args:  cobra.NoArgs,
	RunE:  runMappingsRefresh,
}

var mappingsExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write the overlay to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runMappingsExport,
}

var mappingsImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Replace the overlay with a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runMappingsImport,
}

func init() {
	mappingsListCmd.Flags().BoolVar(&mapDefaults, "defaults", false, "include every catalog exercise")
	mappingsSetCmd.Flags().StringVar(&mapPrimary, "primary", "", "primary muscle group")
	mappingsSetCmd.Flags().StringSliceVar(&mapSecondary, "secondary", nil, "secondary muscle groups")
	mappingsSetCmd.Flags().StringVar(&mapCategory, "category", "", "free-form category")

	mappingsCmd.AddCommand(mappingsListCmd, mappingsSetCmd, mappingsRemoveCmd,
		mappingsRefreshCmd, mappingsExportCmd, mappingsImportCmd)
	rootCmd.AddCommand(mappingsCmd)
}

func openStore() (*settings, *mapping.Store, error) {
	s, err := resolve()
	if err != nil {
		return nil, nil, err
	}
	store, err := s.openMappings()
	if err != nil {
		return nil, nil, err
	}
	return s, store, nil
}

func runMappingsList(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}
	all := store.All()
	if mapDefaults {
		all = store.AllWithDefaults()
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, all)
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]string, len(names))
	for i, name := range names {
		m := all[name]
		rows[i] = []string{name, m.Primary, strings.Join(m.Secondary, ", "), m.Category}
	}
	printTable(out, []string{"Exercise", "Primary", "Secondary", "Category"}, rows)
	return nil
}

func runMappingsSet(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}
	m := mapping.MuscleMapping{Primary: mapPrimary, Secondary: mapSecondary, Category: mapCategory}
	store.Set(args[0], m)
	store.Save()
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], m.Primary)
	return nil
}

func runMappingsRemove(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}
	if _, ok := store.Get(args[0]); !ok {
		return fmt.Errorf("no mapping for %q", args[0])
	}
	store.Remove(args[0])
	store.Save()
	return nil
}

func runMappingsRefresh(cmd *cobra.Command, args []string) error {
	s, store, err := openStore()
	if err != nil {
		return err
	}
	entries, err := s.entries(cmd.Context())
	if err != nil {
		return err
	}
	n := analysis.UpdateMappingsFromWorkouts(entries, store)
	if n > 0 {
		store.Save()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d mappings updated\n", n)
	return nil
}

func runMappingsExport(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}
	return store.ExportAll(args[0])
}

func runMappingsImport(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.ImportAll(args[0]); err != nil {
		return err
	}
	store.Save()
	return nil
}
