package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/export"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summary and per-exercise statistics",
	Long: `Show workout count, average sets and reps, average rest days and the
most trained exercise, followed by sets, reps, volume and best estimated
one-rep max per exercise.

Examples:
  liftlog stats -f workouts.csv
  liftlog stats -f workouts.csv --start 2024-01-01 --formula brzycki`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "List logged exercises with their primary muscle",
	Args:  cobra.NoArgs,
	RunE:  runExercises,
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Personal records per exercise",
	Args:  cobra.NoArgs,
	RunE:  runRecords,
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Volume, sets and reps per ISO week",
	Args:  cobra.NoArgs,
	RunE:  runWeekly,
}

func init() {
	rootCmd.AddCommand(statsCmd, exercisesCmd, recordsCmd, weeklyCmd)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// weight scales a kilogram value to the output unit; nil prints as "-".
func (s *settings) weight(v *float64) string {
	if v == nil {
		return "-"
	}
	return num(*v * s.unit.Factor())
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := resolve()
	if err != nil {
		return err
	}
	entries, err := s.entries(cmd.Context())
	if err != nil {
		return err
	}
	summary := analysis.ComputeStats(entries, s.rng)
	stats := analysis.SortedExerciseStats(analysis.AggregateExerciseStats(entries, s.formula, s.rng))

	out := cmd.OutOrStdout()
	if jsonOut {
		return export.StatsJSON(out, summary, stats)
	}

	printTable(out, []string{"Metric", "Value"}, [][]string{
		{"Workouts", strconv.Itoa(summary.TotalWorkouts)},
		{"Avg sets / workout", num(summary.AvgSetsPerWorkout)},
		{"Avg reps / set", num(summary.AvgRepsPerSet)},
		{"Avg days between", num(summary.AvgDaysBetween)},
		{"Most common exercise", summary.MostCommonExercise},
	})

	rows := make([][]string, len(stats))
	for i, ex := range stats {
		volume := ex.Stats.TotalVolume
		rows[i] = []string{
			ex.Exercise,
			strconv.Itoa(ex.Stats.TotalSets),
			strconv.Itoa(ex.Stats.TotalReps),
			s.weight(&volume),
			s.weight(ex.Stats.BestEst1RM),
		}
	}
	printTable(out, []string{"Exercise", "Sets", "Reps", "Volume (" + s.unit.String() + ")", "Est. 1RM (" + s.formula.String() + ")"}, rows)
	return nil
}

type exerciseRow struct {
	Name      string `json:"name"`
	Sets      int    `json:"sets"`
	Primary   string `json:"primary,omitempty"`
	InCatalog bool   `json:"in_catalog"`
}

func runExercises(cmd *cobra.Command, args []string) error {
	s, err := resolve()
	if err != nil {
		return err
	}
	entries, err := s.entries(cmd.Context())
	if err != nil {
		return err
	}
	muscles, err := s.openMappings()
	if err != nil {
		return err
	}

	sets := make(map[string]int)
	for _, e := range entries {
		if _, ok := s.rng.Admit(e); ok {
			sets[e.Exercise]++
		}
	}
	names := analysis.UniqueExercises(entries, s.rng)
	list := make([]exerciseRow, len(names))
	for i, name := range names {
		primary, _ := muscles.BodyPartFor(name)
		_, inCatalog := catalog.InfoFor(name)
		list[i] = exerciseRow{Name: name, Sets: sets[name], Primary: primary, InCatalog: inCatalog}
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, list)
	}
	rows := make([][]string, len(list))
	for i, ex := range list {
		known := ""
		if ex.InCatalog {
			known = "yes"
		}
		rows[i] = []string{ex.Name, strconv.Itoa(ex.Sets), ex.Primary, known}
	}
	printTable(out, []string{"Exercise", "Sets", "Primary", "Catalog"}, rows)
	return nil
}

func runRecords(cmd *cobra.Command, args []string) error {
	s, err := resolve()
	if err != nil {
		return err
	}
	entries, err := s.entries(cmd.Context())
	if err != nil {
		return err
	}
	recs := analysis.PersonalRecords(entries, s.formula, s.rng)

	out := cmd.OutOrStdout()
	if jsonOut {
		return export.RecordsJSON(out, recs)
	}
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{r.Exercise, s.weight(r.Record.MaxWeight), s.weight(r.Record.MaxVolume), s.weight(r.Record.BestEst1RM)}
	}
	unit := " (" + s.unit.String() + ")"
	printTable(out, []string{"Exercise", "Max weight" + unit, "Max set volume" + unit, "Est. 1RM" + unit}, rows)
	return nil
}

func runWeekly(cmd *cobra.Command, args []string) error {
	s, err := resolve()
	if err != nil {
		return err
	}
	entries, err := s.entries(cmd.Context())
	if err != nil {
		return err
	}
	weeks := analysis.AggregateWeeklySummary(entries, s.rng)

	out := cmd.OutOrStdout()
	if jsonOut {
		return export.WeeklyJSON(out, weeks)
	}
	rows := make([][]string, len(weeks))
	for i, w := range weeks {
		volume := w.TotalVolume
		rows[i] = []string{fmt.Sprintf("%d-W%02d", w.Year, w.Week), s.weight(&volume), strconv.Itoa(w.TotalSets), strconv.Itoa(w.TotalReps)}
	}
	printTable(out, []string{"Week", "Volume (" + s.unit.String() + ")", "Sets", "Reps"}, rows)
	return nil
}
