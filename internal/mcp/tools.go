package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/series"
	"github.com/meltforce/liftlog/internal/storage"
)

// defaultTimeRange resolves optional start/end arguments to calendar dates.
// With days > 0 a missing end is today and a missing start is days before
// end. With days == 0 missing bounds stay zero (open).
func defaultTimeRange(startStr, endStr string, days int) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else if days > 0 {
		end = dateOf(time.Now())
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else if days > 0 {
		start = end.AddDate(0, 0, -days)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return dateOf(t), nil
	}
	t, err = time.Parse(models.DateLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateLayout)
}

// --- Tool definitions ---

var toolGetBasicStats = mcp.NewTool("get_basic_stats",
	mcp.WithDescription("Summary statistics over a date range: number of workout days, average sets per workout, average reps per set, average days between workouts and the most trained exercise."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to the first logged workout.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to the last logged workout.")),
)

var toolGetExerciseStats = mcp.NewTool("get_exercise_stats",
	mcp.WithDescription("Per-exercise totals: sets, reps, volume (kg x reps) and best estimated one-rep max."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to all history.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to all history.")),
	mcp.WithString("exercise", mcp.Description("Exact exercise name (e.g. 'Bench Press (Barbell)'). Omit for all exercises.")),
	mcp.WithString("formula", mcp.Description("One-rep-max formula. Defaults to the server setting."), mcp.Enum(formulaEnum()...)),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Personal records per exercise: heaviest set, largest single-set volume and best estimated one-rep max."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to all history.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to all history.")),
	mcp.WithString("exercise", mcp.Description("Exact exercise name. Omit for all exercises.")),
	mcp.WithString("formula", mcp.Description("One-rep-max formula. Defaults to the server setting."), mcp.Enum(formulaEnum()...)),
)

var toolGetWeeklySummary = mcp.NewTool("get_weekly_summary",
	mcp.WithDescription("Training volume, sets and reps per ISO week, oldest first."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 12 weeks ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to today.")),
)

var toolGetBodyPartVolume = mcp.NewTool("get_body_part_volume",
	mcp.WithDescription("Set count and volume over time per primary muscle group, resolved through the exercise catalog and the user's mapping overlay."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 4 weeks ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to today.")),
	mcp.WithString("aggregation", mcp.Description("Time bucket for the volume series. Defaults to 'weekly'."), mcp.Enum("daily", "weekly", "monthly")),
)

var toolGetEstimated1RM = mcp.NewTool("get_estimated_1rm",
	mcp.WithDescription("Estimated one-rep max per set over time for one exercise, with the sets that set a new best. X values are days since 0001-01-01."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to all history.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to all history.")),
	mcp.WithString("formula", mcp.Description("One-rep-max formula. Defaults to the server setting."), mcp.Enum(formulaEnum()...)),
	mcp.WithNumber("window", mcp.Description("Moving-average window in sets. 0 or 1 disables smoothing.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the logged exercises with set counts and resolved primary muscle."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to all history.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to all history.")),
)

func formulaEnum() []string {
	names := make([]string, len(analysis.Formulas))
	for i, f := range analysis.Formulas {
		names[i] = f.String()
	}
	return names
}

// --- Tool handlers ---

// load queries the entries of the requested window. A non-nil result is an
// error to return to the client as is.
func (h *handlers) load(ctx context.Context, req mcp.CallToolRequest, days int, exercises []string) ([]models.WorkoutEntry, analysis.DateRange, *mcp.CallToolResult) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), days)
	if err != nil {
		return nil, analysis.DateRange{}, mcp.NewToolResultError("invalid date format: " + err.Error())
	}

	entries, err := h.ds.QueryEntries(ctx, storage.EntryFilter{
		UserID:    UserIDFromContext(ctx),
		Start:     dateString(start),
		End:       dateString(end),
		Exercises: exercises,
	})
	if err != nil {
		h.log.Error("mcp query entries", "tool", req.Params.Name, "error", err)
		return nil, analysis.DateRange{}, mcp.NewToolResultError("query failed: " + err.Error())
	}
	return entries, analysis.DateRange{Start: start, End: end}, nil
}

func (h *handlers) formulaArg(req mcp.CallToolRequest) (analysis.Formula, *mcp.CallToolResult) {
	name := req.GetString("formula", "")
	if name == "" {
		return h.formula, nil
	}
	f, err := analysis.ParseFormula(name)
	if err != nil {
		return 0, mcp.NewToolResultError(err.Error())
	}
	return f, nil
}

func exerciseArg(req mcp.CallToolRequest) []string {
	if ex := req.GetString("exercise", ""); ex != "" {
		return []string{ex}
	}
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBasicStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, r, errResult := h.load(ctx, req, 0, nil)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(analysis.ComputeStats(entries, r))
}

type exerciseStatsRow struct {
	Exercise string `json:"exercise"`
	analysis.ExerciseStats
}

func (h *handlers) getExerciseStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, errResult := h.formulaArg(req)
	if errResult != nil {
		return errResult, nil
	}
	entries, r, errResult := h.load(ctx, req, 0, exerciseArg(req))
	if errResult != nil {
		return errResult, nil
	}

	sorted := analysis.SortedExerciseStats(analysis.AggregateExerciseStats(entries, f, r))
	rows := make([]exerciseStatsRow, len(sorted))
	for i, s := range sorted {
		rows[i] = exerciseStatsRow{Exercise: s.Exercise, ExerciseStats: s.Stats}
	}
	return jsonResult(map[string]any{
		"formula":   f.String(),
		"exercises": rows,
	})
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, errResult := h.formulaArg(req)
	if errResult != nil {
		return errResult, nil
	}
	entries, r, errResult := h.load(ctx, req, 0, exerciseArg(req))
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(map[string]any{
		"formula": f.String(),
		"records": analysis.PersonalRecords(entries, f, r),
	})
}

func (h *handlers) getWeeklySummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, r, errResult := h.load(ctx, req, 84, nil)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(analysis.AggregateWeeklySummary(entries, r))
}

func (h *handlers) getBodyPartVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agg, err := series.ParseAggregation(req.GetString("aggregation", "weekly"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, r, errResult := h.load(ctx, req, 28, nil)
	if errResult != nil {
		return errResult, nil
	}

	volume := series.BodyPartVolume(entries, h.muscles, series.Options{Range: r, Aggregation: agg})
	return jsonResult(map[string]any{
		"sets":   analysis.BodyPartDistribution(entries, h.muscles, r),
		"volume": volume,
	})
}

func (h *handlers) getEstimated1RM(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	f, errResult := h.formulaArg(req)
	if errResult != nil {
		return errResult, nil
	}
	entries, r, errResult := h.load(ctx, req, 0, []string{exercise})
	if errResult != nil {
		return errResult, nil
	}

	lines := series.Estimated1RM(entries, []string{exercise}, f, series.Options{
		Range:  r,
		Window: req.GetInt("window", 0),
	})
	return jsonResult(map[string]any{
		"formula": f.String(),
		"lines":   lines,
	})
}

type exerciseListing struct {
	Name      string `json:"name"`
	Sets      int    `json:"sets"`
	Primary   string `json:"primary,omitempty"`
	InCatalog bool   `json:"in_catalog"`
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, r, errResult := h.load(ctx, req, 0, nil)
	if errResult != nil {
		return errResult, nil
	}

	sets := make(map[string]int)
	for _, e := range entries {
		if _, ok := r.Admit(e); ok {
			sets[e.Exercise]++
		}
	}

	names := analysis.UniqueExercises(entries, r)
	out := make([]exerciseListing, len(names))
	for i, name := range names {
		primary, _ := h.muscles.BodyPartFor(name)
		_, inCatalog := catalog.InfoFor(name)
		out[i] = exerciseListing{Name: name, Sets: sets[name], Primary: primary, InCatalog: inCatalog}
	}
	return jsonResult(out)
}
