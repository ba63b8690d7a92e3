package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/mapping"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

func set(date, exercise string, weight float64, reps int) models.WorkoutEntry {
	return models.WorkoutEntry{Date: date, Exercise: exercise, Weight: models.Float(weight), Reps: models.Int(reps)}
}

var fixture = []models.WorkoutEntry{
	set("2024-01-01", "Bench Press (Barbell)", 80, 5),
	set("2024-01-01", "Bench Press (Barbell)", 85, 3),
	set("2024-01-01", "Squat (Barbell)", 100, 5),
	set("2024-01-03", "Squat (Barbell)", 110, 5),
	set("2024-01-03", "Cable Fly Custom", 20, 12),
	set("2024-13-01", "Squat (Barbell)", 500, 1),
}

func testHandlers(t *testing.T) *handlers {
	t.Helper()
	store := mapping.New(nil, nil)
	store.Set("Cable Fly Custom", mapping.MuscleMapping{Primary: "Chest"})
	return &handlers{
		ds:      &MemorySource{Entries: fixture},
		muscles: store,
		formula: analysis.Epley,
		log:     slog.New(slog.DiscardHandler),
	}
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func decodeResult(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	require.NotNil(t, res)
	require.False(t, res.IsError, "tool returned error: %+v", res.Content)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	require.NoError(t, json.Unmarshal([]byte(text.Text), v))
}

func TestGetBasicStats(t *testing.T) {
	h := testHandlers(t)
	res, err := h.getBasicStats(context.Background(), call(nil))
	require.NoError(t, err)

	var stats analysis.BasicStats
	decodeResult(t, res, &stats)
	assert.Equal(t, 2, stats.TotalWorkouts)
	assert.InDelta(t, 2.5, stats.AvgSetsPerWorkout, 1e-9)
	assert.InDelta(t, 2.0, stats.AvgDaysBetween, 1e-9)
	// Bench and squat tie on two sets; the smaller name wins.
	assert.Equal(t, "Bench Press (Barbell)", stats.MostCommonExercise)
}

func TestGetBasicStatsWindow(t *testing.T) {
	h := testHandlers(t)
	res, err := h.getBasicStats(context.Background(), call(map[string]any{"start": "2024-01-02", "end": "2024-01-31"}))
	require.NoError(t, err)

	var stats analysis.BasicStats
	decodeResult(t, res, &stats)
	assert.Equal(t, 1, stats.TotalWorkouts)
	assert.Equal(t, "Cable Fly Custom", stats.MostCommonExercise)
}

func TestGetBasicStatsBadDate(t *testing.T) {
	h := testHandlers(t)
	res, err := h.getBasicStats(context.Background(), call(map[string]any{"start": "yesterday"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetExerciseStats(t *testing.T) {
	h := testHandlers(t)
	res, err := h.getExerciseStats(context.Background(), call(map[string]any{"exercise": "Squat (Barbell)"}))
	require.NoError(t, err)

	var out struct {
		Formula   string `json:"formula"`
		Exercises []struct {
			Exercise    string   `json:"exercise"`
			TotalSets   int      `json:"total_sets"`
			TotalVolume float64  `json:"total_volume"`
			BestEst1RM  *float64 `json:"best_est_1rm"`
		} `json:"exercises"`
	}
	decodeResult(t, res, &out)
	assert.Equal(t, "epley", out.Formula)
	require.Len(t, out.Exercises, 1)
	assert.Equal(t, "Squat (Barbell)", out.Exercises[0].Exercise)
	assert.Equal(t, 2, out.Exercises[0].TotalSets)
	assert.InDelta(t, 1050.0, out.Exercises[0].TotalVolume, 1e-9)
	require.NotNil(t, out.Exercises[0].BestEst1RM)
	assert.InDelta(t, 110*(1+5.0/30), *out.Exercises[0].BestEst1RM, 1e-9)
}

func TestGetExerciseStatsUnknownFormula(t *testing.T) {
	h := testHandlers(t)
	res, err := h.getExerciseStats(context.Background(), call(map[string]any{"formula": "guess"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetPersonalRecords(t *testing.T) {
	h := testHandlers(t)
	res, err := h.getPersonalRecords(context.Background(), call(map[string]any{"formula": "brzycki"}))
	require.NoError(t, err)

	var out struct {
		Formula string                 `json:"formula"`
		Records []analysis.NamedRecord `json:"records"`
	}
	decodeResult(t, res, &out)
	assert.Equal(t, "brzycki", out.Formula)
	require.Len(t, out.Records, 3)
	assert.Equal(t, "Bench Press (Barbell)", out.Records[0].Exercise)
	assert.Equal(t, 85.0, *out.Records[0].Record.MaxWeight)
	assert.Equal(t, 400.0, *out.Records[0].Record.MaxVolume)
}

func TestGetWeeklySummary(t *testing.T) {
	h := testHandlers(t)
	res, err := h.getWeeklySummary(context.Background(), call(map[string]any{"start": "2024-01-01", "end": "2024-01-07"}))
	require.NoError(t, err)

	var weeks []analysis.WeeklySummary
	decodeResult(t, res, &weeks)
	require.Len(t, weeks, 1)
	assert.Equal(t, 2024, weeks[0].Year)
	assert.Equal(t, 1, weeks[0].Week)
	assert.Equal(t, 5, weeks[0].TotalSets)
}

func TestGetBodyPartVolume(t *testing.T) {
	h := testHandlers(t)
	res, err := h.getBodyPartVolume(context.Background(), call(map[string]any{
		"start":       "2024-01-01",
		"end":         "2024-01-31",
		"aggregation": "daily",
	}))
	require.NoError(t, err)

	var out struct {
		Sets   []analysis.MuscleCount `json:"sets"`
		Volume []struct {
			Name string `json:"name"`
		} `json:"volume"`
	}
	decodeResult(t, res, &out)
	assert.Equal(t, []analysis.MuscleCount{{Muscle: "Chest", Sets: 3}, {Muscle: "Quads", Sets: 2}}, out.Sets)
	require.Len(t, out.Volume, 2)
	assert.Equal(t, "Chest", out.Volume[0].Name)
	assert.Equal(t, "Quads", out.Volume[1].Name)
}

func TestGetBodyPartVolumeBadAggregation(t *testing.T) {
	h := testHandlers(t)
	res, err := h.getBodyPartVolume(context.Background(), call(map[string]any{"aggregation": "hourly"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetEstimated1RM(t *testing.T) {
	h := testHandlers(t)

	res, err := h.getEstimated1RM(context.Background(), call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError, "exercise is required")

	res, err = h.getEstimated1RM(context.Background(), call(map[string]any{"exercise": "Bench Press (Barbell)"}))
	require.NoError(t, err)

	var out struct {
		Lines []struct {
			Name   string `json:"name"`
			Points []struct {
				Y float64 `json:"y"`
			} `json:"points"`
		} `json:"lines"`
	}
	decodeResult(t, res, &out)
	require.Len(t, out.Lines, 1)
	require.Len(t, out.Lines[0].Points, 2)
	assert.InDelta(t, 80*(1+5.0/30), out.Lines[0].Points[0].Y, 1e-9)
	assert.InDelta(t, 85*(1+3.0/30), out.Lines[0].Points[1].Y, 1e-9)
}

func TestListExercises(t *testing.T) {
	h := testHandlers(t)
	res, err := h.listExercises(context.Background(), call(nil))
	require.NoError(t, err)

	var out []exerciseListing
	decodeResult(t, res, &out)
	assert.Equal(t, []exerciseListing{
		{Name: "Bench Press (Barbell)", Sets: 2, Primary: "Chest", InCatalog: true},
		{Name: "Cable Fly Custom", Sets: 1, Primary: "Chest", InCatalog: false},
		{Name: "Squat (Barbell)", Sets: 2, Primary: "Quads", InCatalog: true},
	}, out)
}

type failingSource struct{}

func (failingSource) QueryEntries(context.Context, storage.EntryFilter) ([]models.WorkoutEntry, error) {
	return nil, errors.New("connection refused")
}

func TestToolQueryFailure(t *testing.T) {
	h := testHandlers(t)
	h.ds = failingSource{}
	res, err := h.listExercises(context.Background(), call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestMemorySourceFilter(t *testing.T) {
	src := &MemorySource{Entries: fixture}
	got, err := src.QueryEntries(context.Background(), storage.EntryFilter{
		Start:     "2024-01-02",
		Exercises: []string{"Squat (Barbell)"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-03", got[0].Date)
	// Lexically after the start; dropped later by date parsing.
	assert.Equal(t, "2024-13-01", got[1].Date)

	got, err = src.QueryEntries(context.Background(), storage.EntryFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestResources(t *testing.T) {
	h := testHandlers(t)
	h.muscles.Set("Sled Push", mapping.MuscleMapping{Primary: "Legs"})

	var req mcp.ReadResourceRequest
	req.Params.URI = "liftlog://muscle_groups"
	contents, err := h.muscleGroups(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	var groups []string
	require.NoError(t, json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &groups))
	assert.Contains(t, groups, "Chest")
	assert.Contains(t, groups, "Legs")

	req.Params.URI = "liftlog://exercise_catalog"
	contents, err = h.exerciseCatalog(context.Background(), req)
	require.NoError(t, err)
	var rows []catalogEntry
	require.NoError(t, json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &rows))

	byName := make(map[string]catalogEntry, len(rows))
	for _, r := range rows {
		byName[r.Name] = r
	}
	require.Contains(t, byName, "Sled Push")
	assert.Nil(t, byName["Sled Push"].Info)
	assert.Equal(t, "Legs", byName["Sled Push"].Overlay.Primary)
	require.NotNil(t, byName["Squat (Barbell)"].Info)
	assert.Equal(t, "Quads", byName["Squat (Barbell)"].Info.Primary)
}
