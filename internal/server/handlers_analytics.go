package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/export"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/series"
	"github.com/meltforce/liftlog/internal/storage"
)

// badRequest marks errors caused by the request parameters.
type badRequest struct{ error }

func badParam(name string, err error) error {
	return badRequest{fmt.Errorf("invalid %s: %w", name, err)}
}

// writeError maps a badRequest to 400 and anything else to 500.
func writeError(w http.ResponseWriter, err error) {
	var br badRequest
	if errors.As(err, &br) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// entryFilter builds the storage filter for the caller from start, end,
// exercise (repeatable) and source.
func entryFilter(r *http.Request) (storage.EntryFilter, error) {
	q := r.URL.Query()
	if _, err := analysis.ParseRange(q.Get("start"), q.Get("end")); err != nil {
		return storage.EntryFilter{}, badRequest{err}
	}
	return storage.EntryFilter{
		UserID:    userIDFromContext(r),
		Start:     q.Get("start"),
		End:       q.Get("end"),
		Exercises: exercisesParam(q),
		Source:    q.Get("source"),
	}, nil
}

func exercisesParam(q url.Values) []string {
	var out []string
	for _, ex := range q["exercise"] {
		if ex = strings.TrimSpace(ex); ex != "" {
			out = append(out, ex)
		}
	}
	return out
}

// load fetches the caller's entries and narrows them by the selection
// parameters. The returned range is the one analyses must admit against.
func (s *Server) load(r *http.Request) ([]models.WorkoutEntry, analysis.DateRange, error) {
	q := r.URL.Query()
	rng, err := analysis.ParseRange(q.Get("start"), q.Get("end"))
	if err != nil {
		return nil, rng, badRequest{err}
	}
	sel, err := parseSelection(q)
	if err != nil {
		return nil, rng, err
	}
	f, err := entryFilter(r)
	if err != nil {
		return nil, rng, err
	}

	entries, err := s.db.QueryEntries(r.Context(), f)
	if err != nil {
		s.log.Error("query entries", "path", r.URL.Path, "error", err)
		return nil, rng, fmt.Errorf("querying entries: %w", err)
	}
	return analysis.Select(entries, sel, s.mappings), rng, nil
}

func parseSelection(q url.Values) (analysis.Selection, error) {
	sel := analysis.Selection{
		SetType:    q.Get("set_type"),
		SupersetID: q.Get("superset"),
		NotesQuery: q.Get("notes"),
		BodyPart:   q.Get("body_part"),
	}
	var err error
	if v := q.Get("exclude_warmups"); v != "" {
		if sel.ExcludeWarmups, err = strconv.ParseBool(v); err != nil {
			return sel, badParam("exclude_warmups", err)
		}
	}
	if sel.MinRPE, err = floatParam(q, "min_rpe"); err != nil {
		return sel, err
	}
	if sel.MaxRPE, err = floatParam(q, "max_rpe"); err != nil {
		return sel, err
	}
	if sel.MinWeight, err = floatParam(q, "min_weight"); err != nil {
		return sel, err
	}
	if sel.MaxWeight, err = floatParam(q, "max_weight"); err != nil {
		return sel, err
	}
	if sel.MinReps, err = intParam(q, "min_reps"); err != nil {
		return sel, err
	}
	if sel.MaxReps, err = intParam(q, "max_reps"); err != nil {
		return sel, err
	}

	if v := q.Get("kind"); v != "" {
		k, ok := matchName(v, catalog.Compound, catalog.Isolation, catalog.Isometric, catalog.Cardio, catalog.Plyometric)
		if !ok {
			return sel, badRequest{fmt.Errorf("unknown kind %q", v)}
		}
		sel.Kind = &k
	}
	if v := q.Get("difficulty"); v != "" {
		d, ok := matchName(v, catalog.Beginner, catalog.Intermediate, catalog.Advanced)
		if !ok {
			return sel, badRequest{fmt.Errorf("unknown difficulty %q", v)}
		}
		sel.Difficulty = d
	}
	if v := q.Get("equipment"); v != "" {
		e, ok := matchName(v, catalog.Barbell, catalog.Dumbbell, catalog.Machine, catalog.Cable, catalog.Bodyweight, catalog.Other)
		if !ok {
			return sel, badRequest{fmt.Errorf("unknown equipment %q", v)}
		}
		sel.Equipment = e
	}
	return sel, nil
}

func matchName[T fmt.Stringer](name string, values ...T) (T, bool) {
	for _, v := range values {
		if strings.EqualFold(v.String(), name) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func floatParam(q url.Values, name string) (*float64, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, badParam(name, err)
	}
	return &f, nil
}

func intParam(q url.Values, name string) (*int, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, badParam(name, err)
	}
	return &n, nil
}

func (s *Server) formula(q url.Values) (analysis.Formula, error) {
	name := q.Get("formula")
	if name == "" {
		return s.cfg.Formula, nil
	}
	f, err := analysis.ParseFormula(name)
	if err != nil {
		return 0, badRequest{err}
	}
	return f, nil
}

func (s *Server) seriesOptions(q url.Values, rng analysis.DateRange) (series.Options, error) {
	o := series.Options{Range: rng, Unit: s.cfg.Unit}
	var err error
	if o.XAxis, err = series.ParseXAxis(q.Get("x")); err != nil {
		return o, badRequest{err}
	}
	if o.YAxis, err = series.ParseYAxis(q.Get("y")); err != nil {
		return o, badRequest{err}
	}
	if o.Smoothing, err = series.ParseSmoothing(q.Get("smoothing")); err != nil {
		return o, badRequest{err}
	}
	if o.Aggregation, err = series.ParseAggregation(q.Get("aggregation")); err != nil {
		return o, badRequest{err}
	}
	if v := q.Get("unit"); v != "" {
		if o.Unit, err = models.ParseWeightUnit(v); err != nil {
			return o, badRequest{err}
		}
	}
	if v := q.Get("window"); v != "" {
		if o.Window, err = strconv.Atoi(v); err != nil {
			return o, badParam("window", err)
		}
	}
	return o, nil
}

// --- Stats ---

type exerciseStatsRow struct {
	Exercise string `json:"exercise"`
	analysis.ExerciseStats
}

func exerciseStatsRows(stats []analysis.NamedExerciseStats) []exerciseStatsRow {
	rows := make([]exerciseStatsRow, len(stats))
	for i, s := range stats {
		rows[i] = exerciseStatsRow{Exercise: s.Exercise, ExerciseStats: s.Stats}
	}
	return rows
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	entries, rng, err := s.load(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis.ComputeStats(entries, rng))
}

func (s *Server) handleExerciseStats(w http.ResponseWriter, r *http.Request) {
	f, err := s.formula(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	entries, rng, err := s.load(r)
	if err != nil {
		writeError(w, err)
		return
	}
	stats := analysis.SortedExerciseStats(analysis.AggregateExerciseStats(entries, f, rng))
	writeJSON(w, http.StatusOK, map[string]any{
		"formula":   f.String(),
		"exercises": exerciseStatsRows(stats),
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	f, err := s.formula(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	entries, rng, err := s.load(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"formula": f.String(),
		"records": nonNil(analysis.PersonalRecords(entries, f, rng)),
	})
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	entries, rng, err := s.load(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(analysis.AggregateWeeklySummary(entries, rng)))
}

func (s *Server) handleBodyPartDistribution(w http.ResponseWriter, r *http.Request) {
	entries, rng, err := s.load(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(analysis.BodyPartDistribution(entries, s.mappings, rng)))
}

// --- Series ---

// seriesRequest loads entries and series options in one go.
func (s *Server) seriesRequest(r *http.Request) ([]models.WorkoutEntry, series.Options, error) {
	entries, rng, err := s.load(r)
	if err != nil {
		return nil, series.Options{}, err
	}
	o, err := s.seriesOptions(r.URL.Query(), rng)
	return entries, o, err
}

func requiredExercises(q url.Values) ([]string, error) {
	exs := exercisesParam(q)
	if len(exs) == 0 {
		return nil, badRequest{errors.New("exercise parameter is required")}
	}
	return exs, nil
}

func (s *Server) handleWeightSeries(w http.ResponseWriter, r *http.Request) {
	exs, err := requiredExercises(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	entries, o, err := s.seriesRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series.WeightOverTime(entries, exs, o))
}

func (s *Server) handleEstimated1RMSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exs, err := requiredExercises(q)
	if err != nil {
		writeError(w, err)
		return
	}
	f, err := s.formula(q)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, o, err := s.seriesRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"formula": f.String(),
		"lines":   series.Estimated1RM(entries, exs, f, o),
	})
}

func (s *Server) handleVolumeSeries(w http.ResponseWriter, r *http.Request) {
	entries, o, err := s.seriesRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series.TrainingVolume(entries, o))
}

func (s *Server) handleAggregatedVolume(w http.ResponseWriter, r *http.Request) {
	entries, o, err := s.seriesRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(series.AggregatedVolume(entries, o)))
}

func (s *Server) handleExerciseVolume(w http.ResponseWriter, r *http.Request) {
	exs, err := requiredExercises(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	entries, o, err := s.seriesRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series.ExerciseVolume(entries, exs[0], o))
}

func (s *Server) handleBodyPartVolume(w http.ResponseWriter, r *http.Request) {
	entries, o, err := s.seriesRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(series.BodyPartVolume(entries, s.mappings, o)))
}

func (s *Server) handleBodyPartTrend(w http.ResponseWriter, r *http.Request) {
	entries, o, err := s.seriesRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(series.BodyPartVolumeTrend(entries, s.mappings, o)))
}

func (s *Server) handleSetsPerDay(w http.ResponseWriter, r *http.Request) {
	exs, err := requiredExercises(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	entries, rng, err := s.load(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(series.SetsPerDay(entries, exs[0], rng)))
}

func (s *Server) handleRepHistogram(w http.ResponseWriter, r *http.Request) {
	entries, rng, err := s.load(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series.RepHistogram(entries, exercisesParam(r.URL.Query()), rng))
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric, err := series.ParseHistogramMetric(q.Get("metric"))
	if err != nil {
		writeError(w, badRequest{err})
		return
	}
	bin, err := floatParam(q, "bin")
	if err != nil {
		writeError(w, err)
		return
	}
	if bin == nil || !(*bin > 0) {
		writeError(w, badRequest{errors.New("bin must be a positive number")})
		return
	}
	entries, o, err := s.seriesRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"metric": metric.String(),
		"bins":   nonNil(series.Histogram(entries, metric, *bin, o)),
	})
}

func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	entries, o, err := s.seriesRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	pts := series.WeightRepsScatter(entries, exercisesParam(r.URL.Query()), o)
	writeJSON(w, http.StatusOK, nonNil(pts))
}

type forecastLine struct {
	Exercise      string         `json:"exercise"`
	SlopePerMonth float64        `json:"slope_per_month"`
	Trend         []series.Point `json:"trend"`
	Forecast      []series.Point `json:"forecast"`
}

// handleForecast projects each exercise's weight line monthsAhead months
// (default 6) forward. The slope is the line's own least-squares slope
// unless one is given.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exs, err := requiredExercises(q)
	if err != nil {
		writeError(w, err)
		return
	}
	months := 6.0
	if m, err := floatParam(q, "months"); err != nil {
		writeError(w, err)
		return
	} else if m != nil {
		months = *m
	}
	given, err := floatParam(q, "slope")
	if err != nil {
		writeError(w, err)
		return
	}
	entries, o, err := s.seriesRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	o.Window = 0

	lines := series.WeightOverTime(entries, exs, o)
	out := make([]forecastLine, 0, len(lines))
	for i, l := range lines {
		fl := forecastLine{Exercise: exs[i], Trend: nonNil(series.TrendLine(l.Points))}
		slope, ok := series.MonthlySlope(l.Points, o.XAxis)
		if given != nil {
			slope, ok = *given, true
		}
		if ok {
			fl.SlopePerMonth = slope
			fl.Forecast = series.Forecast(l.Points, slope, months, o.XAxis)
		}
		fl.Forecast = nonNil(fl.Forecast)
		out = append(out, fl)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRPESeries(w http.ResponseWriter, r *http.Request) {
	entries, o, err := s.seriesRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series.AverageRPE(entries, o))
}

// --- Export ---

// handleExport renders /api/v1/export/{kind}.{format} as a download. The
// document is rendered into memory first so a failure still yields a JSON
// error instead of a truncated file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !slices.Contains(export.Kinds, kind) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown export kind %q", kind)})
		return
	}
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	f, err := s.formula(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	entries, rng, err := s.load(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Document(&buf, kind, format, entries, f, rng); err != nil {
		s.log.Error("export", "kind", kind, "format", format, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="liftlog-%s.%s"`, kind, format))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}
