package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/ingest/hevy"
	"github.com/meltforce/liftlog/internal/mapping"
	liftmcp "github.com/meltforce/liftlog/internal/mcp"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

const testAPIKey = "test-key"

const hevyCSV = "title,start_time,end_time,description,exercise_title,superset_id,exercise_notes,set_index,set_type,weight_kg,reps,distance_miles,duration_seconds,rpe\n" +
	`Push,"01 Jan 2024, 08:00","01 Jan 2024, 09:00",,"Bench Press (Barbell)",,,0,normal,80,5,,,8` + "\n" +
	`Push,"01 Jan 2024, 08:00","01 Jan 2024, 09:00",,"Bench Press (Barbell)",,,1,normal,85,3,,,9` + "\n" +
	`Legs,"03 Jan 2024, 08:00","03 Jan 2024, 09:00",,"Squat (Barbell)",,,0,normal,100,5,,,` + "\n"

// memStore is an in-memory EntryStore.
type memStore struct {
	rows []models.EntryRow
	seen map[string]bool
	logs []storage.ImportLog
}

func newMemStore() *memStore {
	return &memStore{seen: make(map[string]bool)}
}

func (m *memStore) InsertEntries(ctx context.Context, rows []models.EntryRow) (int64, error) {
	var n int64
	for _, r := range rows {
		key := fmt.Sprintf("%d/%s", r.UserID, r.Fingerprint)
		if m.seen[key] {
			continue
		}
		m.seen[key] = true
		m.rows = append(m.rows, r)
		n++
	}
	return n, nil
}

func (m *memStore) QueryEntries(ctx context.Context, f storage.EntryFilter) ([]models.WorkoutEntry, error) {
	var mine []models.WorkoutEntry
	for _, r := range m.rows {
		if r.UserID != f.UserID {
			continue
		}
		if f.ImportID != uuid.Nil && r.ImportID != f.ImportID {
			continue
		}
		mine = append(mine, r.Entry)
	}
	src := &liftmcp.MemorySource{Entries: mine}
	return src.QueryEntries(ctx, f)
}

func (m *memStore) ListExercises(ctx context.Context, userID int) ([]string, error) {
	entries, _ := m.QueryEntries(ctx, storage.EntryFilter{UserID: userID})
	return analysis.UniqueExercises(entries, analysis.DateRange{}), nil
}

func (m *memStore) DeleteImport(ctx context.Context, userID int, importID uuid.UUID) (int64, error) {
	kept := m.rows[:0]
	var n int64
	for _, r := range m.rows {
		if r.UserID == userID && r.ImportID == importID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return n, nil
}

func (m *memStore) GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error) {
	return &storage.DataStats{TotalEntries: int64(len(m.rows))}, nil
}

func (m *memStore) InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error) {
	m.logs = append(m.logs, log)
	return int64(len(m.logs)), nil
}

func (m *memStore) QueryImportLogs(ctx context.Context, userID, limit int) ([]storage.ImportLog, error) {
	return m.logs, nil
}

func newTestServer(t *testing.T) (*Server, *memStore) {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	db := newMemStore()
	srv := New(db, hevy.NewProvider(db, log), alpha.NewProvider(db, false, log), mapping.New(nil, log), Config{
		APIKey:  testAPIKey,
		Formula: analysis.Epley,
		Unit:    models.Kg,
		Version: "test",
	}, log)
	return srv, db
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode error: %v (body %q)", err, rec.Body.String())
	}
}

func ingestFixture(t *testing.T, srv http.Handler) {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/v1/ingest/hevy", hevyCSV)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest status = %d, body %s", rec.Code, rec.Body.String())
	}
}

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "local", DisplayName: "Local Dev User"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info UserInfo
	decode(t, rec, &info)
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
	if info.DisplayName != "Local Dev User" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Local Dev User")
	}
}

// TestHandleMeTailscaleUser verifies the /api/v1/me endpoint returns the
// Tailscale user identity when set in context.
func TestHandleMeTailscaleUser(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	var info UserInfo
	decode(t, rec, &info)
	if info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}
}

// TestIngestHevyDeduplicates verifies a re-upload of the same export inserts
// nothing and that both attempts are logged.
func TestIngestHevyDeduplicates(t *testing.T) {
	srv, db := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/ingest/hevy", hevyCSV)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var first struct {
		EntriesInserted  int64 `json:"entries_inserted"`
		EntriesDuplicate int64 `json:"entries_duplicate"`
	}
	decode(t, rec, &first)
	if first.EntriesInserted != 3 || first.EntriesDuplicate != 0 {
		t.Errorf("first upload = %+v, want 3 inserted", first)
	}

	rec = do(t, srv, http.MethodPost, "/api/v1/ingest/hevy", hevyCSV)
	var second struct {
		EntriesInserted  int64 `json:"entries_inserted"`
		EntriesDuplicate int64 `json:"entries_duplicate"`
	}
	decode(t, rec, &second)
	if second.EntriesInserted != 0 || second.EntriesDuplicate != 3 {
		t.Errorf("second upload = %+v, want 3 duplicates", second)
	}

	if len(db.logs) != 2 {
		t.Fatalf("import logs = %d, want 2", len(db.logs))
	}
	if db.logs[0].Status != storage.ImportSuccess || db.logs[0].ImportID == nil {
		t.Errorf("log = %+v, want success with import id", db.logs[0])
	}
}

// TestIngestBadCSVLogsError verifies a rejected upload returns 400 and
// leaves an error entry in the import log.
func TestIngestBadCSVLogsError(t *testing.T) {
	srv, db := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/ingest/hevy", "no,known,columns\n1,2,3\n")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(db.logs) != 1 || db.logs[0].Status != storage.ImportError || db.logs[0].ErrorMessage == nil {
		t.Errorf("logs = %+v, want one error entry", db.logs)
	}
}

// TestWriteEndpointsRequireAPIKey verifies ingest is rejected without a key.
func TestWriteEndpointsRequireAPIKey(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/hevy", strings.NewReader(hevyCSV))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestStatsEndpoints verifies the stats routes compute over ingested entries
// and honor the date window.
func TestStatsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	ingestFixture(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/v1/stats", "")
	var stats analysis.BasicStats
	decode(t, rec, &stats)
	if stats.TotalWorkouts != 2 {
		t.Errorf("total_workouts = %d, want 2", stats.TotalWorkouts)
	}
	if stats.MostCommonExercise != "Bench Press (Barbell)" {
		t.Errorf("most_common_exercise = %q", stats.MostCommonExercise)
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/stats?start=2024-01-02", "")
	decode(t, rec, &stats)
	if stats.TotalWorkouts != 1 || stats.MostCommonExercise != "Squat (Barbell)" {
		t.Errorf("windowed stats = %+v", stats)
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/stats/records?formula=brzycki", "")
	var recs struct {
		Formula string                 `json:"formula"`
		Records []analysis.NamedRecord `json:"records"`
	}
	decode(t, rec, &recs)
	if recs.Formula != "brzycki" || len(recs.Records) != 2 {
		t.Errorf("records = %+v", recs)
	}
}

// TestSelectionParams verifies query parameters narrow the analysed sets.
func TestSelectionParams(t *testing.T) {
	srv, _ := newTestServer(t)
	ingestFixture(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/v1/stats/exercises?min_rpe=8.5", "")
	var out struct {
		Exercises []exerciseStatsRow `json:"exercises"`
	}
	decode(t, rec, &out)
	if len(out.Exercises) != 1 || out.Exercises[0].Exercise != "Bench Press (Barbell)" || out.Exercises[0].TotalSets != 1 {
		t.Errorf("exercises = %+v, want the single RPE 9 bench set", out.Exercises)
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/stats/body-parts?body_part=quads", "")
	var parts []analysis.MuscleCount
	decode(t, rec, &parts)
	if len(parts) != 1 || parts[0].Muscle != "Quads" || parts[0].Sets != 1 {
		t.Errorf("body parts = %+v", parts)
	}
}

// TestBadParams verifies malformed parameters return 400.
func TestBadParams(t *testing.T) {
	srv, _ := newTestServer(t)

	paths := []string{
		"/api/v1/stats?start=yesterday",
		"/api/v1/stats/exercises?formula=guess",
		"/api/v1/stats?min_reps=many",
		"/api/v1/stats?equipment=kettlebell",
		"/api/v1/series/weight",
		"/api/v1/series/volume?aggregation=hourly",
		"/api/v1/series/1rm?exercise=Squat&unit=stone",
		"/api/v1/entries?import_id=nope",
		"/api/v1/export/stats.xml",
		"/api/v1/export/everything.csv",
	}
	for _, p := range paths {
		rec := do(t, srv, http.MethodGet, p, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want 400", p, rec.Code)
		}
	}
}

// TestEstimated1RMSeries verifies the 1RM series route returns one point per
// set of the requested exercise.
func TestEstimated1RMSeries(t *testing.T) {
	srv, _ := newTestServer(t)
	ingestFixture(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/v1/series/1rm?exercise=Bench+Press+(Barbell)", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Lines []struct {
			Points []struct {
				Y float64 `json:"y"`
			} `json:"points"`
		} `json:"lines"`
	}
	decode(t, rec, &out)
	if len(out.Lines) != 1 || len(out.Lines[0].Points) != 2 {
		t.Fatalf("lines = %+v, want one line of two points", out.Lines)
	}
	if want := 80 * (1 + 5.0/30); math.Abs(out.Lines[0].Points[0].Y-want) > 1e-9 {
		t.Errorf("first point = %v, want %v", out.Lines[0].Points[0].Y, want)
	}
}

// TestDistributionSeries verifies the binned histogram, scatter and
// forecast routes over the fixture sets.
func TestDistributionSeries(t *testing.T) {
	srv, _ := newTestServer(t)
	ingestFixture(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/v1/series/histogram?metric=reps&bin=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("histogram status = %d, body %s", rec.Code, rec.Body.String())
	}
	var hist struct {
		Metric string `json:"metric"`
		Bins   []struct {
			Center float64 `json:"center"`
			Count  int     `json:"count"`
		} `json:"bins"`
	}
	decode(t, rec, &hist)
	if hist.Metric != "Reps" || len(hist.Bins) != 2 || hist.Bins[0].Center != 3 || hist.Bins[1].Count != 2 {
		t.Errorf("histogram = %+v", hist)
	}
	if rec := do(t, srv, http.MethodGet, "/api/v1/series/histogram?metric=reps", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("histogram without bin: status = %d, want 400", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/series/scatter?exercise=Squat+(Barbell)", "")
	var pts []struct{ X, Y float64 }
	decode(t, rec, &pts)
	if len(pts) != 1 || pts[0].X != 100 || pts[0].Y != 5 {
		t.Errorf("scatter = %+v, want one point (100, 5)", pts)
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/series/forecast?exercise=Bench+Press+(Barbell)&months=2&slope=2.5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("forecast status = %d, body %s", rec.Code, rec.Body.String())
	}
	var fc []struct {
		Exercise string `json:"exercise"`
		Forecast []struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"forecast"`
	}
	decode(t, rec, &fc)
	if len(fc) != 1 || len(fc[0].Forecast) != 2 {
		t.Fatalf("forecast = %+v", fc)
	}
	if got := fc[0].Forecast[1]; got.Y != 90 || got.X-fc[0].Forecast[0].X != 60 {
		t.Errorf("projected point = %+v, want +60 days at 90", got)
	}
}

// TestExportRecordsCSV verifies the export route sets download headers and
// renders the CSV document.
func TestExportRecordsCSV(t *testing.T) {
	srv, _ := newTestServer(t)
	ingestFixture(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/v1/export/records.csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "liftlog-records.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header and two records", len(lines))
	}
	if lines[0] != "exercise,max_weight,max_volume,best_est_1rm" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Bench Press (Barbell),85,") {
		t.Errorf("first record = %q", lines[1])
	}
}

// TestDeleteImport verifies deleting an import removes its entries.
func TestDeleteImport(t *testing.T) {
	srv, db := newTestServer(t)
	ingestFixture(t, srv)

	id := db.rows[0].ImportID
	rec := do(t, srv, http.MethodDelete, "/api/v1/imports/"+id.String(), "")
	var out map[string]int64
	decode(t, rec, &out)
	if out["deleted"] != 3 {
		t.Errorf("deleted = %d, want 3", out["deleted"])
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/entries", "")
	var entries []models.WorkoutEntry
	decode(t, rec, &entries)
	if entries == nil || len(entries) != 0 {
		t.Errorf("entries = %v, want empty array", entries)
	}
}

// TestMappingLifecycle verifies an overlay row can be set, read and removed
// and that it changes how exercises resolve.
func TestMappingLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	ingestFixture(t, srv)

	rec := do(t, srv, http.MethodPut, "/api/v1/mappings/Squat%20(Barbell)", `{"primary":"Glutes"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/mappings/Squat%20(Barbell)", "")
	var m mapping.MuscleMapping
	decode(t, rec, &m)
	if m.Primary != "Glutes" {
		t.Errorf("primary = %q, want Glutes", m.Primary)
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/exercises", "")
	var exs []exerciseInfo
	decode(t, rec, &exs)
	if len(exs) != 2 || exs[1].Name != "Squat (Barbell)" || exs[1].Primary != "Glutes" || !exs[1].InCatalog {
		t.Errorf("exercises = %+v", exs)
	}

	rec = do(t, srv, http.MethodDelete, "/api/v1/mappings/Squat%20(Barbell)", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/api/v1/mappings/Squat%20(Barbell)", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

// TestRefreshMappings verifies the refresh route copies catalog muscles for
// the logged exercises into the overlay.
func TestRefreshMappings(t *testing.T) {
	srv, _ := newTestServer(t)
	ingestFixture(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/v1/mappings/refresh", "")
	var out map[string]int
	decode(t, rec, &out)
	if out["updated"] != 2 {
		t.Errorf("updated = %d, want 2", out["updated"])
	}

	rec = do(t, srv, http.MethodPost, "/api/v1/mappings/refresh", "")
	decode(t, rec, &out)
	if out["updated"] != 0 {
		t.Errorf("second refresh updated = %d, want 0", out["updated"])
	}
}

// TestSyncNotConfigured verifies /api/v1/sync reports 503 without a token.
func TestSyncNotConfigured(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/sync", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/api/v1/sync/runs", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("runs = %d %q, want 200 []", rec.Code, rec.Body.String())
	}
}
