package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

const hevyExport = "title,start_time,end_time,description,exercise_title,superset_id,exercise_notes,set_index,set_type,weight_kg,reps,distance_miles,duration_seconds,rpe\n" +
	`Push,"01 Jan 2024, 08:00","01 Jan 2024, 09:00",,"Bench Press (Barbell)",,,0,normal,80,5,,,8` + "\n" +
	`Push,"01 Jan 2024, 08:00","01 Jan 2024, 09:00",,"Bench Press (Barbell)",,,1,normal,85,3,,,9` + "\n"

const extraSet = `Legs,"03 Jan 2024, 08:00","03 Jan 2024, 09:00",,"Squat (Barbell)",,,0,normal,100,5,,,` + "\n"

const alphaExport = `"Legs · Day 1";"2024-01-02 7:00 h";"1:00 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 40 kg · 8 reps"
#;KG;REPS;RIR
1;100;8;1
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDetectFormat verifies that exports are told apart by their first line.
func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"hevy", hevyExport, Hevy},
		{"plain", "date,exercise,weight,reps\n2024-01-01,Squat,100,5\n", Hevy},
		{"alpha", alphaExport, Alpha},
		{"alpha after blank lines", "\n\n" + alphaExport, Alpha},
		{"empty", "", Hevy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat([]byte(tt.data)); got != tt.want {
				t.Errorf("DetectFormat = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestParseFormat verifies accepted and rejected format names.
func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" Alpha "); err != nil || f != Alpha {
		t.Errorf("ParseFormat(Alpha) = %q, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != "" {
		t.Errorf("ParseFormat(\"\") = %q, %v", f, err)
	}
	if _, err := ParseFormat("strong"); err == nil {
		t.Error("ParseFormat(strong) should fail")
	}
}

type ingestServer struct {
	calls atomic.Int32
	paths chan string
}

func newIngestServer(t *testing.T, status func(call int32) int) (*httptest.Server, *ingestServer) {
	t.Helper()
	is := &ingestServer{paths: make(chan string, 16)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := is.calls.Add(1)
		if r.Header.Get("X-API-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file.Close()
		is.paths <- r.URL.Path + " " + header.Filename

		code := status(call)
		w.WriteHeader(code)
		if code == http.StatusOK {
			io.WriteString(w, `{"import_id":"6f1c2a4e-8d0b-4c53-9a57-3f0e8a1b2c3d","entries_parsed":2,"entries_inserted":2,"entries_duplicate":0}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, is
}

func alwaysOK(int32) int { return http.StatusOK }

// TestSendExport verifies the multipart upload and result decoding.
func TestSendExport(t *testing.T) {
	srv, is := newIngestServer(t, alwaysOK)
	c := NewClient(srv.URL+"/", "secret")

	result, err := c.SendExport(context.Background(), Hevy, "workouts.csv", []byte(hevyExport))
	if err != nil {
		t.Fatal(err)
	}
	if result.EntriesInserted != 2 {
		t.Errorf("EntriesInserted = %d, want 2", result.EntriesInserted)
	}
	if got := <-is.paths; got != "/api/v1/ingest/hevy workouts.csv" {
		t.Errorf("request = %q", got)
	}
}

// TestSendExportRetries verifies that 5xx responses are retried and 4xx
// responses are not.
func TestSendExportRetries(t *testing.T) {
	srv, is := newIngestServer(t, func(call int32) int {
		if call < 3 {
			return http.StatusBadGateway
		}
		return http.StatusOK
	})
	c := NewClient(srv.URL, "secret")
	c.backoff = time.Millisecond

	if _, err := c.SendExport(context.Background(), Alpha, "a.csv", []byte(alphaExport)); err != nil {
		t.Fatal(err)
	}
	if n := is.calls.Load(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}

	bad := NewClient(srv.URL, "wrong")
	bad.backoff = time.Millisecond
	_, err := bad.SendExport(context.Background(), Alpha, "a.csv", []byte(alphaExport))
	if !errors.Is(err, ErrRejected) {
		t.Errorf("err = %v, want ErrRejected", err)
	}
	if n := is.calls.Load(); n != 4 {
		t.Errorf("calls = %d, want 4", n)
	}
}

func writeExports(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "alpha"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"hevy.csv":       hevyExport,
		"alpha/legs.csv": alphaExport,
		"notes.txt":      "not an export",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// TestUploaderSkipsUploadedFiles verifies that a second run sends nothing
// and that a changed file is sent again.
func TestUploaderSkipsUploadedFiles(t *testing.T) {
	srv, is := newIngestServer(t, alwaysOK)
	dir := writeExports(t)
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()
	c := NewClient(srv.URL, "secret")

	stats, err := New(c, state, dir, "", false, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesTotal != 2 || stats.FilesUploaded != 2 {
		t.Errorf("first run = %+v, want 2 files uploaded", stats)
	}
	got := map[string]bool{<-is.paths: true, <-is.paths: true}
	if !got["/api/v1/ingest/alpha legs.csv"] || !got["/api/v1/ingest/hevy hevy.csv"] {
		t.Errorf("requests = %v", got)
	}
	history, err := state.History(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Errorf("history has %d records, want 2", len(history))
	}

	stats, err = New(c, state, dir, "", false, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 2 || stats.FilesUploaded != 0 {
		t.Errorf("second run = %+v, want 2 skipped", stats)
	}

	if err := os.WriteFile(filepath.Join(dir, "hevy.csv"), []byte(hevyExport+extraSet), 0o644); err != nil {
		t.Fatal(err)
	}
	stats, err = New(c, state, dir, "", false, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesUploaded != 1 || stats.FilesSkipped != 1 {
		t.Errorf("third run = %+v, want 1 uploaded and 1 skipped", stats)
	}
}

// TestUploaderDryRun verifies that dry runs parse locally and record nothing.
func TestUploaderDryRun(t *testing.T) {
	dir := writeExports(t)
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	u := New(NewClient("http://127.0.0.1:0", ""), state, dir, "", true, testLogger())
	stats, err := u.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// 2 Hevy sets plus 1 Alpha working set and its warmup.
	if stats.EntriesParsed != 4 {
		t.Errorf("EntriesParsed = %d, want 4", stats.EntriesParsed)
	}

	stats, err = u.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 0 {
		t.Errorf("FilesSkipped = %d, want 0 after dry run", stats.FilesSkipped)
	}
}

// TestUploaderCountsRejectedFiles verifies that a rejected file does not stop
// the run.
func TestUploaderCountsRejectedFiles(t *testing.T) {
	srv, _ := newIngestServer(t, func(call int32) int {
		if call == 1 {
			return http.StatusBadRequest
		}
		return http.StatusOK
	})
	dir := writeExports(t)
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	stats, err := New(NewClient(srv.URL, "secret"), state, dir, "", false, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesErrored != 1 || stats.FilesUploaded != 1 {
		t.Errorf("stats = %+v, want 1 errored and 1 uploaded", stats)
	}
}

// TestStateDBPushed verifies that a path counts as pushed only with the
// remembered hash, and that History returns newest first.
func TestStateDBPushed(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	if ok, err := state.Pushed("a.csv", "h1"); err != nil || ok {
		t.Fatalf("Pushed before Remember = %v, %v", ok, err)
	}
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	recs := []Record{
		{Path: "a.csv", Hash: "h1", Format: Hevy, EntriesInserted: 3, UploadedAt: base},
		{Path: "b.csv", Hash: "h2", Format: Alpha, EntriesDuplicate: 2, UploadedAt: base.Add(time.Hour)},
	}
	for _, rec := range recs {
		if err := state.Remember(rec); err != nil {
			t.Fatal(err)
		}
	}

	if ok, _ := state.Pushed("a.csv", "h1"); !ok {
		t.Error("a.csv with h1 should be pushed")
	}
	if ok, _ := state.Pushed("a.csv", "changed"); ok {
		t.Error("a.csv with a new hash should not be pushed")
	}

	history, err := state.History(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Path != "b.csv" || history[0].Format != Alpha {
		t.Errorf("History(1) = %+v, want b.csv", history)
	}
	if history[0].EntriesDuplicate != 2 || !history[0].UploadedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("record = %+v", history[0])
	}
}
