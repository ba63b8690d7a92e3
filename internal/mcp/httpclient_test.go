package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestQueryEntries verifies the HTTP client sends the filter as query params
// and correctly parses the JSON array response.
func TestQueryEntries(t *testing.T) {
	importID := uuid.MustParse("6f1c2a3e-9a0b-4c1d-8e2f-3a4b5c6d7e8f")
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/entries": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if got := q.Get("start"); got != "2024-01-01" {
				t.Errorf("start=%q, want 2024-01-01", got)
			}
			if got := q.Get("end"); got != "2024-01-31" {
				t.Errorf("end=%q, want 2024-01-31", got)
			}
			if got := q["exercise"]; len(got) != 2 || got[0] != "Squat (Barbell)" || got[1] != "Deadlift (Barbell)" {
				t.Errorf("exercise=%v, want both lifts", got)
			}
			if got := q.Get("import_id"); got != importID.String() {
				t.Errorf("import_id=%q, want %s", got, importID)
			}
			if got := q.Get("limit"); got != "10" {
				t.Errorf("limit=%q, want 10", got)
			}
			if q.Has("user_id") {
				t.Error("user_id must not be sent")
			}

			writeTestJSON(t, w, []models.WorkoutEntry{
				{Date: "2024-01-02", Exercise: "Squat (Barbell)", Weight: models.Float(100), Reps: models.Int(5)},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL + "/")
	entries, err := client.QueryEntries(context.Background(), storage.EntryFilter{
		UserID:    7,
		Start:     "2024-01-01",
		End:       "2024-01-31",
		Exercises: []string{"Squat (Barbell)", "Deadlift (Barbell)"},
		ImportID:  importID,
		Limit:     10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if *entries[0].Weight != 100 || *entries[0].Reps != 5 {
		t.Errorf("entry = %+v", entries[0])
	}
}

// TestQueryEntriesEmptyFilter verifies that an empty filter sends no query string.
func TestQueryEntriesEmptyFilter(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/entries": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				t.Errorf("query = %q, want empty", r.URL.RawQuery)
			}
			writeTestJSON(t, w, []models.WorkoutEntry{})
		},
	})
	defer ts.Close()

	entries, err := NewHTTPClient(ts.URL).QueryEntries(context.Background(), storage.EntryFilter{UserID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

// TestHTTPClientErrorStatus verifies non-200 responses surface as errors
// carrying the status and body.
func TestHTTPClientErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/entries": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"db down"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL).QueryEntries(context.Background(), storage.EntryFilter{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "db down") {
		t.Errorf("error = %v, want status and body", err)
	}
}

// TestHTTPClientBadJSON verifies decode failures are reported.
func TestHTTPClientBadJSON(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/entries": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"an array"}`)) //nolint:errcheck
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL).QueryEntries(context.Background(), storage.EntryFilter{})
	if err == nil || !strings.Contains(err.Error(), "decode entries") {
		t.Errorf("error = %v, want decode error", err)
	}
}
