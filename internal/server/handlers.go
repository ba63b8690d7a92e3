package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/hevysync"
	"github.com/meltforce/liftlog/internal/ingest"
	"github.com/meltforce/liftlog/internal/storage"
)

// maxUploadBytes bounds a CSV upload.
const maxUploadBytes = 32 << 20

type ingestFunc func(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error)

func (s *Server) handleHevyIngest(w http.ResponseWriter, r *http.Request) {
	s.ingestUpload(w, r, "hevy_csv", s.hevy.Ingest)
}

func (s *Server) handleAlphaIngest(w http.ResponseWriter, r *http.Request) {
	s.ingestUpload(w, r, "alpha_csv", s.alpha.Ingest)
}

// ingestUpload feeds the uploaded CSV to ingestFn and records the outcome.
// The file is the raw request body or the "file" part of a multipart form.
func (s *Server) ingestUpload(w http.ResponseWriter, r *http.Request, source string, ingestFn ingestFunc) {
	uid := userIDFromContext(r)
	start := time.Now()

	body, filename, err := uploadBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	defer body.Close()

	result, err := ingestFn(r.Context(), body, uid)
	s.logImport(uid, source, result, err, time.Since(start), map[string]any{"filename": filename})
	if err != nil {
		s.log.Error("ingest error", "source", source, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func uploadBody(w http.ResponseWriter, r *http.Request) (io.ReadCloser, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, "", nil
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errors.New("multipart upload needs a \"file\" field")
	}
	return file, header.Filename, nil
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.syncer == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "sync is not configured"})
		return
	}
	uid := userIDFromContext(r)
	start := time.Now()

	result, err := s.syncer.Run(r.Context(), uid)
	s.logImport(uid, hevysync.Source, result, err, time.Since(start), nil)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, context.Canceled) {
			status = http.StatusRequestTimeout
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSyncRuns(w http.ResponseWriter, r *http.Request) {
	if s.syncer == nil {
		writeJSON(w, http.StatusOK, []hevysync.Run{})
		return
	}
	runs, err := s.syncer.Runs(r.Context(), limitParam(r, 20))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []hevysync.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleQueryEntries(w http.ResponseWriter, r *http.Request) {
	f, err := entryFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if raw := r.URL.Query().Get("import_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid import_id"})
			return
		}
		f.ImportID = id
	}
	f.Limit = limitParam(r, 0)

	entries, err := s.db.QueryEntries(r.Context(), f)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

func (s *Server) handleDeleteImport(w http.ResponseWriter, r *http.Request) {
	importID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid import ID"})
		return
	}
	n, err := s.db.DeleteImport(r.Context(), userIDFromContext(r), importID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

type exerciseInfo struct {
	Name      string `json:"name"`
	Primary   string `json:"primary,omitempty"`
	InCatalog bool   `json:"in_catalog"`
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	names, err := s.db.ListExercises(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]exerciseInfo, len(names))
	for i, name := range names {
		primary, _ := s.mappings.BodyPartFor(name)
		_, inCatalog := catalog.InfoFor(name)
		out[i] = exerciseInfo{Name: name, Primary: primary, InCatalog: inCatalog}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMuscles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.mappings.PrimaryMuscleGroups())
}

func (s *Server) handleDataStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.db.QueryImportLogs(r.Context(), userIDFromContext(r), limitParam(r, 50))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, nonNil(logs))
}

// logImport records an import operation's result to the import_logs table.
// result may be nil when the import failed early.
func (s *Server) logImport(uid int, source string, result *ingest.Result, importErr error, elapsed time.Duration, metadata map[string]any) {
	status := storage.ImportSuccess
	var errMsg *string
	if importErr != nil {
		status = storage.ImportError
		msg := importErr.Error()
		errMsg = &msg
	}

	durationMs := int(elapsed.Milliseconds())
	log := storage.ImportLog{
		UserID:       uid,
		Source:       source,
		Status:       status,
		DurationMs:   &durationMs,
		ErrorMessage: errMsg,
	}
	if result != nil {
		if result.ImportID != uuid.Nil {
			id := result.ImportID
			log.ImportID = &id
		}
		log.RowsReceived = result.RowsReceived
		log.RowsSkipped = result.RowsSkipped
		log.EntriesInserted = result.EntriesInserted
		log.EntriesDuplicate = result.EntriesDuplicate
	}
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			msg := json.RawMessage(raw)
			log.Metadata = &msg
		}
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	if _, err := s.db.InsertImportLog(ctx, log); err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
	}
}

// contextWithTimeout returns a background context with a 5-second timeout for import logging.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func limitParam(r *http.Request, def int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

// nonNil turns a nil slice into an empty one so it encodes as [].
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
