package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/mapping"
	"github.com/meltforce/liftlog/internal/storage"
)

// mappingName returns the unescaped {name} path parameter.
func mappingName(r *http.Request) (string, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}

func (s *Server) handleListMappings(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("defaults") == "true" {
		writeJSON(w, http.StatusOK, s.mappings.AllWithDefaults())
		return
	}
	writeJSON(w, http.StatusOK, s.mappings.All())
}

func (s *Server) handleGetMapping(w http.ResponseWriter, r *http.Request) {
	name, ok := mappingName(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise name"})
		return
	}
	m, ok := s.mappings.Get(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no mapping for " + name})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleSetMapping(w http.ResponseWriter, r *http.Request) {
	name, ok := mappingName(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise name"})
		return
	}
	var m mapping.MuscleMapping
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&m); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.mappings.Set(name, m)
	s.mappings.Save()
	s.log.Info("mapping updated", "exercise", name, "primary", m.Primary)
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleRemoveMapping(w http.ResponseWriter, r *http.Request) {
	name, ok := mappingName(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise name"})
		return
	}
	s.mappings.Remove(name)
	s.mappings.Save()
	w.WriteHeader(http.StatusNoContent)
}

// handleRefreshMappings syncs the overlay with the catalog for every
// exercise the caller has logged.
func (s *Server) handleRefreshMappings(w http.ResponseWriter, r *http.Request) {
	entries, err := s.db.QueryEntries(r.Context(), storage.EntryFilter{UserID: userIDFromContext(r)})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	n := analysis.UpdateMappingsFromWorkouts(entries, s.mappings)
	if n > 0 {
		s.mappings.Save()
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}
