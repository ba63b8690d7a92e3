package mcp

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/mapping"
)

func (h *handlers) muscleGroups(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.muscles.PrimaryMuscleGroups())
}

// catalogEntry is one exercise_catalog row. Overlay is set when the user
// mapping has a row for the exercise.
type catalogEntry struct {
	Name    string                 `json:"name"`
	Info    *catalog.ExerciseInfo  `json:"info,omitempty"`
	Overlay *mapping.MuscleMapping `json:"overlay,omitempty"`
}

func (h *handlers) exerciseCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	overlay := h.muscles.All()

	names := catalog.Names()
	for name := range overlay {
		if _, ok := catalog.InfoFor(name); !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	rows := make([]catalogEntry, 0, len(names))
	for _, name := range names {
		row := catalogEntry{Name: name}
		if info, ok := catalog.InfoFor(name); ok {
			row.Info = &info
		}
		if m, ok := overlay[name]; ok {
			row.Overlay = &m
		}
		rows = append(rows, row)
	}
	return jsonResource(req.Params.URI, rows)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
