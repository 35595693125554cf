package api

import (
	"net/http"
	"strconv"

	"github.com/iammorganparry/taskplanner/internal/tasks"
)

type GraphHandler struct {
	svc           *tasks.Service
	defaultWidth  float64
	defaultHeight float64
}

func NewGraphHandler(svc *tasks.Service, defaultWidth, defaultHeight float64) *GraphHandler {
	return &GraphHandler{svc: svc, defaultWidth: defaultWidth, defaultHeight: defaultHeight}
}

// Graph handles GET /graph
func (h *GraphHandler) Graph(w http.ResponseWriter, r *http.Request) {
	adjacency, report := h.svc.Graph()
	writeJSON(w, http.StatusOK, map[string]any{
		"adjacency":    adjacency,
		"has_cycle":    report.HasCycle,
		"cycle_titles": report.CycleTitles,
	})
}

// Layout handles GET /graph/layout?width=&height=
func (h *GraphHandler) Layout(w http.ResponseWriter, r *http.Request) {
	width := queryFloat(r, "width", h.defaultWidth)
	height := queryFloat(r, "height", h.defaultHeight)
	if width <= 0 || height <= 0 {
		writeError(w, http.StatusBadRequest, "width and height must be positive")
		return
	}

	writeJSON(w, http.StatusOK, h.svc.Layout(width, height))
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
