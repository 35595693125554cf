package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/iammorganparry/taskplanner/internal/analyzer"
	"github.com/iammorganparry/taskplanner/internal/models"
)

// AnalyzerHandler serves the scoring engine itself under /api/tasks. The
// dashboard never calls it in-process; it goes through the HTTP client so
// the engine stays swappable for a remote deployment.
type AnalyzerHandler struct {
	engine *analyzer.Engine
}

func NewAnalyzerHandler(engine *analyzer.Engine) *AnalyzerHandler {
	return &AnalyzerHandler{engine: engine}
}

// Analyze handles POST /api/tasks/analyze
func (h *AnalyzerHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	strategy := models.Strategy(req.Strategy)
	if strategy == "" {
		strategy = models.StrategySmartBalance
	}

	scored, err := h.engine.Score(strategy, req.Tasks)
	if err != nil {
		var inputErr *analyzer.InputError
		if errors.As(err, &inputErr) {
			writeError(w, http.StatusBadRequest, inputErr.Detail)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.AnalyzeResponse{Tasks: scored})
}

// Suggest handles GET /api/tasks/suggest. Demo endpoint: echoes the query
// back with an empty task list.
func (h *AnalyzerHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	strategy := r.URL.Query().Get("strategy")
	if strategy == "" {
		strategy = string(models.StrategySmartBalance)
	}
	limit := 3
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"detail":   "Suggest endpoint demo. Connect to DB for real use.",
		"strategy": strategy,
		"limit":    limit,
		"tasks":    []models.ScoredTask{},
	})
}
