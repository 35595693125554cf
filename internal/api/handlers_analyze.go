package api

import (
	"errors"
	"net/http"

	"github.com/iammorganparry/taskplanner/internal/analyzer"
	"github.com/iammorganparry/taskplanner/internal/models"
	"github.com/iammorganparry/taskplanner/internal/tasks"
)

// AnalyzeHandler proxies the task store through the analyzer client and
// annotates the response with presentation priority bands.
type AnalyzeHandler struct {
	svc    *tasks.Service
	client *analyzer.Client
}

func NewAnalyzeHandler(svc *tasks.Service, client *analyzer.Client) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc, client: client}
}

// Analyze handles POST /tasks/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Strategy models.Strategy `json:"strategy"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Strategy == "" {
		req.Strategy = models.StrategySmartBalance
	}
	if !req.Strategy.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown strategy: "+string(req.Strategy))
		return
	}

	list := h.svc.List()
	if len(list) == 0 {
		writeError(w, http.StatusBadRequest, "add at least one task before analyzing")
		return
	}

	scored, err := h.client.Analyze(r.Context(), req.Strategy, list)
	if err != nil {
		switch {
		case errors.Is(err, analyzer.ErrAnalysisInFlight):
			writeError(w, http.StatusConflict, err.Error())
		default:
			var remote *analyzer.RemoteError
			if errors.As(err, &remote) {
				writeError(w, http.StatusBadGateway, remote.Detail)
				return
			}
			writeError(w, http.StatusBadGateway, "analyzer unreachable: "+err.Error())
		}
		return
	}

	for i := range scored {
		scored[i].Priority = string(analyzer.ClassifyScore(scored[i].Score))
	}

	writeJSON(w, http.StatusOK, models.AnalyzeResponse{Tasks: scored})
}
