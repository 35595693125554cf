package api

import (
	"net/http"

	"github.com/iammorganparry/taskplanner/internal/models"
	"github.com/iammorganparry/taskplanner/internal/store"
	"github.com/iammorganparry/taskplanner/internal/tasks"
)

type HealthHandler struct {
	db  *store.DB
	svc *tasks.Service
}

func NewHealthHandler(db *store.DB, svc *tasks.Service) *HealthHandler {
	return &HealthHandler{db: db, svc: svc}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:    "ok",
		TaskCount: h.svc.Count(),
	}

	if _, err := h.db.UserCount(); err != nil {
		resp.DB = models.ServiceCheck{Status: "error", Message: err.Error()}
		resp.Status = "degraded"
	} else {
		resp.DB = models.ServiceCheck{Status: "ok"}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
