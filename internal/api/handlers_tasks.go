package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iammorganparry/taskplanner/internal/models"
	"github.com/iammorganparry/taskplanner/internal/tasks"
)

type TaskHandler struct {
	svc *tasks.Service
}

func NewTaskHandler(svc *tasks.Service) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// List handles GET /tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tasks": h.svc.List()})
}

// Add handles POST /tasks
func (h *TaskHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.NewTask
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	task, err := h.svc.Add(req)
	if err != nil {
		var verr *tasks.ValidationError
		if errors.As(err, &verr) {
			writeFieldError(w, http.StatusBadRequest, verr.Field, verr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// Import handles POST /tasks/import. Pasted text and uploaded files both
// arrive here as the raw JSON array, so identical content yields identical
// store state.
func (h *TaskHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	added, err := h.svc.Import(body)
	if err != nil {
		var ierr *tasks.ImportError
		if errors.As(err, &ierr) {
			writeError(w, http.StatusBadRequest, ierr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

// Delete handles DELETE /tasks/{index}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}

	removed, err := h.svc.Delete(index)
	if err != nil {
		if errors.Is(err, tasks.ErrIndexOutOfRange) {
			writeError(w, http.StatusNotFound, "no task at that position")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, removed)
}
