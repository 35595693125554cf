package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iammorganparry/taskplanner/internal/graph"
	"github.com/iammorganparry/taskplanner/internal/models"
	"github.com/iammorganparry/taskplanner/internal/store"
)

// ErrIndexOutOfRange is returned by Delete for a position that no longer exists.
var ErrIndexOutOfRange = errors.New("task index out of range")

// ImportError reports a malformed bulk-import payload. No partial mutation
// occurs when it is returned.
type ImportError struct {
	Message string
}

func (e *ImportError) Error() string {
	return e.Message
}

// Service owns the task store and its derived graph state. After every
// mutation it rebuilds the dependency graph and cycle report from scratch
// and writes the full task collection to the snapshot slot.
//
// The mutex exists only because net/http serves requests concurrently;
// within the lock each mutation and rebuild runs to completion, so readers
// never observe a store that disagrees with its derived graph.
type Service struct {
	mu        sync.Mutex
	tasks     *Store
	snapshots *store.SnapshotStore
	slot      string
	logger    *slog.Logger

	graph  *graph.Graph
	report graph.CycleReport
}

// NewService builds the service and loads the persisted collection from
// the snapshot slot. A missing or unreadable snapshot starts empty, the
// same way the original session started after cleared storage.
func NewService(snapshots *store.SnapshotStore, slot string, logger *slog.Logger) *Service {
	s := &Service{
		tasks:     NewStore(),
		snapshots: snapshots,
		slot:      slot,
		logger:    logger,
	}

	payload, ok, err := snapshots.Load(slot)
	if err != nil {
		logger.Error("failed to load task snapshot", "slot", slot, "error", err)
	} else if ok {
		var loaded []models.Task
		if err := json.Unmarshal(payload, &loaded); err != nil {
			logger.Error("failed to parse task snapshot", "slot", slot, "error", err)
		} else {
			s.tasks.Replace(loaded)
		}
	}

	s.rebuild()
	return s
}

// Add validates and appends a single task.
func (s *Service) Add(c models.NewTask) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.tasks.Add(c)
	if err != nil {
		return models.Task{}, err
	}
	s.afterMutation()
	return task, nil
}

// Import parses a JSON array of partial task records and bulk-imports
// them. Pasted text and uploaded files both reduce to this payload, so
// identical content always produces identical store state.
func (s *Service) Import(raw []byte) (int, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		var probe any
		if json.Unmarshal(raw, &probe) != nil {
			return 0, &ImportError{Message: fmt.Sprintf("invalid JSON: %v", err)}
		}
		return 0, &ImportError{Message: "payload must be an array of tasks"}
	}

	candidates := make([]models.TaskCandidate, len(elems))
	for i, elem := range elems {
		// A non-object element coerces to an empty candidate, which
		// imports as an untitled task rather than failing the batch.
		_ = json.Unmarshal(elem, &candidates[i])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := s.tasks.BulkImport(candidates)
	s.afterMutation()
	return added, nil
}

// Delete removes the task at the given position.
func (s *Service) Delete(index int) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.tasks.Delete(index)
	if !ok {
		return models.Task{}, ErrIndexOutOfRange
	}
	s.afterMutation()
	return removed, nil
}

// List returns the ordered task collection.
func (s *Service) List() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.List()
}

// Count returns the number of tasks in the store.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Len()
}

// Graph returns the current adjacency map and cycle report.
func (s *Service) Graph() (map[string][]string, graph.CycleReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Adjacency(), s.report
}

// CycleReport returns the current cycle report.
func (s *Service) CycleReport() graph.CycleReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Layout computes the radial layout for the current collection.
func (s *Service) Layout(width, height float64) graph.LayoutResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.Layout(s.tasks.List(), s.report.CycleTitles, width, height)
}

// afterMutation rebuilds derived state and persists the snapshot.
// Callers must hold the mutex.
func (s *Service) afterMutation() {
	s.rebuild()
	s.persist()
}

func (s *Service) rebuild() {
	list := s.tasks.List()
	s.graph = graph.Build(list)
	s.report = graph.DetectCycles(s.graph, list)
}

// persist writes the full collection to the snapshot slot. A write failure
// is logged but does not roll back the mutation; the in-memory store stays
// the source of truth for the session.
func (s *Service) persist() {
	payload, err := json.Marshal(s.tasks.List())
	if err != nil {
		s.logger.Error("failed to serialize tasks", "error", err)
		return
	}
	if err := s.snapshots.Save(s.slot, payload); err != nil {
		s.logger.Error("failed to persist task snapshot", "slot", s.slot, "error", err)
	}
}
