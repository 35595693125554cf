// Package tasks owns the ordered task collection and the derived graph
// state. The store is exclusively owned by its service; there is exactly
// one writer and every mutation runs to completion before control returns.
package tasks

import (
	"fmt"
	"strings"

	"github.com/iammorganparry/taskplanner/internal/models"
)

const (
	importanceMin = 1
	importanceMax = 10
)

// ValidationError reports malformed user input at the add-task boundary.
// It is a field-level message for the caller, never fatal, and the store
// is left unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Store is the ordered, identifiable task collection.
type Store struct {
	tasks []models.Task
}

func NewStore() *Store {
	return &Store{}
}

// Add validates the candidate and appends it with a positional id.
func (s *Store) Add(c models.NewTask) (models.Task, error) {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return models.Task{}, &ValidationError{Field: "title", Message: "title is required"}
	}
	if c.Importance != nil && (*c.Importance < importanceMin || *c.Importance > importanceMax) {
		return models.Task{}, &ValidationError{
			Field:   "importance",
			Message: fmt.Sprintf("importance must be between %d and %d", importanceMin, importanceMax),
		}
	}

	deps := c.Dependencies
	if deps == nil {
		deps = []string{}
	}

	task := models.Task{
		ID:             fmt.Sprintf("task_%d", len(s.tasks)),
		Title:          title,
		DueDate:        c.DueDate,
		EstimatedHours: c.EstimatedHours,
		Importance:     c.Importance,
		Dependencies:   deps,
	}
	s.tasks = append(s.tasks, task)
	return task, nil
}

// BulkImport appends every candidate, coercing malformed fields to
// defaults instead of rejecting the record. Ids are de-duplicated by
// probing id, id_1, id_2, ... until free. Returns the number added.
func (s *Store) BulkImport(candidates []models.TaskCandidate) int {
	added := 0
	for _, c := range candidates {
		base := coerceString(c.ID)
		if base == "" {
			base = fmt.Sprintf("task_%d", len(s.tasks))
		}
		id := base
		for probe := 1; s.hasID(id); probe++ {
			id = fmt.Sprintf("%s_%d", base, probe)
		}

		title := coerceString(c.Title)
		if title == "" {
			title = "Untitled " + id
		}

		s.tasks = append(s.tasks, models.Task{
			ID:             id,
			Title:          title,
			DueDate:        coerceStringPtr(c.DueDate),
			EstimatedHours: coerceFloat(c.EstimatedHours),
			Importance:     coerceInt(c.Importance),
			Dependencies:   coerceStrings(c.Dependencies),
		})
		added++
	}
	return added
}

// Delete removes the task at the given position. Position-based deletion
// is acceptable because callers act on a direct reflection of store order.
func (s *Store) Delete(index int) (models.Task, bool) {
	if index < 0 || index >= len(s.tasks) {
		return models.Task{}, false
	}
	removed := s.tasks[index]
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	return removed, true
}

// List returns a copy of the ordered task collection.
func (s *Store) List() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Replace swaps in a previously persisted collection, e.g. at session start.
func (s *Store) Replace(tasks []models.Task) {
	s.tasks = make([]models.Task, len(tasks))
	copy(s.tasks, tasks)
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) hasID(id string) bool {
	for _, t := range s.tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func coerceStringPtr(v any) *string {
	if s, ok := v.(string); ok && s != "" {
		return &s
	}
	return nil
}

// coerceFloat accepts JSON numbers only; anything else becomes null.
func coerceFloat(v any) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func coerceInt(v any) *int {
	if f, ok := v.(float64); ok {
		i := int(f)
		return &i
	}
	return nil
}

func coerceStrings(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := []string{}
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
