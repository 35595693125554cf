// Package graph derives the dependency graph from the task list: adjacency
// construction, cycle detection, and the radial layout used for rendering.
// The graph is rebuilt from scratch after every store mutation, never
// patched incrementally.
package graph

import (
	"strings"

	"github.com/iammorganparry/taskplanner/internal/models"
)

// Normalize returns the node key for a task title: lowercased and trimmed.
// Titles are the only key used to resolve dependencies.
func Normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Graph maps each normalized title to the normalized titles of the tasks
// that depend on it. Edges point from a prerequisite to its dependents.
// Key order is insertion order, which makes traversal deterministic.
type Graph struct {
	adjacency map[string][]string
	keys      []string
}

// Keys returns node keys in insertion order.
func (g *Graph) Keys() []string {
	return g.keys
}

// Dependents returns the dependent keys of the given prerequisite key.
func (g *Graph) Dependents(key string) []string {
	return g.adjacency[key]
}

// Adjacency returns the full adjacency map. Callers must not mutate it.
func (g *Graph) Adjacency() map[string][]string {
	return g.adjacency
}

func (g *Graph) ensure(key string) {
	if _, ok := g.adjacency[key]; !ok {
		g.adjacency[key] = []string{}
		g.keys = append(g.keys, key)
	}
}

// Build constructs the dependency graph for the given task list.
//
// Every task contributes a node even when nothing depends on it. Each
// dependency string is normalized and matched against task titles with a
// linear scan; the first task whose normalized title matches wins, so
// duplicate titles resolve ambiguously to the earliest task. That is the
// documented behavior, not a defect to fix. Dependency strings that match
// no task are dangling references and are dropped silently.
func Build(tasks []models.Task) *Graph {
	g := &Graph{adjacency: make(map[string][]string, len(tasks))}

	for _, task := range tasks {
		taskKey := Normalize(task.Title)
		g.ensure(taskKey)

		for _, dep := range task.Dependencies {
			depKey := Normalize(dep)
			match, ok := findByKey(tasks, depKey)
			if !ok {
				continue
			}
			matchKey := Normalize(match.Title)
			g.ensure(matchKey)
			g.adjacency[matchKey] = append(g.adjacency[matchKey], taskKey)
		}
	}

	return g
}

// findByKey returns the first task whose normalized title equals key.
func findByKey(tasks []models.Task, key string) (models.Task, bool) {
	for _, t := range tasks {
		if Normalize(t.Title) == key {
			return t, true
		}
	}
	return models.Task{}, false
}
