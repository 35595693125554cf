// Package analyzer contains both sides of the scoring boundary: the
// scoring engine served under /api/tasks and the HTTP client the dashboard
// uses to reach it. The dashboard core never calls the engine directly.
package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/iammorganparry/taskplanner/internal/models"
)

const dateLayout = "2006-01-02"

// Weights are the factor weights for the smart_balance strategy.
type Weights struct {
	Urgency    float64
	Importance float64
	Effort     float64
	Dependency float64
}

// DefaultWeights mirrors the analyzer's stock smart_balance blend.
var DefaultWeights = Weights{
	Urgency:    0.35,
	Importance: 0.35,
	Effort:     0.15,
	Dependency: 0.15,
}

// Engine scores task lists. It is stateless apart from its configuration;
// every request is scored independently.
type Engine struct {
	weights Weights
	now     func() time.Time
}

func NewEngine(weights Weights) *Engine {
	return &Engine{weights: weights, now: time.Now}
}

// InputError reports an invalid analyze request. It maps to a 400 with a
// detail message.
type InputError struct {
	Detail string
}

func (e *InputError) Error() string {
	return e.Detail
}

// Score validates the request, scores every task with the selected
// strategy, and returns the list sorted by score descending.
func (e *Engine) Score(strategy models.Strategy, input []models.Task) ([]models.ScoredTask, error) {
	if len(input) == 0 {
		return nil, &InputError{Detail: "tasks must be a non-empty list"}
	}

	tasks, warnings, err := e.normalize(input)
	if err != nil {
		return nil, err
	}

	hasCycle, cycleIDs := detectCycles(tasks)
	depFactor := dependencyFactor(tasks)
	// Due dates parse as UTC midnights, so today must be a UTC date too
	// or the day difference is off by one near the zone boundary.
	today := truncateToDay(e.now().UTC())

	scored := make([]models.ScoredTask, 0, len(tasks))
	for _, t := range tasks {
		urgency := computeUrgency(t.DueDate, today)
		effort := computeEffortFactor(t.EstimatedHours)
		dependency := depFactor[t.ID]
		impNorm := float64(*t.Importance) / 10.0

		var score float64
		switch strategy {
		case models.StrategyFastestWins:
			score = 0.6*effort + 0.2*urgency + 0.2*impNorm
		case models.StrategyHighImpact:
			score = 0.6*impNorm + 0.25*urgency + 0.15*dependency
		case models.StrategyDeadlineDriven:
			score = 0.7*urgency + 0.2*impNorm + 0.1*dependency
		default:
			score = e.weights.Urgency*urgency +
				e.weights.Importance*impNorm +
				e.weights.Effort*effort +
				e.weights.Dependency*dependency
		}

		taskWarnings := warnings[t.ID]
		if hasCycle && cycleIDs[t.ID] {
			taskWarnings = append(taskWarnings, "This task is part of a circular dependency.")
		}
		if taskWarnings == nil {
			taskWarnings = []string{}
		}

		scored = append(scored, models.ScoredTask{
			Task:         t,
			Score:        math.Round(score*1000) / 1000,
			StrategyUsed: string(strategy),
			Explanation:  explain(urgency, impNorm, effort, dependency),
			Warnings:     taskWarnings,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}

// normalize applies the analyzer's own defaulting: positional ids,
// importance defaulted to 5 with a warning, nil dependency lists emptied.
// Invalid fields reject the whole request, matching the original
// serializer behavior. Tasks are keyed by id, so a repeated explicit id
// replaces the earlier entry rather than scoring twice.
func (e *Engine) normalize(input []models.Task) ([]models.Task, map[string][]string, error) {
	tasks := make([]models.Task, 0, len(input))
	index := make(map[string]int, len(input))
	warnings := make(map[string][]string)

	for i, t := range input {
		if strings.TrimSpace(t.Title) == "" {
			return nil, nil, &InputError{Detail: fmt.Sprintf("task %d: title is required", i)}
		}
		if t.DueDate != nil {
			if _, err := time.Parse(dateLayout, *t.DueDate); err != nil {
				return nil, nil, &InputError{Detail: fmt.Sprintf("task %d: due_date must be YYYY-MM-DD", i)}
			}
		}
		if t.Importance != nil && (*t.Importance < 1 || *t.Importance > 10) {
			return nil, nil, &InputError{Detail: fmt.Sprintf("task %d: importance must be between 1 and 10", i)}
		}

		if t.ID == "" {
			t.ID = fmt.Sprintf("task_%d", i)
		}
		var taskWarnings []string
		if t.Importance == nil {
			def := 5
			t.Importance = &def
			taskWarnings = append(taskWarnings, "Importance defaulted to 5.")
		}
		if t.Dependencies == nil {
			t.Dependencies = []string{}
		}

		if j, ok := index[t.ID]; ok {
			tasks[j] = t
			warnings[t.ID] = taskWarnings
			continue
		}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
		if len(taskWarnings) > 0 {
			warnings[t.ID] = taskWarnings
		}
	}

	return tasks, warnings, nil
}

// detectCycles runs Kahn's algorithm over the id-keyed dependency graph.
// Dependency strings that match no task id still become zero-indegree
// nodes, so dangling references never report a cycle. Returns whether a
// cycle exists and the set of node ids left with positive indegree.
func detectCycles(tasks []models.Task) (bool, map[string]bool) {
	indegree := make(map[string]int)
	adj := make(map[string][]string)

	for _, t := range tasks {
		if _, ok := indegree[t.ID]; !ok {
			indegree[t.ID] = 0
		}
		for _, dep := range t.Dependencies {
			adj[dep] = append(adj[dep], t.ID)
			indegree[t.ID]++
			if _, ok := indegree[dep]; !ok {
				indegree[dep] = 0
			}
		}
	}

	queue := make([]string, 0, len(indegree))
	enqueued := make(map[string]bool, len(indegree))
	for _, t := range tasks {
		if indegree[t.ID] == 0 && !enqueued[t.ID] {
			queue = append(queue, t.ID)
			enqueued[t.ID] = true
		}
	}
	for dep := range adj {
		if indegree[dep] == 0 && !enqueued[dep] {
			queue = append(queue, dep)
			enqueued[dep] = true
		}
	}

	visited := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range adj[node] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if visited == len(indegree) {
		return false, nil
	}

	cycle := make(map[string]bool)
	for node, deg := range indegree {
		if deg > 0 {
			cycle[node] = true
		}
	}
	return true, cycle
}

// dependencyFactor counts each task's transitive dependents and normalizes
// by the maximum count, so the task that unblocks the most work scores 1.
func dependencyFactor(tasks []models.Task) map[string]float64 {
	adj := make(map[string][]string)
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			adj[dep] = append(adj[dep], t.ID)
		}
	}

	counts := make(map[string]int, len(tasks))
	maxCount := 0
	for _, t := range tasks {
		visited := make(map[string]bool)
		stack := []string{t.ID}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range adj[cur] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
		counts[t.ID] = len(visited)
		if len(visited) > maxCount {
			maxCount = len(visited)
		}
	}

	factors := make(map[string]float64, len(counts))
	for id, c := range counts {
		if maxCount > 0 {
			factors[id] = float64(c) / float64(maxCount)
		}
	}
	return factors
}

// computeUrgency maps days-to-due onto [0,1] over a 14-day window.
// Overdue is 1.0, due today 0.9, no due date a neutral 0.4.
func computeUrgency(dueDate *string, today time.Time) float64 {
	if dueDate == nil {
		return 0.4
	}
	due, err := time.Parse(dateLayout, *dueDate)
	if err != nil {
		return 0.4
	}

	daysToDue := int(due.Sub(today).Hours() / 24)
	if daysToDue < 0 {
		return 1.0
	}
	if daysToDue == 0 {
		return 0.9
	}
	u := 1 - float64(daysToDue)/14.0
	return math.Max(0.0, math.Min(1.0, u))
}

// computeEffortFactor rewards quick tasks: 2h assumed when unknown, an 8h
// day saturates the scale, and non-positive estimates count as instant.
func computeEffortFactor(estimatedHours *float64) float64 {
	hours := 2.0
	if estimatedHours != nil {
		hours = *estimatedHours
	}
	if hours <= 0 {
		return 1.0
	}
	return 1.0 - math.Min(hours/8.0, 1.0)
}

func explain(urgency, impNorm, effort, dependency float64) string {
	var reasons []string
	if urgency >= 0.9 {
		reasons = append(reasons, "urgent or overdue")
	} else if urgency >= 0.6 {
		reasons = append(reasons, "approaching deadline")
	}
	if impNorm >= 0.8 {
		reasons = append(reasons, "very important")
	} else if impNorm >= 0.6 {
		reasons = append(reasons, "important")
	}
	if effort >= 0.7 {
		reasons = append(reasons, "quick to complete")
	}
	if dependency >= 0.5 {
		reasons = append(reasons, "unblocks many other tasks")
	}

	if len(reasons) == 0 {
		return "Moderate priority based on current settings."
	}
	return "High priority because it is " + strings.Join(reasons, ", ") + "."
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
