package models

// Task is the core domain entity held by the task store and serialized
// verbatim into snapshots and analyzer requests. The wire format uses
// snake_case because the analyzer contract was defined that way first.
type Task struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	DueDate        *string  `json:"due_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
	Importance     *int     `json:"importance,omitempty"`
	Dependencies   []string `json:"dependencies"`
}

// NewTask is the typed payload for adding a single task. Unlike bulk
// import it is validated strictly at the boundary.
type NewTask struct {
	Title          string   `json:"title"`
	DueDate        *string  `json:"due_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
	Importance     *int     `json:"importance"`
	Dependencies   []string `json:"dependencies"`
}

// TaskCandidate is a loosely typed record accepted by bulk import.
// Fields keep their raw decoded shape so malformed values can be coerced
// to defaults instead of rejecting the whole record.
type TaskCandidate struct {
	ID             any `json:"id"`
	Title          any `json:"title"`
	DueDate        any `json:"due_date"`
	EstimatedHours any `json:"estimated_hours"`
	Importance     any `json:"importance"`
	Dependencies   any `json:"dependencies"`
}

// ScoredTask is a task as returned by the analyzer: the original fields
// plus the score annotation. Priority is filled in by the dashboard after
// the response arrives, never by the analyzer itself.
type ScoredTask struct {
	Task
	Score        float64  `json:"score"`
	StrategyUsed string   `json:"strategy_used"`
	Explanation  string   `json:"explanation"`
	Warnings     []string `json:"warnings"`
	Priority     string   `json:"priority,omitempty"`
}

// AnalyzeRequest is the payload sent to the analyzer.
type AnalyzeRequest struct {
	Strategy string `json:"strategy"`
	Tasks    []Task `json:"tasks"`
}

// AnalyzeResponse wraps the analyzer's scored task list.
type AnalyzeResponse struct {
	Tasks []ScoredTask `json:"tasks"`
}
