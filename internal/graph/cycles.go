package graph

import "github.com/iammorganparry/taskplanner/internal/models"

// CycleReport is the result of cycle detection, rebuilt alongside the graph.
// CycleTitles holds display titles, one per implicated node key.
type CycleReport struct {
	HasCycle    bool     `json:"has_cycle"`
	CycleTitles []string `json:"cycle_titles"`
}

// DetectCycles runs a depth-first search over the graph and reports every
// task implicated in a circular dependency.
//
// The marking is deliberately ancestry-inclusive: when a cycle is found,
// every node on the discovery path from the cycle back up to the DFS root
// is marked too, so the alert highlights the whole implicated chain rather
// than only the tight cycle. A task depending on its own title is a cycle
// of length one. Disjoint cycles reached from different roots all
// contribute to the set.
func DetectCycles(g *Graph, tasks []models.Task) CycleReport {
	keys := g.Keys()
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}

	visited := make([]bool, len(keys))
	onStack := make([]bool, len(keys))
	inCycle := make([]bool, len(keys))

	var dfs func(u int) bool
	dfs = func(u int) bool {
		visited[u] = true
		onStack[u] = true

		for _, depKey := range g.Dependents(keys[u]) {
			v := index[depKey]
			if !visited[v] {
				if dfs(v) {
					inCycle[u] = true
					return true
				}
			} else if onStack[v] {
				inCycle[u] = true
				inCycle[v] = true
				return true
			}
		}

		onStack[u] = false
		return false
	}

	for i := range keys {
		if !visited[i] {
			dfs(i)
		}
	}

	var titles []string
	for i, k := range keys {
		if !inCycle[i] {
			continue
		}
		if t, ok := findByKey(tasks, k); ok {
			titles = append(titles, t.Title)
		}
	}

	return CycleReport{HasCycle: len(titles) > 0, CycleTitles: titles}
}
