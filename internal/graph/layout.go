package graph

import (
	"math"

	"github.com/iammorganparry/taskplanner/internal/models"
)

const (
	arrowWingLength = 10
	arrowWingAngle  = math.Pi / 6
	nodeLabelMax    = 10
)

// Node is a positioned task on the layout circle.
type Node struct {
	Title   string  `json:"title"`
	Label   string  `json:"label"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	InCycle bool    `json:"in_cycle"`
}

// Edge is a straight segment from a prerequisite's position to a
// dependent's position, with a triangular arrowhead at the dependent end.
type Edge struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	X2        float64 `json:"x2"`
	Y2        float64 `json:"y2"`
	WingLX    float64 `json:"wing_lx"`
	WingLY    float64 `json:"wing_ly"`
	WingRX    float64 `json:"wing_rx"`
	WingRY    float64 `json:"wing_ry"`
	Highlight bool    `json:"highlight"`
}

// LayoutResult is everything a rendering surface needs to draw the graph.
type LayoutResult struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Layout places each task on a circle and computes directed edge geometry.
//
// Task i of N sits at angle 2*pi*i/N on a circle of radius min(w,h)/3
// centered in the canvas, so an unchanged task list always yields identical
// coordinates. Edge endpoints are resolved by exact display title; a
// dependency title with no position is skipped without error. Nodes and
// edges touching a cycle title are flagged for highlight styling.
func Layout(tasks []models.Task, cycleTitles []string, width, height float64) LayoutResult {
	result := LayoutResult{Nodes: []Node{}, Edges: []Edge{}}
	if len(tasks) == 0 {
		return result
	}

	inCycle := make(map[string]bool, len(cycleTitles))
	for _, t := range cycleTitles {
		inCycle[t] = true
	}

	radius := math.Min(width, height) / 3
	centerX := width / 2
	centerY := height / 2

	positions := make(map[string][2]float64, len(tasks))
	for i, task := range tasks {
		angle := float64(i) / float64(len(tasks)) * 2 * math.Pi
		x := centerX + radius*math.Cos(angle)
		y := centerY + radius*math.Sin(angle)
		positions[task.Title] = [2]float64{x, y}

		// Truncation counts runes so multi-byte titles stay valid UTF-8.
		label := task.Title
		if runes := []rune(label); len(runes) > nodeLabelMax {
			label = string(runes[:nodeLabelMax])
		}
		result.Nodes = append(result.Nodes, Node{
			Title:   task.Title,
			Label:   label,
			X:       x,
			Y:       y,
			InCycle: inCycle[task.Title],
		})
	}

	for _, task := range tasks {
		toPos := positions[task.Title]
		for _, depTitle := range task.Dependencies {
			fromPos, ok := positions[depTitle]
			if !ok {
				continue
			}

			angle := math.Atan2(toPos[1]-fromPos[1], toPos[0]-fromPos[0])
			result.Edges = append(result.Edges, Edge{
				From:      depTitle,
				To:        task.Title,
				X1:        fromPos[0],
				Y1:        fromPos[1],
				X2:        toPos[0],
				Y2:        toPos[1],
				WingLX:    toPos[0] - arrowWingLength*math.Cos(angle-arrowWingAngle),
				WingLY:    toPos[1] - arrowWingLength*math.Sin(angle-arrowWingAngle),
				WingRX:    toPos[0] - arrowWingLength*math.Cos(angle+arrowWingAngle),
				WingRY:    toPos[1] - arrowWingLength*math.Sin(angle+arrowWingAngle),
				Highlight: inCycle[depTitle] || inCycle[task.Title],
			})
		}
	}

	return result
}
