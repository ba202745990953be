package algorithms

import (
	"github.com/dd0wney/promptflow/pkg/graph"
)

// Cycle represents a detected cycle as a sequence of node IDs
type Cycle []string

// DFS colours
const (
	white = 0 // Unvisited
	gray  = 1 // Currently visiting (on the DFS stack)
	black = 2 // Finished visiting
)

// dfsResult collects what one depth-first pass over the graph found.
type dfsResult struct {
	backEdges []graph.Edge
	cycles    []Cycle
}

// depthFirst walks g with three-colour marking. Roots of the walk are taken
// in node insertion order and outgoing edges in edge insertion order, so the
// set of back edges is a pure function of the graph.
func depthFirst(g graph.Graph) dfsResult {
	color := make(map[string]int, len(g.Nodes))
	parent := make(map[string]string, len(g.Nodes))
	adjacency := outgoingIndex(g)

	var res dfsResult
	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		for _, edge := range adjacency[id] {
			next := edge.Target
			switch color[next] {
			case white:
				parent[next] = id
				visit(next)
			case gray:
				// Back edge: next is still on the stack.
				res.backEdges = append(res.backEdges, edge)
				res.cycles = append(res.cycles, extractCycle(next, id, parent))
			}
			// black: forward or cross edge, no cycle through it
		}
		color[id] = black
	}

	for _, node := range g.Nodes {
		if color[node.ID] == white {
			visit(node.ID)
		}
	}
	return res
}

// extractCycle reconstructs the cycle closed by the back edge end -> start.
func extractCycle(start, end string, parent map[string]string) Cycle {
	cycle := Cycle{start}
	if start == end {
		return cycle
	}

	path := make([]string, 0)
	for current := end; current != start; {
		path = append(path, current)
		p, ok := parent[current]
		if !ok {
			break
		}
		current = p
	}
	for i := len(path) - 1; i >= 0; i-- {
		cycle = append(cycle, path[i])
	}
	return cycle
}

// DetectCycles returns one cycle per DFS back edge, each listed from the node
// the back edge points at, following edge direction.
func DetectCycles(g graph.Graph) []Cycle {
	return depthFirst(g).cycles
}

// BackEdges returns the ids of the edges that close a cycle during the DFS,
// in the order they were encountered. Removing them leaves a DAG.
func BackEdges(g graph.Graph) []string {
	res := depthFirst(g)
	ids := make([]string, len(res.backEdges))
	for i, e := range res.backEdges {
		ids[i] = e.ID
	}
	return ids
}

// HasCycle reports whether g contains a directed cycle.
func HasCycle(g graph.Graph) bool {
	return len(depthFirst(g).backEdges) > 0
}

// outgoingIndex groups edges by source, keeping edge insertion order.
func outgoingIndex(g graph.Graph) map[string][]graph.Edge {
	idx := make(map[string][]graph.Edge, len(g.Nodes))
	for _, e := range g.Edges {
		idx[e.Source] = append(idx[e.Source], e)
	}
	return idx
}
