package algorithms

import (
	"github.com/dd0wney/promptflow/pkg/graph"
)

// IsDAG checks if the graph is a Directed Acyclic Graph
func IsDAG(g graph.Graph) bool {
	return !HasCycle(g)
}

// TopologicalOrder returns node ids in topological order using Kahn's
// algorithm over every edge not listed in excluded. Among ready nodes the
// earliest inserted is emitted first. Nodes trapped in a cycle that survives
// the exclusion are appended in insertion order, so the result always
// contains every node exactly once.
func TopologicalOrder(g graph.Graph, excluded map[string]bool) []string {
	inDegree := make(map[string]int, len(g.Nodes))
	for _, node := range g.Nodes {
		inDegree[node.ID] = 0
	}

	adjacency := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		if excluded[e.ID] {
			continue
		}
		if _, ok := inDegree[e.Target]; !ok {
			continue
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		inDegree[e.Target]++
	}

	emitted := make(map[string]bool, len(g.Nodes))
	sorted := make([]string, 0, len(g.Nodes))

	for len(sorted) < len(g.Nodes) {
		// Pick the first ready node in insertion order.
		next := ""
		for _, node := range g.Nodes {
			if !emitted[node.ID] && inDegree[node.ID] == 0 {
				next = node.ID
				break
			}
		}
		if next == "" {
			break
		}

		emitted[next] = true
		sorted = append(sorted, next)
		for _, target := range adjacency[next] {
			inDegree[target]--
		}
	}

	for _, node := range g.Nodes {
		if !emitted[node.ID] {
			sorted = append(sorted, node.ID)
		}
	}
	return sorted
}

// LongestPathRanks assigns every node its longest-path distance, in edges,
// from any root of the graph formed by the edges not in excluded. Roots
// have rank 0.
func LongestPathRanks(g graph.Graph, excluded map[string]bool) map[string]int {
	ranks := make(map[string]int, len(g.Nodes))
	position := make(map[string]int, len(g.Nodes))
	for _, node := range g.Nodes {
		ranks[node.ID] = 0
	}

	order := TopologicalOrder(g, excluded)
	for i, id := range order {
		position[id] = i
	}

	for _, id := range order {
		for _, e := range g.Incoming(id) {
			if excluded[e.ID] {
				continue
			}
			source := e.Source
			// Only predecessors earlier in the order have final ranks.
			if p, ok := position[source]; !ok || p >= position[id] {
				continue
			}
			if r := ranks[source] + 1; r > ranks[id] {
				ranks[id] = r
			}
		}
	}
	return ranks
}

// IsConnected reports whether all nodes are weakly connected.
func IsConnected(g graph.Graph) bool {
	if len(g.Nodes) <= 1 {
		return true
	}

	neighbors := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		neighbors[e.Source] = append(neighbors[e.Source], e.Target)
		neighbors[e.Target] = append(neighbors[e.Target], e.Source)
	}

	start := g.Nodes[0].ID
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, n := range neighbors[current] {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(visited) == len(g.Nodes)
}

// Roots returns the nodes without incoming edges, in insertion order.
func Roots(g graph.Graph) []string {
	hasIncoming := make(map[string]bool, len(g.Nodes))
	for _, e := range g.Edges {
		hasIncoming[e.Target] = true
	}
	roots := make([]string, 0)
	for _, node := range g.Nodes {
		if !hasIncoming[node.ID] {
			roots = append(roots, node.ID)
		}
	}
	return roots
}
