package algorithms

import (
	"github.com/dd0wney/promptflow/pkg/graph"
)

// buildGraph creates a graph with the given node ids (in insertion order)
// and "source->target" pairs as edges.
func buildGraph(nodeIDs []string, edges ...[2]string) graph.Graph {
	g := graph.Graph{}
	for i, id := range nodeIDs {
		g = g.WithNode(graph.Node{ID: id, Seq: uint64(i + 1), Kind: graph.KindImageGrid})
	}
	for _, e := range edges {
		g = g.WithEdge(graph.Edge{
			ID:     graph.EdgeID(e[0], e[1]),
			Source: e[0],
			Target: e[1],
			Origin: graph.OriginUser,
		})
	}
	return g
}
