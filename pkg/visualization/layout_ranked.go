package visualization

import (
	"github.com/dd0wney/promptflow/pkg/algorithms"
	"github.com/dd0wney/promptflow/pkg/graph"
)

// RankedLayout places nodes in columns by longest-path rank, flowing from
// the first added node to the last. Within a column nodes are stacked in
// insertion order.
type RankedLayout struct {
	config LayoutConfig
}

// NewRankedLayout creates a new ranked layout. A zero node width or height
// takes its DefaultLayoutConfig value; zero gaps are kept, so boxes of
// adjacent ranks or siblings touch.
func NewRankedLayout(config LayoutConfig) *RankedLayout {
	def := DefaultLayoutConfig()
	if config.NodeWidth == 0 {
		config.NodeWidth = def.NodeWidth
	}
	if config.NodeHeight == 0 {
		config.NodeHeight = def.NodeHeight
	}
	return &RankedLayout{config: config}
}

// Config returns the effective configuration.
func (rl *RankedLayout) Config() LayoutConfig {
	return rl.config
}

// Ranks computes each node's longest-path distance from a root. Back edges
// found by a depth-first pass are left out of the ranking only, which makes
// the result defined for cyclic graphs.
func (rl *RankedLayout) Ranks(g graph.Graph) map[string]int {
	excluded := make(map[string]bool)
	for _, id := range algorithms.BackEdges(g) {
		excluded[id] = true
	}
	return algorithms.LongestPathRanks(g, excluded)
}

// Layout computes every node position from scratch.
func (rl *RankedLayout) Layout(g graph.Graph) map[string]Position {
	positions := make(map[string]Position, len(g.Nodes))
	if len(g.Nodes) == 0 {
		return positions
	}

	ranks := rl.Ranks(g)
	stepX := rl.config.NodeWidth + rl.config.RankGap
	stepY := rl.config.NodeHeight + rl.config.SiblingGap

	for rank, column := range Columns(g, ranks) {
		for idx, id := range column {
			positions[id] = Position{
				X: float64(rank) * stepX,
				Y: float64(idx) * stepY,
			}
		}
	}
	return positions
}

// Columns groups node ids by rank; each column keeps insertion order.
// Ranks without nodes produce empty columns.
func Columns(g graph.Graph, ranks map[string]int) [][]string {
	maxRank := -1
	for _, node := range g.Nodes {
		if r := ranks[node.ID]; r > maxRank {
			maxRank = r
		}
	}

	columns := make([][]string, maxRank+1)
	for _, node := range g.Nodes {
		r := ranks[node.ID]
		columns[r] = append(columns[r], node.ID)
	}
	return columns
}
