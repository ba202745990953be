package visualization

import (
	"github.com/dd0wney/promptflow/pkg/graph"
)

// Position is re-exported so renderers only need this package.
type Position = graph.Position

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	NodeWidth  float64 `yaml:"node_width"`  // Width reserved for each node box
	NodeHeight float64 `yaml:"node_height"` // Height reserved for each node box
	RankGap    float64 `yaml:"rank_gap"`    // Horizontal gap between adjacent ranks
	SiblingGap float64 `yaml:"sibling_gap"` // Vertical gap between nodes of one rank
}

// DefaultLayoutConfig returns the spacing used by the web canvas.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		NodeWidth:  512,
		NodeHeight: 512,
		RankGap:    128,
		SiblingGap: 64,
	}
}

// Layout interface for layout algorithms. Layouts are total and
// deterministic: the same graph always yields the same positions.
type Layout interface {
	graph.Layouter
	Ranks(g graph.Graph) map[string]int
}

// Visualization represents a laid out snapshot ready for export
type Visualization struct {
	Snapshot graph.Snapshot
	Ranks    map[string]int
}
