package visualization

import (
	"encoding/json"

	"github.com/dd0wney/promptflow/pkg/graph"
)

// NewVisualization pairs a snapshot with the ranks layout assigned it.
func NewVisualization(layout Layout, snap graph.Snapshot) *Visualization {
	return &Visualization{
		Snapshot: snap,
		Ranks:    layout.Ranks(snap.Graph()),
	}
}

type nodeViz struct {
	ID     string  `json:"id"`
	Prompt string  `json:"prompt"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Rank   int     `json:"rank"`
}

type edgeViz struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Origin string `json:"origin"`
}

type vizData struct {
	Version uint64    `json:"version"`
	Nodes   []nodeViz `json:"nodes"`
	Edges   []edgeViz `json:"edges"`
}

func (v *Visualization) data() vizData {
	data := vizData{
		Version: v.Snapshot.Version,
		Nodes:   make([]nodeViz, 0, len(v.Snapshot.Nodes)),
		Edges:   make([]edgeViz, 0, len(v.Snapshot.Edges)),
	}

	for _, node := range v.Snapshot.Nodes {
		pos := v.Snapshot.Positions[node.ID]
		data.Nodes = append(data.Nodes, nodeViz{
			ID:     node.ID,
			Prompt: node.Payload.Prompt,
			Width:  node.Payload.Width,
			Height: node.Payload.Height,
			X:      pos.X,
			Y:      pos.Y,
			Rank:   v.Ranks[node.ID],
		})
	}

	for _, edge := range v.Snapshot.Edges {
		data.Edges = append(data.Edges, edgeViz{
			ID:     edge.ID,
			Source: edge.Source,
			Target: edge.Target,
			Origin: string(edge.Origin),
		})
	}
	return data
}

// ExportJSON exports the visualization to JSON
func (v *Visualization) ExportJSON() ([]byte, error) {
	return json.Marshal(v.data())
}

// ExportIndentedJSON exports the visualization as two-space indented JSON.
func (v *Visualization) ExportIndentedJSON() ([]byte, error) {
	return json.MarshalIndent(v.data(), "", "  ")
}
