package graph

// KindImageGrid is the node type tag rendered as a grid of generated images.
const KindImageGrid = "imageGrid"

// EdgeOrigin records which rule created an edge.
type EdgeOrigin string

const (
	// OriginChain marks edges created by the auto-chain rule in AddNode.
	OriginChain EdgeOrigin = "chain"
	// OriginUser marks edges drawn by the user through the connection manager.
	OriginUser EdgeOrigin = "user"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Payload is the immutable content of a node.
type Payload struct {
	Prompt string `json:"prompt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Node is one generation request in the flow.
// Position is only ever assigned by a Layouter during Store.commit.
type Node struct {
	ID       string   `json:"id"`
	Seq      uint64   `json:"seq"`
	Kind     string   `json:"type"`
	Position Position `json:"position"`
	Payload  Payload  `json:"data"`
}

// Edge is a directed "feeds into" link between two nodes.
type Edge struct {
	ID     string     `json:"id"`
	Source string     `json:"source"`
	Target string     `json:"target"`
	Origin EdgeOrigin `json:"origin"`
}

// Graph is an ordered set of nodes and edges. Insertion order is significant:
// it decides the auto-chain predecessor and breaks ties in layout.
//
// A Graph value is treated as immutable; the With* methods return a new
// Graph and never touch the receiver's backing arrays.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Empty reports whether the graph has no nodes.
func (g Graph) Empty() bool {
	return len(g.Nodes) == 0
}

// Last returns the most recently inserted node.
func (g Graph) Last() (Node, bool) {
	if len(g.Nodes) == 0 {
		return Node{}, false
	}
	return g.Nodes[len(g.Nodes)-1], true
}

// HasNode reports whether a node with the given id exists.
func (g Graph) HasNode(id string) bool {
	return g.NodeIndex(id) >= 0
}

// NodeIndex returns the insertion index of the node, or -1.
func (g Graph) NodeIndex(id string) int {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// HasEdge reports whether an edge with the given id exists.
func (g Graph) HasEdge(id string) bool {
	for i := range g.Edges {
		if g.Edges[i].ID == id {
			return true
		}
	}
	return false
}

// WithNode returns a copy of g with n appended.
func (g Graph) WithNode(n Node) Graph {
	nodes := make([]Node, len(g.Nodes), len(g.Nodes)+1)
	copy(nodes, g.Nodes)
	return Graph{Nodes: append(nodes, n), Edges: g.Edges}
}

// WithEdge returns a copy of g with e appended.
func (g Graph) WithEdge(e Edge) Graph {
	edges := make([]Edge, len(g.Edges), len(g.Edges)+1)
	copy(edges, g.Edges)
	return Graph{Nodes: g.Nodes, Edges: append(edges, e)}
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	nodes := make([]Node, len(g.Nodes))
	copy(nodes, g.Nodes)
	edges := make([]Edge, len(g.Edges))
	copy(edges, g.Edges)
	return Graph{Nodes: nodes, Edges: edges}
}

// Incoming returns the edges entering id in insertion order.
func (g Graph) Incoming(id string) []Edge {
	in := make([]Edge, 0)
	for _, e := range g.Edges {
		if e.Target == id {
			in = append(in, e)
		}
	}
	return in
}

// Snapshot is the immutable (nodes, edges, positions) triple published after
// every committed mutation. Nodes already carry the positions of the same pass.
type Snapshot struct {
	Version   uint64              `json:"version"`
	Nodes     []Node              `json:"nodes"`
	Edges     []Edge              `json:"edges"`
	Positions map[string]Position `json:"positions"`
}

// Graph returns the topology of the snapshot.
func (s Snapshot) Graph() Graph {
	return Graph{Nodes: s.Nodes, Edges: s.Edges}
}

// Clone returns a snapshot that shares no slices or maps with s.
func (s Snapshot) Clone() Snapshot {
	g := s.Graph().Clone()
	positions := make(map[string]Position, len(s.Positions))
	for id, p := range s.Positions {
		positions[id] = p
	}
	return Snapshot{Version: s.Version, Nodes: g.Nodes, Edges: g.Edges, Positions: positions}
}

// NodeCount returns the number of nodes in the snapshot.
func (s Snapshot) NodeCount() int { return len(s.Nodes) }

// EdgeCount returns the number of edges in the snapshot.
func (s Snapshot) EdgeCount() int { return len(s.Edges) }

// Node looks up a node by id.
func (s Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
