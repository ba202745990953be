package graph

import "errors"

// Layouter assigns a position to every node of a graph. Implementations must
// be total (defined for cyclic graphs too) and deterministic.
type Layouter interface {
	Layout(g Graph) map[string]Position
}

// LayoutFunc adapts a function to the Layouter interface.
type LayoutFunc func(g Graph) map[string]Position

// Layout calls f(g).
func (f LayoutFunc) Layout(g Graph) map[string]Position {
	return f(g)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDimensions sets the payload dimensions stamped on new nodes.
func WithDimensions(dims Dimensions) StoreOption {
	return func(s *Store) {
		s.factory = NewNodeFactory(dims)
	}
}

// WithIDGenerator replaces the default node id generator.
func WithIDGenerator(ids *IDGenerator) StoreOption {
	return func(s *Store) {
		s.ids = ids
	}
}

// Store owns the canonical graph, the id generator and the last published
// snapshot. Every successful mutation runs the layouter before the new
// snapshot becomes visible, so a caller never observes a graph without its
// matching positions.
//
// Store takes no locks; callers serialise access (see session.Session).
type Store struct {
	graph    Graph
	snapshot Snapshot
	ids      *IDGenerator
	factory  *NodeFactory
	conns    *ConnectionManager
	layout   Layouter
}

// NewStore creates an empty store laid out by layout.
func NewStore(layout Layouter, opts ...StoreOption) *Store {
	s := &Store{
		ids:     NewIDGenerator(DefaultNodePrefix),
		factory: NewNodeFactory(DefaultDimensions()),
		conns:   NewConnectionManager(),
		layout:  layout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot = Snapshot{
		Nodes:     []Node{},
		Edges:     []Edge{},
		Positions: map[string]Position{},
	}
	return s
}

// AddNode builds a node from prompt and appends it. When the graph already
// had nodes, a chain edge from the previously-last node to the new node is
// added in the same step. A blank prompt is a silent no-op rather than an
// error: the unchanged snapshot is returned with false, and surfaces are
// expected to disable submission instead.
func (s *Store) AddNode(prompt string) (Snapshot, bool) {
	node, ok := s.factory.Build(s.ids, prompt)
	if !ok {
		return s.snapshot.Clone(), false
	}

	prev, hadPrev := s.graph.Last()
	next := s.graph.WithNode(node)
	if hadPrev {
		next = next.WithEdge(Edge{
			ID:     EdgeID(prev.ID, node.ID),
			Source: prev.ID,
			Target: node.ID,
			Origin: OriginChain,
		})
	}

	return s.commit(next), true
}

// AddUserEdge validates and appends a user-drawn edge. Rejections wrap
// ErrInvalidEndpoint or ErrSelfLoop and leave the graph unchanged. A
// duplicate edge is an idempotent success: the unchanged snapshot and a nil
// error are returned.
func (s *Store) AddUserEdge(source, target string) (Snapshot, error) {
	edge, err := s.conns.Validate(s.graph, source, target)
	if errors.Is(err, ErrDuplicateEdge) {
		return s.snapshot.Clone(), nil
	}
	if err != nil {
		return s.snapshot.Clone(), err
	}
	return s.commit(s.graph.WithEdge(edge)), nil
}

// CurrentSnapshot returns a copy of the last published snapshot. It never
// runs layout.
func (s *Store) CurrentSnapshot() Snapshot {
	return s.snapshot.Clone()
}

// Graph returns the current topology.
func (s *Store) Graph() Graph {
	return s.graph
}

// commit lays out next and publishes it as the new snapshot. The store's
// graph keeps its nodes at their layout positions too, so both views agree.
func (s *Store) commit(next Graph) Snapshot {
	positions := s.layout.Layout(next)

	placed := next.Clone()
	for i := range placed.Nodes {
		placed.Nodes[i].Position = positions[placed.Nodes[i].ID]
	}

	s.graph = placed
	s.snapshot = Snapshot{
		Version:   s.snapshot.Version + 1,
		Nodes:     placed.Nodes,
		Edges:     placed.Edges,
		Positions: positions,
	}.Clone()
	return s.snapshot.Clone()
}
