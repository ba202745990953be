package graph

// ConnectionManager validates user-drawn edges. It performs no cycle
// detection: cycles are legal and the layout tolerates them.
type ConnectionManager struct{}

// NewConnectionManager creates a connection manager.
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{}
}

// Validate checks a proposed source -> target edge against g and returns the
// edge to append. The returned error wraps ErrInvalidEndpoint, ErrSelfLoop or
// ErrDuplicateEdge; for ErrDuplicateEdge the existing edge is returned.
func (cm *ConnectionManager) Validate(g Graph, source, target string) (Edge, error) {
	// Self-loops are rejected even for unknown ids.
	if source == target {
		return Edge{}, NewError("connect").Edge(source, target).Cause(ErrSelfLoop).Err()
	}
	if !g.HasNode(source) {
		return Edge{}, NewError("connect").Edge(source, target).Node(source).Cause(ErrInvalidEndpoint).Err()
	}
	if !g.HasNode(target) {
		return Edge{}, NewError("connect").Edge(source, target).Node(target).Cause(ErrInvalidEndpoint).Err()
	}

	edge := Edge{
		ID:     EdgeID(source, target),
		Source: source,
		Target: target,
		Origin: OriginUser,
	}
	if g.HasEdge(edge.ID) {
		return edge, NewError("connect").Edge(source, target).Cause(ErrDuplicateEdge).Err()
	}
	return edge, nil
}
