package graph

// indexLayout places nodes on a line in insertion order. It lets store tests
// observe that layout ran without depending on a real layout engine.
var indexLayout = LayoutFunc(func(g Graph) map[string]Position {
	positions := make(map[string]Position, len(g.Nodes))
	for i, n := range g.Nodes {
		positions[n.ID] = Position{X: float64(i) * 10}
	}
	return positions
})

func newTestStore(prompts ...string) *Store {
	s := NewStore(indexLayout)
	for _, p := range prompts {
		s.AddNode(p)
	}
	return s
}
