package graph

import "fmt"

// DefaultNodePrefix is prepended to the sequence number of every node id.
const DefaultNodePrefix = "node-"

// IDGenerator hands out node ids in strictly increasing order.
// It is owned by a single Store and is not safe for concurrent use.
type IDGenerator struct {
	prefix string
	last   uint64
}

// NewIDGenerator creates a generator whose first id is "<prefix>1".
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = DefaultNodePrefix
	}
	return &IDGenerator{prefix: prefix}
}

// Next advances the counter and returns the new id with its sequence number.
func (g *IDGenerator) Next() (string, uint64) {
	g.last++
	return fmt.Sprintf("%s%d", g.prefix, g.last), g.last
}

// Last returns the most recently issued sequence number (0 before the first call).
func (g *IDGenerator) Last() uint64 {
	return g.last
}

// EdgeID derives the edge id for a (source, target) pair.
func EdgeID(source, target string) string {
	return "e-" + source + "-" + target
}
