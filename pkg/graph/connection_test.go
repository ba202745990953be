package graph

import (
	"errors"
	"strings"
	"testing"
)

func TestConnectionManager_Validate(t *testing.T) {
	g := newTestStore("a", "b", "c").Graph()
	cm := NewConnectionManager()

	edge, err := cm.Validate(g, "node-3", "node-1")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if edge.ID != "e-node-3-node-1" || edge.Origin != OriginUser {
		t.Errorf("Unexpected edge %+v", edge)
	}

	// Validation never mutates the graph.
	if len(g.Edges) != 2 {
		t.Errorf("Validate mutated the graph: %d edges", len(g.Edges))
	}
}

func TestConnectionManager_Duplicate(t *testing.T) {
	g := newTestStore("a", "b").Graph()

	edge, err := NewConnectionManager().Validate(g, "node-1", "node-2")
	if !errors.Is(err, ErrDuplicateEdge) {
		t.Fatalf("Expected ErrDuplicateEdge, got %v", err)
	}
	if IsRejected(err) {
		t.Error("Duplicates are not rejections")
	}
	if edge.ID != "e-node-1-node-2" {
		t.Errorf("Expected the existing edge id, got %s", edge.ID)
	}
}

func TestGraphError_Message(t *testing.T) {
	err := NewError("connect").Edge("a", "b").Node("b").Cause(ErrInvalidEndpoint).Err()

	msg := err.Error()
	for _, part := range []string{"connect", "a -> b", "node b", ErrInvalidEndpoint.Error()} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error %q missing %q", msg, part)
		}
	}

	if plain := NewError("connect").Cause(ErrDuplicateEdge).Err().Error(); plain != "connect: edge already exists" {
		t.Errorf("Unexpected message %q", plain)
	}
}
