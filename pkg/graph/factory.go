package graph

import "strings"

// Dimensions are the target image dimensions stamped on new nodes.
type Dimensions struct {
	Width  int
	Height int
}

// DefaultDimensions matches the generation backend's default square output.
func DefaultDimensions() Dimensions {
	return Dimensions{Width: 512, Height: 512}
}

// NodeFactory validates prompt text and builds node records.
type NodeFactory struct {
	dims Dimensions
}

// NewNodeFactory creates a factory stamping dims on every node.
// Zero fields fall back to DefaultDimensions.
func NewNodeFactory(dims Dimensions) *NodeFactory {
	def := DefaultDimensions()
	if dims.Width <= 0 {
		dims.Width = def.Width
	}
	if dims.Height <= 0 {
		dims.Height = def.Height
	}
	return &NodeFactory{dims: dims}
}

// Build trims prompt and returns a new node at (0,0) with a fresh id from ids.
// A blank prompt yields false and consumes no id.
func (f *NodeFactory) Build(ids *IDGenerator, prompt string) (Node, bool) {
	text := strings.TrimSpace(prompt)
	if text == "" {
		return Node{}, false
	}

	id, seq := ids.Next()
	return Node{
		ID:   id,
		Seq:  seq,
		Kind: KindImageGrid,
		Payload: Payload{
			Prompt: text,
			Width:  f.dims.Width,
			Height: f.dims.Height,
		},
	}, true
}

// Dimensions returns the dimensions stamped on new nodes.
func (f *NodeFactory) Dimensions() Dimensions {
	return f.dims
}
