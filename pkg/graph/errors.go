package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidEndpoint = errors.New("edge endpoint does not exist")
	ErrSelfLoop        = errors.New("edge source and target are the same node")
	// ErrDuplicateEdge is treated as an idempotent success by Store.AddUserEdge.
	ErrDuplicateEdge = errors.New("edge already exists")
)

// GraphError provides structured error information for graph mutations.
type GraphError struct {
	Op     string // Operation that failed (e.g., "connect")
	Source string // Edge source node id, if applicable
	Target string // Edge target node id, if applicable
	NodeID string // Offending node id, if applicable
	Cause  error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s %s -> %s (node %s): %v", e.Op, e.Source, e.Target, e.NodeID, e.Cause)
	}
	if e.Source != "" || e.Target != "" {
		return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Source, e.Target, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building GraphErrors.
type ErrorBuilder struct {
	err GraphError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: GraphError{Op: op}}
}

// Edge sets the edge endpoints.
func (b *ErrorBuilder) Edge(source, target string) *ErrorBuilder {
	b.err.Source = source
	b.err.Target = target
	return b
}

// Node sets the offending node id.
func (b *ErrorBuilder) Node(id string) *ErrorBuilder {
	b.err.NodeID = id
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// IsRejected reports whether err means the mutation was refused and state is unchanged.
func IsRejected(err error) bool {
	return errors.Is(err, ErrInvalidEndpoint) || errors.Is(err, ErrSelfLoop)
}
