package graph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/value"
)

// DuplicateNodeError is returned when a node id is added twice.
type DuplicateNodeError struct {
	Node string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("node %q already exists", e.Node)
}

// UnknownNodeError is returned when an edge or binding references a node id
// that was never added.
type UnknownNodeError struct {
	Node string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %q", e.Node)
}

// UnknownPortError is returned when an edge or binding references a port the
// node's block does not declare.
type UnknownPortError struct {
	Node      string
	Port      string
	Direction string // "input" or "output"
}

func (e *UnknownPortError) Error() string {
	return fmt.Sprintf("node %q has no %s port %q", e.Node, e.Direction, e.Port)
}

// DuplicateBindingError is returned when an input port would end up with two
// bindings, whether edges, literals, or one of each.
type DuplicateBindingError struct {
	Node string
	Port string
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("input %q of node %q is already bound", e.Port, e.Node)
}

// MissingInputError reports a required input port with neither an incoming
// edge nor a literal binding.
type MissingInputError struct {
	Node string
	Port string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("required input %q of node %q is not bound", e.Port, e.Node)
}

// TypeMismatchError reports an incompatible binding discovered during
// validation. Execution never raises it; sealing fails first.
type TypeMismatchError struct {
	Node     string
	Port     string
	Expected cty.Type
	Actual   cty.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("input %q of node %q: type mismatch: expected %s, got %s",
		e.Port, e.Node, value.TypeName(e.Expected), value.TypeName(e.Actual))
}

// CycleError reports that the graph is not a DAG, naming one node on the
// detected cycle.
type CycleError struct {
	Node string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected involving node %q", e.Node)
}
