package script

import "fmt"

// ParseError reports a syntax error with its 1-based line number.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// UnknownReferenceError reports an identifier argument that names no
// earlier statement's result.
type UnknownReferenceError struct {
	Line int
	Name string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("line %d: unknown reference %q", e.Line, e.Name)
}

// ArityError reports a statement with more positional arguments than its
// block declares input ports.
type ArityError struct {
	Line  int
	Block string
	Want  int
	Got   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("line %d: block %q takes at most %d arguments, got %d", e.Line, e.Block, e.Want, e.Got)
}
