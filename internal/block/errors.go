package block

import "fmt"

// ParamError reports an invalid or unknown parameter binding on a node.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

// ExecError wraps a failure raised by a block at execution time. It is
// node-local and never fatal to the process.
type ExecError struct {
	BlockID string
	Err     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("block %q failed: %v", e.BlockID, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }
