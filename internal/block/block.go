// Package block defines the contract between the engine and the units of
// computation contributed by external app adapters.
package block

import (
	"context"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Port is a named, typed connection point on a block. Required only applies
// to input ports.
type Port struct {
	Name     string
	Type     cty.Type
	Required bool
}

// Spec describes a block: its qualified identifier, typed ports, parameter
// defaults and whether executing it reaches outside the process. Specs are
// created once at registration time and are read-only afterwards.
type Spec struct {
	// ID is the qualified identifier in "app:function" form.
	ID        string
	Inputs    []Port
	Outputs   []Port
	Params    map[string]cty.Value // parameter name -> default value
	Effectful bool
}

// App returns the app portion of the qualified identifier.
func (s *Spec) App() string {
	app, _, _ := strings.Cut(s.ID, ":")
	return app
}

// Input looks up an input port by name.
func (s *Spec) Input(name string) (Port, bool) {
	for _, p := range s.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// Output looks up an output port by name.
func (s *Spec) Output(name string) (Port, bool) {
	for _, p := range s.Outputs {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// Inputs maps input port names to the values bound to them for one
// execution.
type Inputs map[string]cty.Value

// Params maps parameter names to their effective values (defaults overlaid
// with the node's bindings).
type Params map[string]cty.Value

// Outputs maps output port names to produced values.
type Outputs map[string]cty.Value

// Block is a single executable unit. Execute must be a pure function of its
// inputs and parameters; only blocks whose Spec declares Effectful may touch
// the outside world, and only through the adapters reachable from the
// Context. Returned outputs must be deterministic either way.
//
// Instances are never shared between concurrent node executions, so a block
// needs no internal synchronization unless it keeps process-wide state of
// its own.
type Block interface {
	Describe() *Spec
	Execute(ctx context.Context, ec *Context, in Inputs, params Params) (Outputs, error)
}

// Factory creates a fresh block instance. The registry calls it once per
// resolution.
type Factory func() Block

// Func is the signature for stateless blocks, the common case.
type Func func(ctx context.Context, ec *Context, in Inputs, params Params) (Outputs, error)

type funcBlock struct {
	spec *Spec
	fn   Func
}

func (b *funcBlock) Describe() *Spec { return b.spec }

func (b *funcBlock) Execute(ctx context.Context, ec *Context, in Inputs, params Params) (Outputs, error) {
	return b.fn(ctx, ec, in, params)
}

// NewFactory returns a Factory producing stateless blocks backed by fn.
func NewFactory(spec *Spec, fn Func) Factory {
	return func() Block { return &funcBlock{spec: spec, fn: fn} }
}
