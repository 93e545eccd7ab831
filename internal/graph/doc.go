// Package graph models the dependency DAG the engine executes: nodes that
// instantiate registered blocks, literal bindings on input ports, and edges
// connecting output ports to input ports.
//
// Graphs are assembled through a Builder and become immutable once sealed.
// Sealing runs the full validation pass: port existence, single binding per
// input, type compatibility, required inputs bound, and acyclicity. Both
// surface syntaxes (the line script and the structured description) lower
// into this one canonical representation; nothing implicit survives sealing.
package graph
