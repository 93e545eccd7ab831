// Package registry provides the central "glue" for the block system.
//
// The Registry stores mappings between qualified block identifiers used in
// flow descriptions (e.g. "math:add") and the compiled specs and factories
// that implement them. It has a two-phase lifecycle: open for registration
// while the application assembles its block providers at startup, then
// sealed. After Seal the registry is read-only and concurrent resolution
// requires no locking.
package registry
