// Package valstore provides the ephemeral, thread-safe value store backing
// a single graph execution.
//
// Unlike a plain output map, every value is reference-counted by its
// remaining-consumer count. When the last consuming node finishes reading
// an input, the value is dropped on the spot, bounding peak memory to the
// graph's live working set rather than the sum of all outputs. Values with
// no consumers at all (graph sinks) are kept until the execution result is
// collected.
package valstore
