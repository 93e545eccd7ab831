// Package scheduler turns a sealed graph into a deterministic layered
// execution plan: an ordered list of stages in which every node's
// dependencies live in strictly earlier stages. Nodes within a stage are
// mutually independent and eligible to run concurrently.
package scheduler
