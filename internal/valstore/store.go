package valstore

import (
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// sinkRefs marks a value with no consumers; it is retained until the caller
// collects the run's result.
const sinkRefs = -1

type key struct {
	node string
	port string
}

type slot struct {
	val  cty.Value
	refs int
}

// Store holds the values produced during a single graph execution, keyed by
// (node, output port). Each value carries its remaining-consumer count; the
// last Release drops it, so peak memory tracks the live working set instead
// of every output ever produced.
//
// A Store is created fresh per execution and is safe for concurrent use by
// the nodes of a stage.
type Store struct {
	mu    sync.Mutex
	slots map[key]*slot
	peak  int
}

// New creates an empty store.
func New() *Store {
	return &Store{slots: make(map[key]*slot)}
}

// Put records a value with its remaining-consumer count, computed once from
// the graph's edges. consumers == 0 marks a sink.
func (s *Store) Put(node, port string, v cty.Value, consumers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	refs := consumers
	if consumers == 0 {
		refs = sinkRefs
	}
	s.slots[key{node: node, port: port}] = &slot{val: v, refs: refs}
	if live := len(s.slots); live > s.peak {
		s.peak = live
	}
}

// Get reads a value without consuming it.
func (s *Store) Get(node, port string) (cty.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[key{node: node, port: port}]
	if !ok {
		return cty.NilVal, false
	}
	return sl.val, true
}

// Release notes that one consumer has finished reading the value. Reaching
// zero remaining consumers drops it immediately. Releasing an absent value
// is a no-op so failed producers need no special casing.
func (s *Store) Release(node, port string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{node: node, port: port}
	sl, ok := s.slots[k]
	if !ok || sl.refs == sinkRefs {
		return
	}
	sl.refs--
	if sl.refs <= 0 {
		delete(s.slots, k)
	}
}

// Live returns how many values are currently retained.
func (s *Store) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// Peak returns the maximum number of values ever retained at once.
func (s *Store) Peak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}

// Sinks returns the retained zero-consumer values, keyed by node id and
// port name.
func (s *Store) Sinks() map[string]map[string]cty.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]map[string]cty.Value)
	for k, sl := range s.slots {
		if sl.refs != sinkRefs {
			continue
		}
		if out[k.node] == nil {
			out[k.node] = make(map[string]cty.Value)
		}
		out[k.node][k.port] = sl.val
	}
	return out
}
