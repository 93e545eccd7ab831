package testutil

import (
	"sync"
	"time"
)

// RecorderApp is the adapter name the span test block resolves.
const RecorderApp = "recorder"

// Span is the observed execution window of one node.
type Span struct {
	Start time.Time
	End   time.Time
}

// Recorder collects execution spans from test blocks. It is safe for
// concurrent use; nodes of one stage report in parallel.
type Recorder struct {
	mu    sync.Mutex
	spans map[string][]Span
	order []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{spans: make(map[string][]Span)}
}

// Record stores one node's execution window.
func (r *Recorder) Record(node string, start, end time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans[node] = append(r.spans[node], Span{Start: start, End: end})
	r.order = append(r.order, node)
}

// Span returns the first recorded window for a node.
func (r *Recorder) Span(node string) (Span, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ss, ok := r.spans[node]
	if !ok || len(ss) == 0 {
		return Span{}, false
	}
	return ss[0], true
}

// Calls returns how many times a node reported a span.
func (r *Recorder) Calls(node string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spans[node])
}

// Order returns node names in completion order.
func (r *Recorder) Order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// Overlapped reports whether the two nodes' first windows intersected.
func (r *Recorder) Overlapped(a, b string) bool {
	sa, oka := r.Span(a)
	sb, okb := r.Span(b)
	if !oka || !okb {
		return false
	}
	return sa.Start.Before(sb.End) && sb.Start.Before(sa.End)
}
