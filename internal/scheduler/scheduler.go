package scheduler

import (
	"fmt"
	"sort"
	"strings"
)

// Source is the subset of the graph the scheduler needs: the node ids and,
// per node, the distinct ids it depends on.
type Source interface {
	NodeIDs() []string
	Dependencies(id string) []string
}

// CycleError reports that layering could not place every node, naming one
// node on the offending cycle.
type CycleError struct {
	Node string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph cycle prevents scheduling, involving node %q", e.Node)
}

// Plan is the layered execution order for one graph. Plans are pure data:
// re-planning the same graph always yields an identical Plan, which keeps
// executions reproducible even though ordering within a stage is up to the
// executor.
type Plan struct {
	stages  [][]string
	stageOf map[string]int
}

// Stages returns the ordered stages, each a list of node ids in ascending
// order.
func (p *Plan) Stages() [][]string {
	out := make([][]string, len(p.stages))
	for i, s := range p.stages {
		out[i] = append([]string(nil), s...)
	}
	return out
}

// NumStages returns how many barrier-separated stages the plan has.
func (p *Plan) NumStages() int {
	return len(p.stages)
}

// StageOf returns the stage index a node was placed in.
func (p *Plan) StageOf(id string) (int, bool) {
	i, ok := p.stageOf[id]
	return i, ok
}

// String renders the plan one stage per line, for logs and debugging.
func (p *Plan) String() string {
	var sb strings.Builder
	for i, s := range p.stages {
		fmt.Fprintf(&sb, "stage %d: %s\n", i, strings.Join(s, ", "))
	}
	return sb.String()
}

// Build computes the longest-path layering of the graph, a variant of
// Kahn's algorithm: a node's stage index is one more than the maximum stage
// of its dependencies, so every stage is as wide as the dependencies allow
// and every edge points strictly forward. Ties within a stage are broken by
// ascending node id.
func Build(src Source) (*Plan, error) {
	ids := src.NodeIDs()
	deps := make(map[string][]string, len(ids))
	indeg := make(map[string]int, len(ids))
	dependents := make(map[string][]string, len(ids))
	for _, id := range ids {
		d := src.Dependencies(id)
		deps[id] = d
		indeg[id] = len(d)
		for _, dep := range d {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	depth := make(map[string]int, len(ids))
	queue := make([]string, 0, len(ids))
	for _, id := range ids {
		if indeg[id] == 0 {
			depth[id] = 0
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	placed := make(map[string]bool, len(ids))
	maxDepth := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		placed[id] = true
		if depth[id] > maxDepth {
			maxDepth = depth[id]
		}
		for _, dep := range dependents[id] {
			if d := depth[id] + 1; d > depth[dep] {
				depth[dep] = d
			}
			indeg[dep]--
			if indeg[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(placed) < len(ids) {
		return nil, &CycleError{Node: cycleMember(ids, deps, placed)}
	}

	stages := make([][]string, maxDepth+1)
	stageOf := make(map[string]int, len(ids))
	for _, id := range ids {
		d := depth[id]
		stages[d] = append(stages[d], id)
		stageOf[id] = d
	}
	for _, s := range stages {
		sort.Strings(s)
	}
	if len(ids) == 0 {
		stages = nil
	}
	return &Plan{stages: stages, stageOf: stageOf}, nil
}

// cycleMember walks unplaced nodes along unplaced dependencies until one
// repeats; that node necessarily sits on a cycle.
func cycleMember(ids []string, deps map[string][]string, placed map[string]bool) string {
	unplaced := make(map[string]bool)
	var start string
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for _, id := range sorted {
		if !placed[id] {
			unplaced[id] = true
			if start == "" {
				start = id
			}
		}
	}

	seen := make(map[string]bool)
	cur := start
	for !seen[cur] {
		seen[cur] = true
		for _, dep := range deps[cur] {
			if unplaced[dep] {
				cur = dep
				break
			}
		}
	}
	return cur
}
