package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/blockflow/blockflow/internal/block"
)

// Provider is implemented by packages that contribute blocks, typically one
// per external app adapter.
type Provider interface {
	Register(r *Registry) error
}

// DuplicateBlockIDError is returned when a block id is registered twice.
type DuplicateBlockIDError struct {
	ID string
}

func (e *DuplicateBlockIDError) Error() string {
	return fmt.Sprintf("block %q already registered", e.ID)
}

// UnknownBlockError is returned when resolving an id nobody registered.
type UnknownBlockError struct {
	ID string
}

func (e *UnknownBlockError) Error() string {
	return fmt.Sprintf("unknown block %q", e.ID)
}

// ErrSealed is returned by Register after the registry has been sealed.
var ErrSealed = errors.New("registry is sealed")

type entry struct {
	spec    *block.Spec
	factory block.Factory
}

// Registry holds the registered block specs and factories for a single
// application instance.
type Registry struct {
	mu     sync.Mutex
	sealed atomic.Bool
	blocks map[string]entry
}

// New creates an empty registry in its open phase.
func New() *Registry {
	return &Registry{blocks: make(map[string]entry)}
}

// Register adds a block spec and its factory under the spec's qualified id.
func (r *Registry) Register(spec *block.Spec, factory block.Factory) error {
	if spec == nil || factory == nil {
		return errors.New("registry: nil spec or factory")
	}
	app, fn, ok := strings.Cut(spec.ID, ":")
	if !ok || app == "" || fn == "" {
		return fmt.Errorf("registry: malformed block id %q, want \"app:function\"", spec.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() {
		return ErrSealed
	}
	if _, exists := r.blocks[spec.ID]; exists {
		return &DuplicateBlockIDError{ID: spec.ID}
	}
	slog.Debug("Registering block.", "id", spec.ID, "effectful", spec.Effectful)
	r.blocks[spec.ID] = entry{spec: spec, factory: factory}
	return nil
}

// MustRegister is Register for startup paths where failure is a programmer
// error.
func (r *Registry) MustRegister(spec *block.Spec, factory block.Factory) {
	if err := r.Register(spec, factory); err != nil {
		panic(err)
	}
}

// Seal transitions the registry to its read-only phase. Sealing twice is a
// no-op.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed.Store(true)
}

// Sealed reports whether the registry has left its registration phase.
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// Resolve instantiates a fresh block for the given id. Instances are never
// reused, so concurrent executions of the same node id each get their own.
func (r *Registry) Resolve(id string) (block.Block, error) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, &UnknownBlockError{ID: id}
	}
	return e.factory(), nil
}

// Spec returns the registered spec for the given id.
func (r *Registry) Spec(id string) (*block.Spec, bool) {
	e, ok := r.lookup(id)
	return e.spec, ok
}

// IDs returns all registered block ids in ascending order.
func (r *Registry) IDs() []string {
	if !r.sealed.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	ids := make([]string, 0, len(r.blocks))
	for id := range r.blocks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// lookup reads the block table. The map is only written during the open
// phase under the mutex, so sealed readers may skip locking entirely.
func (r *Registry) lookup(id string) (entry, bool) {
	if r.sealed.Load() {
		e, ok := r.blocks[id]
		return e, ok
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.blocks[id]
	return e, ok
}
