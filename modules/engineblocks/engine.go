package engineblocks

import (
	"context"
	"fmt"
	"sync"
)

// App is the adapter name engine blocks request from the execution context.
const App = "engine"

// Engine is the 3D engine capability. Implementations must be safe for
// concurrent use; nodes of one stage may issue commands in parallel.
type Engine interface {
	// Spawn creates an entity from a model and returns its identifier.
	Spawn(ctx context.Context, model string) (string, error)
	// Translate moves an entity by the given offsets.
	Translate(ctx context.Context, entityID string, x, y, z float64) error
	// Rotate turns an entity around an axis by the given degrees.
	Rotate(ctx context.Context, entityID string, axis string, degrees float64) error
}

// Command is one recorded engine call.
type Command struct {
	Op       string
	EntityID string
	Model    string
	X, Y, Z  float64
	Axis     string
	Degrees  float64
}

// RecordingEngine is an in-process Engine that records every command and
// hands out sequential entity ids. It backs the adapter when no real engine
// is attached, and tests inspect its log.
type RecordingEngine struct {
	mu       sync.Mutex
	next     int
	commands []Command
}

// NewRecordingEngine creates an empty recording engine.
func NewRecordingEngine() *RecordingEngine {
	return &RecordingEngine{}
}

func (e *RecordingEngine) Spawn(_ context.Context, model string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := fmt.Sprintf("entity%d", e.next)
	e.next++
	e.commands = append(e.commands, Command{Op: "spawn", EntityID: id, Model: model})
	return id, nil
}

func (e *RecordingEngine) Translate(_ context.Context, entityID string, x, y, z float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = append(e.commands, Command{Op: "translate", EntityID: entityID, X: x, Y: y, Z: z})
	return nil
}

func (e *RecordingEngine) Rotate(_ context.Context, entityID string, axis string, degrees float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = append(e.commands, Command{Op: "rotate", EntityID: entityID, Axis: axis, Degrees: degrees})
	return nil
}

// Commands returns a copy of the recorded command log.
func (e *RecordingEngine) Commands() []Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Command(nil), e.commands...)
}
