// Package bridge drives a DDNet econ session: it authenticates, tracks the
// pending vote and turns passed votes into map generations or layout changes.
package bridge

import (
	"errors"
	"fmt"

	"ddnet-bridge/internal/generator"
	"ddnet-bridge/internal/preset"
	"ddnet-bridge/internal/random"
)

// Console is the econ transport as seen by the controller.
type Console interface {
	// Read returns the next chunk of console text; ok is false when nothing arrived.
	Read() (text string, ok bool, err error)
	Send(command string) error
}

// Engine produces a map from a seed and presets, or reports why it could not.
// It may also panic; the controller contains that.
type Engine interface {
	Generate(maxIterations int, seed random.Seed, gen preset.GenerationConfig, layout preset.MapConfig) (*generator.Map, error)
}

// Exporter saves a generated map where the server can load it.
type Exporter interface {
	Export(m *generator.Map, path string) error
}

// Presets resolves generation and map presets by name.
type Presets interface {
	GenerationConfig(name string) (preset.GenerationConfig, bool)
	MapConfig(name string) (preset.MapConfig, bool)
	GenerationNames() []string
	MapNames() []string
}

// AuthState is the econ authentication phase.
type AuthState int

const (
	Unauthenticated AuthState = iota
	Authenticated
)

func (s AuthState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Vote actions, the first word of a vote name.
const (
	ActionGenerate     = "generate"
	ActionChangeLayout = "change_layout"
)

var (
	// ErrWrongPassword is returned when the server rejects the econ password.
	ErrWrongPassword = errors.New("econ rejected password")

	// ErrNoMap is returned when the engine reports success without a map.
	ErrNoMap = errors.New("engine returned no map")
)

// FaultError is a panic raised by the engine, caught at the attempt boundary.
// Faults are not retried.
type FaultError struct {
	Value any
	Stack []byte
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("generator fault: %v", e.Value)
}
