// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// Git operations understood by the executor.
const (
	GitCheckout     = "checkout"
	GitCreateBranch = "create_branch"
	GitPull         = "pull"
	GitPush         = "push"
)

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// PersistEffect represents a storage write.
type PersistEffect struct {
	Entity    string // e.g., "goal"
	Operation string // e.g., "transition"
	Data      any    // The change to apply
}

func (e PersistEffect) EffectType() string { return "persist" }

// GitEffect represents a version-control operation.
type GitEffect struct {
	Operation      string // One of the Git* constants
	Branch         string
	Remote         string // pull and push only
	ForceWithLease bool   // push only
}

func (e GitEffect) EffectType() string { return "git" }
