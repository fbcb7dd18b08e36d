package mode

import (
	"sort"

	"github.com/zjrosen/vedit/internal/buffer"
)

// ExCommand is a colon command executed on Enter in Command mode.
type ExCommand interface {
	// Names returns the exact command texts that trigger this command.
	Names() []string

	// ID returns a hierarchical identifier used in logs, e.g. "file.write".
	ID() string

	// Execute runs the command against the buffer set and returns any
	// effects for the caller.
	Execute(set *buffer.Set) []Effect
}

// ============================================================================
// CommandRegistry
// ============================================================================

// CommandRegistry maps exact command text to an ExCommand.
type CommandRegistry struct {
	commands map[string]ExCommand
}

// NewCommandRegistry creates an empty command registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{commands: make(map[string]ExCommand)}
}

// Register adds cmd under each of its names. Later registrations win.
func (r *CommandRegistry) Register(cmd ExCommand) {
	for _, name := range cmd.Names() {
		r.commands[name] = cmd
	}
}

// Get returns the command registered under the exact text.
func (r *CommandRegistry) Get(text string) (ExCommand, bool) {
	cmd, ok := r.commands[text]
	return cmd, ok
}

// Names returns all registered command texts, sorted.
func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in commands.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *CommandRegistry {
	r := NewCommandRegistry()
	r.Register(WriteCommand{})
	r.Register(QuitCommand{})
	r.Register(NextBufferCommand{})
	r.Register(WriteQuitCommand{})
	return r
}

// ============================================================================
// Built-in commands
// ============================================================================

// WriteCommand saves the active buffer (:w).
type WriteCommand struct{}

func (WriteCommand) Names() []string { return []string{"w"} }
func (WriteCommand) ID() string      { return "file.write" }

// Execute snapshots the active buffer into a SaveEffect.
func (WriteCommand) Execute(set *buffer.Set) []Effect {
	return []Effect{saveActive(set)}
}

// QuitCommand ends the session (:q).
type QuitCommand struct{}

func (QuitCommand) Names() []string { return []string{"q"} }
func (QuitCommand) ID() string      { return "session.quit" }

// Execute requests termination.
func (QuitCommand) Execute(*buffer.Set) []Effect {
	return []Effect{QuitEffect{}}
}

// NextBufferCommand switches to the next buffer (:b).
type NextBufferCommand struct{}

func (NextBufferCommand) Names() []string { return []string{"b"} }
func (NextBufferCommand) ID() string      { return "buffer.next" }

// Execute switches in place; no external effect.
func (NextBufferCommand) Execute(set *buffer.Set) []Effect {
	set.SwitchNext()
	return nil
}

// WriteQuitCommand saves the active buffer then ends the session (:wq).
type WriteQuitCommand struct{}

func (WriteQuitCommand) Names() []string { return []string{"wq"} }
func (WriteQuitCommand) ID() string      { return "file.write_quit" }

// Execute returns the save before the quit so callers run them in order.
func (WriteQuitCommand) Execute(set *buffer.Set) []Effect {
	return []Effect{saveActive(set), QuitEffect{}}
}

func saveActive(set *buffer.Set) SaveEffect {
	b := set.Active()
	return SaveEffect{
		Index: set.ActiveIndex(),
		Name:  b.Name(),
		Path:  b.Path(),
		Lines: b.Lines(),
	}
}
