// Package mode implements the modal input state machine.
//
// The state is a tagged variant (Normal, Insert, Command) and input is
// processed by a pure transition function that mutates the buffer set in
// place and returns the external effects (save, quit) for the caller to run.
// Nothing in this package performs I/O.
package mode

// Mode identifies the interaction mode.
type Mode int

const (
	// ModeNormal is navigation and command entry.
	ModeNormal Mode = iota
	// ModeInsert is text entry.
	ModeInsert
	// ModeCommand is colon-command entry.
	ModeCommand
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeCommand:
		return "COMMAND"
	default:
		return "UNKNOWN"
	}
}

// State is one of Normal, Insert or Command.
type State interface {
	Mode() Mode
	state()
}

// Normal is the navigation state.
type Normal struct{}

// Insert is the text entry state.
type Insert struct{}

// Command is the colon-prompt state. Line is the text typed after ':'.
type Command struct {
	Line string
}

func (Normal) Mode() Mode  { return ModeNormal }
func (Insert) Mode() Mode  { return ModeInsert }
func (Command) Mode() Mode { return ModeCommand }

func (Normal) state()  {}
func (Insert) state()  {}
func (Command) state() {}

// Initial returns the state a session starts in.
func Initial() State { return Insert{} }
