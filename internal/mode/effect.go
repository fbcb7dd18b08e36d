package mode

// Effect is an action outside the state machine that the caller must run.
type Effect interface {
	effect()
}

// SaveEffect asks for a buffer to be written. Lines is a snapshot taken when
// the command ran, so it is safe to hand to another goroutine.
type SaveEffect struct {
	Index int
	Name  string
	Path  string
	Lines []string
}

// QuitEffect asks for the session to end.
type QuitEffect struct{}

// UnknownCommandEffect reports command text that matched no command.
type UnknownCommandEffect struct {
	Text string
}

func (SaveEffect) effect()           {}
func (QuitEffect) effect()           {}
func (UnknownCommandEffect) effect() {}
