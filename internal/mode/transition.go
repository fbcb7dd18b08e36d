package mode

import (
	"github.com/zjrosen/vedit/internal/buffer"
	"github.com/zjrosen/vedit/internal/log"
)

// Machine interprets key events against a command registry.
type Machine struct {
	Registry *CommandRegistry
}

// NewMachine returns a machine using the built-in commands.
func NewMachine() Machine {
	return Machine{Registry: DefaultRegistry}
}

// Transition runs one key event through the default machine.
func Transition(s State, k Key, set *buffer.Set) (State, []Effect) {
	return NewMachine().Transition(s, k, set)
}

// Transition applies k to state s. Buffer mutations happen in place on the
// set's active buffer; external actions are returned as effects. Keys that
// have no meaning in the current state leave everything unchanged. A nil
// state is treated as the initial state.
func (m Machine) Transition(s State, k Key, set *buffer.Set) (State, []Effect) {
	if s == nil {
		s = Initial()
	}
	var (
		next    State
		effects []Effect
	)
	switch st := s.(type) {
	case Insert:
		next = m.insert(k, set)
	case Normal:
		next = m.normal(k, set)
	case Command:
		next, effects = m.command(st, k, set)
	default:
		next = Initial()
	}

	if next.Mode() != s.Mode() {
		log.Debug(log.CatMode, "mode change", "from", s.Mode(), "to", next.Mode(), "key", k)
	}
	return next, effects
}

func (m Machine) insert(k Key, set *buffer.Set) State {
	buf := set.Active()
	switch k.Kind {
	case KeyEscape:
		return Normal{}
	case KeyEnter:
		buf.SplitLine()
	case KeyBackspace:
		buf.DeleteBackward()
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		move(buf, k.Kind)
	case KeyRune:
		if k.Printable() {
			buf.InsertChar(k.Rune)
		}
	}
	return Insert{}
}

func (m Machine) normal(k Key, set *buffer.Set) State {
	switch k.Kind {
	case KeyRune:
		switch k.Rune {
		case 'i':
			return Insert{}
		case ':':
			return Command{}
		}
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		move(set.Active(), k.Kind)
	case KeyTab:
		set.SwitchNext()
	}
	return Normal{}
}

func (m Machine) command(st Command, k Key, set *buffer.Set) (State, []Effect) {
	switch k.Kind {
	case KeyEnter:
		return Normal{}, m.execute(st.Line, set)
	case KeyEscape:
		return Normal{}, nil
	case KeyBackspace:
		runes := []rune(st.Line)
		if len(runes) == 0 {
			return Normal{}, nil
		}
		return Command{Line: string(runes[:len(runes)-1])}, nil
	case KeyRune:
		if k.Printable() {
			return Command{Line: st.Line + string(k.Rune)}, nil
		}
	}
	return st, nil
}

// execute runs the command text. Unknown text yields only an
// UnknownCommandEffect.
func (m Machine) execute(text string, set *buffer.Set) []Effect {
	reg := m.Registry
	if reg == nil {
		reg = DefaultRegistry
	}
	cmd, ok := reg.Get(text)
	if !ok {
		log.Debug(log.CatMode, "unknown command", "text", text)
		return []Effect{UnknownCommandEffect{Text: text}}
	}
	log.Debug(log.CatMode, "execute command", "id", cmd.ID())
	return cmd.Execute(set)
}

func move(buf *buffer.Buffer, kind KeyKind) {
	switch kind {
	case KeyLeft:
		buf.MoveLeft()
	case KeyRight:
		buf.MoveRight()
	case KeyUp:
		buf.MoveUp()
	case KeyDown:
		buf.MoveDown()
	}
}
