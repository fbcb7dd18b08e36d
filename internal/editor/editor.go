// Package editor is the Bubble Tea model that drives an editing session:
// it renders the active buffer, feeds key events through the mode state
// machine and runs the resulting effects.
package editor

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/vedit/internal/buffer"
	"github.com/zjrosen/vedit/internal/glyph"
	"github.com/zjrosen/vedit/internal/keys"
	"github.com/zjrosen/vedit/internal/log"
	"github.com/zjrosen/vedit/internal/mode"
	"github.com/zjrosen/vedit/internal/render"
	"github.com/zjrosen/vedit/internal/storage"
)

// Viewport used until the terminal reports its size.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// SavedMsg reports a completed save.
type SavedMsg struct {
	Index int
	Path  string
	Lines []string
}

// SaveFailedMsg reports a failed save. It ends the session.
type SaveFailedMsg struct {
	Name string
	Err  error
}

// FileChangedMsg reports that a buffer's file was written by someone else.
type FileChangedMsg struct {
	Path string
}

// selfWriteWindow is how long after our own save a change event for the
// same file is attributed to that save.
const selfWriteWindow = 2 * time.Second

// Options configures a Model. Zero fields get defaults.
type Options struct {
	Store      *storage.Store
	Resolver   storage.Resolver
	Classifier glyph.Classifier
	Machine    mode.Machine
	KeyMap     *keys.KeyMap
	Styles     *render.Styles
	// Hint replaces the default status-line help text.
	Hint string
}

// Model is the editing session.
type Model struct {
	set      *buffer.Set
	state    mode.State
	machine  mode.Machine
	keyMap   keys.KeyMap
	store    *storage.Store
	resolver storage.Resolver
	render   render.Options
	styles   render.Styles
	changes  <-chan string
	savedAt  map[string]time.Time
	now      func() time.Time

	// Saves in flight. A quit requested while any are pending waits for
	// them so a failed save still ends the session with its error.
	pendingSaves int
	quitPending  bool

	width   int
	height  int
	message string
	err     error
}

// New creates a session over set, starting in the initial mode.
func New(set *buffer.Set, opts Options) Model {
	m := Model{
		set:      set,
		state:    mode.Initial(),
		machine:  opts.Machine,
		keyMap:   keys.Editor,
		store:    opts.Store,
		resolver: opts.Resolver,
		render: render.Options{
			Classifier: opts.Classifier,
			Hint:       opts.Hint,
		},
		styles:  render.DefaultStyles(),
		savedAt: make(map[string]time.Time),
		now:     time.Now,
		width:   defaultWidth,
		height:  defaultHeight,
	}
	if opts.KeyMap != nil {
		m.keyMap = *opts.KeyMap
	}
	if opts.Styles != nil {
		m.styles = *opts.Styles
	}
	if m.store == nil {
		m.store = storage.NewStore(nil)
	}
	if m.resolver == nil {
		m.resolver = storage.OriginResolver{}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks on the change channel and delivers one
// FileChangedMsg. It returns nil when change reporting is disabled.
func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		path, ok := <-changes
		if !ok {
			return nil
		}
		return FileChangedMsg{Path: path}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		log.Debug(log.CatUI, "resize", "width", msg.Width, "height", msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SavedMsg:
		m.pendingSaves--
		if b := m.set.At(msg.Index); b != nil && slices.Equal(b.Lines(), msg.Lines) {
			b.MarkSaved()
		}
		m.savedAt[absPath(msg.Path)] = m.now()
		m.message = fmt.Sprintf("%q %dL, %dC written", msg.Path, len(msg.Lines), charCount(msg.Lines))
		if m.quitPending && m.pendingSaves == 0 {
			log.Info(log.CatUI, "saves complete, quitting")
			return m, tea.Quit
		}
		return m, nil

	case FileChangedMsg:
		m.fileChanged(msg.Path)
		return m, m.waitForChange()

	case SaveFailedMsg:
		m.pendingSaves--
		m.err = fmt.Errorf("saving %s: %w", msg.Name, msg.Err)
		log.ErrorErr(log.CatStorage, "save failed, ending session", msg.Err, "name", msg.Name)
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	var cmds []tea.Cmd
	for _, k := range m.keyMap.Translate(msg) {
		var effects []mode.Effect
		m.state, effects = m.machine.Transition(m.state, k, m.set)
		cmds = append(cmds, m.runEffects(effects)...)
	}

	switch len(cmds) {
	case 0:
		return m, nil
	case 1:
		return m, cmds[0]
	default:
		return m, tea.Sequence(cmds...)
	}
}

// runEffects turns effects into commands, preserving their order. A quit
// behind a pending save is deferred until the save reports back. Unknown
// commands only change the status message.
func (m *Model) runEffects(effects []mode.Effect) []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case mode.SaveEffect:
			m.pendingSaves++
			cmds = append(cmds, m.saveCmd(e))
		case mode.QuitEffect:
			if m.pendingSaves > 0 {
				log.Info(log.CatUI, "quit requested, waiting for saves", "pending", m.pendingSaves)
				m.quitPending = true
				continue
			}
			log.Info(log.CatUI, "quit requested")
			cmds = append(cmds, tea.Quit)
		case mode.UnknownCommandEffect:
			m.message = "unknown command: " + e.Text
		}
	}
	return cmds
}

// saveCmd resolves and writes the snapshot off the update loop. The effect
// owns its lines, so nothing here touches the live buffer.
func (m *Model) saveCmd(e mode.SaveEffect) tea.Cmd {
	store, resolver := m.store, m.resolver
	return func() tea.Msg {
		path, err := resolver.ResolveSavePath(e.Name, e.Path)
		if err != nil {
			return SaveFailedMsg{Name: e.Name, Err: err}
		}
		if err := store.WriteLines(path, e.Lines); err != nil {
			return SaveFailedMsg{Name: e.Name, Err: err}
		}
		return SavedMsg{Index: e.Index, Path: path, Lines: e.Lines}
	}
}

// fileChanged warns about an external write to an open buffer's file.
func (m *Model) fileChanged(path string) {
	path = absPath(path)
	if at, ok := m.savedAt[path]; ok && m.now().Sub(at) < selfWriteWindow {
		log.Debug(log.CatStorage, "ignoring own write", "path", path)
		return
	}
	for i := range m.set.Len() {
		b := m.set.At(i)
		if b.Path() != "" && absPath(b.Path()) == path {
			log.Info(log.CatStorage, "file changed on disk", "path", path, "buffer", b.Name())
			m.message = fmt.Sprintf("%q changed on disk", b.Name())
			return
		}
	}
}

// charCount is the number of user-perceived characters written for lines,
// counting each line terminator as one.
func charCount(lines []string) int {
	n := len(lines)
	for _, l := range lines {
		n += glyph.GraphemeCount(l)
	}
	return n
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// View implements tea.Model.
func (m Model) View() string {
	opts := m.render
	opts.Message = m.message
	plan := render.Render(m.set, m.state, m.height, m.width, opts)
	return render.Paint(plan, m.height, m.width, m.styles)
}

// WithChanges returns a copy of m that reports external changes delivered
// on changes.
func (m Model) WithChanges(changes <-chan string) Model {
	m.changes = changes
	return m
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error { return m.err }

// State returns the current mode state.
func (m Model) State() mode.State { return m.state }

// Set returns the buffer set being edited.
func (m Model) Set() *buffer.Set { return m.set }

// Message returns the transient status message.
func (m Model) Message() string { return m.message }
