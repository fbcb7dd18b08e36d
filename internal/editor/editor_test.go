package editor

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vedit/internal/buffer"
	"github.com/zjrosen/vedit/internal/mode"
	"github.com/zjrosen/vedit/internal/storage"
	"github.com/zjrosen/vedit/internal/testutil"
)

// newTestModel creates a model over set that saves into an in-memory fs
// rooted at /work.
func newTestModel(set *buffer.Set) (Model, afero.Fs) {
	fsys := afero.NewMemMapFs()
	m := New(set, Options{
		Store:    storage.NewStore(fsys),
		Resolver: storage.DirResolver{Dir: "/work"},
	})
	return m, fsys
}

// slowFs delays every open so saves are still in flight when later keys
// arrive.
type slowFs struct {
	afero.Fs
	delay time.Duration
}

func (f slowFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	time.Sleep(f.delay)
	return f.Fs.OpenFile(name, flag, perm)
}

func runeMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeKeys sends msgs through Update and returns the final model and the
// command from the last message.
func typeKeys(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestNew_Defaults(t *testing.T) {
	set := testutil.NewBuilder(t).WithStandardBuffers().Build()

	m := New(set, Options{})

	require.Equal(t, mode.Insert{}, m.State())
	require.Same(t, set, m.Set())
	require.NoError(t, m.Err())
	require.Nil(t, m.Init())
	require.Equal(t, defaultWidth, m.width)
	require.Equal(t, defaultHeight, m.height)
}

func TestUpdate_WindowSize(t *testing.T) {
	m, _ := newTestModel(testutil.NewBuilder(t).WithStandardBuffers().Build())

	m, cmd := typeKeys(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})

	require.Nil(t, cmd)
	require.Equal(t, 120, m.width)
	require.Equal(t, 50, m.height)
}

func TestUpdate_TypingEditsActiveBuffer(t *testing.T) {
	set := testutil.NewBuilder(t).WithStandardBuffers().Build()
	m, _ := newTestModel(set)

	m, cmd := typeKeys(t, m, runeMsg("hi"), tea.KeyMsg{Type: tea.KeyEnter}, runeMsg("there"))

	require.Nil(t, cmd)
	require.Equal(t, []string{"hi", "there"}, set.Active().Lines())
	row, col := set.Active().Cursor()
	require.Equal(t, 1, row)
	require.Equal(t, 5, col)
	require.Equal(t, mode.Insert{}, m.State())
}

func TestUpdate_ModeSwitching(t *testing.T) {
	set := testutil.NewBuilder(t).WithStandardBuffers().Build()
	m, _ := newTestModel(set)

	m, _ = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, mode.Normal{}, m.State())

	m, _ = typeKeys(t, m, runeMsg(":"), runeMsg("b"))
	require.Equal(t, mode.Command{Line: "b"}, m.State())

	m, cmd := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Equal(t, mode.Normal{}, m.State())
	require.Equal(t, 1, set.ActiveIndex())
}

func TestUpdate_Quit(t *testing.T) {
	m, _ := newTestModel(testutil.NewBuilder(t).WithStandardBuffers().Build())

	_, cmd := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runeMsg(":q"), tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_WriteSavesSnapshot(t *testing.T) {
	set := testutil.NewBuilder(t).
		WithBuffer("a.txt", testutil.Lines("one", "two"), testutil.Modified()).
		Build()
	m, fsys := newTestModel(set)

	m, cmd := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runeMsg(":w"), tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	require.Equal(t, SavedMsg{Index: 0, Path: "/work/a.txt", Lines: []string{"one", "two"}}, msg)

	data, err := afero.ReadFile(fsys, "/work/a.txt")
	require.NoError(t, err)
	require.Equal(t, "one\ntwo\n", string(data))

	m, _ = typeKeys(t, m, msg)
	require.False(t, set.Active().Modified())
	require.Equal(t, `"/work/a.txt" 2L, 8C written`, m.Message())
}

func TestUpdate_SavedMessageCountsGraphemes(t *testing.T) {
	// "e" + combining acute is one character; "中文" is two.
	set := testutil.NewBuilder(t).WithBuffer("a.txt", testutil.Lines("e\u0301", "中文")).Build()
	m, _ := newTestModel(set)

	m, cmd := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runeMsg(":w"), tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = typeKeys(t, m, cmd())

	require.Equal(t, `"/work/a.txt" 2L, 5C written`, m.Message())
}

func TestUpdate_QuitWaitsForPendingSave(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("a.txt", testutil.Lines("one")).Build()
	m, fsys := newTestModel(set)

	m, save := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runeMsg(":w"), tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, save)

	m, cmd := typeKeys(t, m, runeMsg(":q"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd, "quit must wait for the save")

	m, cmd = typeKeys(t, m, save())
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
	require.NoError(t, m.Err())

	data, err := afero.ReadFile(fsys, "/work/a.txt")
	require.NoError(t, err)
	require.Equal(t, "one\n", string(data))
}

func TestUpdate_QuitBehindFailedSaveKeepsError(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("a.txt").Build()
	m := New(set, Options{
		Store:    storage.NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs())),
		Resolver: storage.DirResolver{Dir: "/work"},
	})

	m, save := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runeMsg(":w"), tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := typeKeys(t, m, runeMsg(":q"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)

	m, cmd = typeKeys(t, m, save())
	require.Equal(t, tea.QuitMsg{}, cmd())
	require.ErrorContains(t, m.Err(), "saving a.txt")
}

func TestUpdate_WriteQuitSavesBeforeQuitting(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("a.txt", testutil.Lines("one")).Build()
	m, _ := newTestModel(set)

	m, cmd := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runeMsg(":wq"), tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, SavedMsg{}, msg)

	_, cmd = typeKeys(t, m, msg)
	require.Equal(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_SavedAfterFurtherEditsStaysModified(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("a.txt", testutil.Lines("one")).Build()
	m, _ := newTestModel(set)

	m, cmd := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runeMsg(":w"), tea.KeyMsg{Type: tea.KeyEnter})
	msg := cmd()
	m, _ = typeKeys(t, m, runeMsg("i"), runeMsg("x"))
	m, _ = typeKeys(t, m, msg)

	require.True(t, set.Active().Modified())
	require.Equal(t, []string{"xone"}, m.Set().Active().Lines())
}

func TestUpdate_SaveFailureQuitsWithError(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("a.txt").Build()
	m := New(set, Options{
		Store:    storage.NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs())),
		Resolver: storage.DirResolver{Dir: "/work"},
	})

	m, cmd := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runeMsg(":w"), tea.KeyMsg{Type: tea.KeyEnter})
	msg := cmd()
	require.IsType(t, SaveFailedMsg{}, msg)

	m, cmd = typeKeys(t, m, msg)
	require.Equal(t, tea.QuitMsg{}, cmd())
	require.ErrorContains(t, m.Err(), "saving a.txt")
}

func TestUpdate_ResolveFailureQuitsWithError(t *testing.T) {
	boom := errors.New("no executable")
	set := testutil.NewBuilder(t).WithBuffer("a.txt").Build()
	m := New(set, Options{
		Store: storage.NewStore(afero.NewMemMapFs()),
		Resolver: storage.ExecutableResolver{
			Dir: func() (string, error) { return "", boom },
		},
	})

	m, cmd := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runeMsg(":w"), tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = typeKeys(t, m, cmd())

	require.ErrorIs(t, m.Err(), boom)
}

func TestUpdate_UnknownCommandShowsMessage(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("a.txt", testutil.Lines("keep")).Build()
	m, _ := newTestModel(set)

	m, cmd := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runeMsg(":xyz"), tea.KeyMsg{Type: tea.KeyEnter})

	require.Nil(t, cmd)
	require.Equal(t, mode.Normal{}, m.State())
	require.Equal(t, "unknown command: xyz", m.Message())
	require.Contains(t, ansi.Strip(m.View()), "unknown command: xyz")
	require.Equal(t, []string{"keep"}, set.Active().Lines())

	// The message lasts until the next key.
	m, _ = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.Empty(t, m.Message())
}

func TestUpdate_PasteInsertsEveryRune(t *testing.T) {
	set := testutil.NewBuilder(t).WithStandardBuffers().Build()
	m, _ := newTestModel(set)

	_, _ = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("中文 ok"), Paste: true})

	require.Equal(t, []string{"中文 ok"}, set.Active().Lines())
}

func TestUpdate_PasteKeepsLineBreaks(t *testing.T) {
	set := testutil.NewBuilder(t).WithStandardBuffers().Build()
	m, _ := newTestModel(set)

	m, _ = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab\ncd\r\nef"), Paste: true})

	require.Equal(t, []string{"ab", "cd", "ef"}, set.Active().Lines())
	row, col := set.Active().Cursor()
	require.Equal(t, 2, row)
	require.Equal(t, 2, col)
	require.Equal(t, mode.Insert{}, m.State())
}

func TestView_ShowsBufferAndStatus(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("notes.txt", testutil.Lines("hello")).Build()
	m, _ := newTestModel(set)
	m, _ = typeKeys(t, m, tea.WindowSizeMsg{Width: 60, Height: 5})

	rows := strings.Split(ansi.Strip(m.View()), "\n")

	require.Len(t, rows, 5)
	require.True(t, strings.HasPrefix(rows[0], "   1 hello"))
	require.True(t, strings.HasPrefix(rows[4], "-- INSERT --  notes.txt  command =>:w save"))
}

func TestView_CustomHint(t *testing.T) {
	set := testutil.NewBuilder(t).WithBuffer("a").Build()
	m := New(set, Options{Hint: "press :q"})

	require.Contains(t, ansi.Strip(m.View()), "-- INSERT --  a  press :q")
}

func TestView_CommandLine(t *testing.T) {
	m, _ := newTestModel(testutil.NewBuilder(t).WithStandardBuffers().Build())

	m, _ = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runeMsg(":wq"))

	rows := strings.Split(ansi.Strip(m.View()), "\n")
	require.True(t, strings.HasPrefix(rows[len(rows)-1], ":wq"))
}

// ============================================================================
// Program tests
// ============================================================================

func TestProgram_WriteQuit(t *testing.T) {
	set := testutil.NewBuilder(t).WithStandardBuffers().Build()
	m, fsys := newTestModel(set)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))
	tm.Type("hello")
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Type(":wq")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.True(t, ok)
	require.NoError(t, final.Err())

	data, err := afero.ReadFile(fsys, "/work/file1.txt")
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(data))
}

func TestProgram_SwitchAndSaveSecondBuffer(t *testing.T) {
	set := testutil.NewBuilder(t).WithStandardBuffers().Build()
	m, fsys := newTestModel(set)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Type("i")
	tm.Type("second")
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Type(":w")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("written"))
	}, teatest.WithDuration(3*time.Second))
	tm.Type(":q")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.Equal(t, 1, final.Set().ActiveIndex())

	exists, err := afero.Exists(fsys, "/work/file1.txt")
	require.NoError(t, err)
	require.False(t, exists)

	data, err := afero.ReadFile(fsys, "/work/file2.txt")
	require.NoError(t, err)
	require.Equal(t, "second\n", string(data))
}

func TestProgram_QuitAfterSlowFailedSaveReportsError(t *testing.T) {
	set := testutil.NewBuilder(t).WithStandardBuffers().Build()
	fsys := slowFs{Fs: afero.NewReadOnlyFs(afero.NewMemMapFs()), delay: 50 * time.Millisecond}
	m := New(set, Options{
		Store:    storage.NewStore(fsys),
		Resolver: storage.DirResolver{Dir: "/work"},
	})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Type(":w")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Type(":q")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.ErrorContains(t, final.Err(), "saving file1.txt")
}

func TestProgram_SaveFailureEndsSession(t *testing.T) {
	set := testutil.NewBuilder(t).WithStandardBuffers().Build()
	m := New(set, Options{
		Store:    storage.NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs())),
		Resolver: storage.DirResolver{Dir: "/work"},
	})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Type(":w")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.ErrorContains(t, final.Err(), "saving file1.txt")
}
