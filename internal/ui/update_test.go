package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapex/internal/config"
	"snapex/internal/explorer"
	"snapex/internal/listing"
)

type fakeBackend struct {
	mu       sync.Mutex
	listings map[string][]listing.Entry // key: snapshot + ":" + path
	errs     map[string]error
	calls    []string
}

func (f *fakeBackend) FetchListing(ctx context.Context, snapshotID, path string) ([]listing.Entry, error) {
	key := snapshotID + ":" + path
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return f.listings[key], nil
}

func (f *fakeBackend) DownloadURL(snapshotID, fullPath string) string {
	return "http://backup.local/download/" + snapshotID + "/" + fullPath
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		listings: map[string][]listing.Entry{
			"alpha:": {
				{Name: "src", IsDir: true},
				{Name: "README.md", Size: 10, ModifiedAt: 1700000000},
				{Name: "notes.txt", Size: 3},
			},
			"alpha:src": {
				{Name: "main.go", Size: 200},
			},
			"alpha:docs": {
				{Name: "guide.md", Size: 5},
			},
			"beta:": {},
		},
		errs: map[string]error{
			"alpha:missing": errors.New("boom"),
		},
	}
}

func createTestModel(fb *fakeBackend) Model {
	cfg := config.Config{URL: "http://backup.local", Snapshots: []string{"alpha", "beta"}, Timeout: time.Second}
	m := InitialModel(cfg, fb)
	m.width, m.height = 120, 40
	m.viewport.Width, m.viewport.Height = 120, 30
	return m
}

// createKeyMsg creates a KeyMsg from a string representation
func createKeyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(createKeyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliver runs cmd and feeds listing and clipboard results back into m.
func deliver(m Model, cmd tea.Cmd) Model {
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case listingMsg, clipboardMsg:
			next, _ := m.Update(msg)
			m = next.(Model)
		}
	}
	return m
}

func openAlpha(t *testing.T, fb *fakeBackend) Model {
	t.Helper()
	m := createTestModel(fb)
	m, cmd := press(m, "down", "enter")
	require.NotNil(t, cmd, "expected fetch cmd after picking a snapshot")
	m = deliver(m, cmd)
	require.Equal(t, explorer.NavigationState{SnapshotID: "alpha"}, m.ctrl.RenderedFor())
	return m
}

func TestUpdateGlobalQuit(t *testing.T) {
	m := createTestModel(newFakeBackend())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd, "expected quit cmd")
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPickSnapshotListsRoot(t *testing.T) {
	fb := newFakeBackend()
	m := openAlpha(t, fb)
	assert.Equal(t, stateBrowse, m.state)
	rows := m.ctrl.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "src/", rows[0].Label)
	assert.Equal(t, "README.md", rows[1].Name)
	assert.Nil(t, m.cancel, "cancel func kept after the request resolved")
	assert.Contains(t, m.statusMsg, "3 entries")
}

func TestPickNoneClearsListing(t *testing.T) {
	fb := newFakeBackend()
	m := openAlpha(t, fb)
	m, _ = press(m, "s")
	require.Equal(t, stateSnapshotSelect, m.state)

	calls := fb.callCount()
	m, cmd := press(m, "enter") // "(none)" is the first entry
	assert.Nil(t, cmd, "deselecting must not fetch")
	assert.Equal(t, calls, fb.callCount(), "backend called on deselect")
	assert.Empty(t, m.ctrl.State().SnapshotID)
	assert.Empty(t, m.ctrl.Rows())
	assert.Contains(t, m.View(), "No snapshot selected")
}

func TestEnterDirectory(t *testing.T) {
	m := openAlpha(t, newFakeBackend())
	m, cmd := press(m, "enter") // cursor on src/
	m = deliver(m, cmd)
	assert.Equal(t, "src", m.ctrl.State().CurrentPath)
	rows := m.ctrl.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "src/main.go", rows[0].FullPath)
}

func TestEnterDirectoryFromStaleRowsDoesNotFetch(t *testing.T) {
	fb := newFakeBackend()
	m := openAlpha(t, fb)
	m, _ = press(m, "g")
	m.browse.pathInput.SetValue("missing")
	m, cmd := press(m, "enter")
	m = deliver(m, cmd)
	require.True(t, m.ctrl.Stale())

	calls := fb.callCount()
	m, cmd = press(m, "enter") // src/ from the alpha root listing
	assert.Nil(t, cmd)
	assert.Equal(t, calls, fb.callCount())
	assert.Equal(t, "missing", m.ctrl.State().CurrentPath)
	assert.Contains(t, m.statusMsg, "out of date")
}

func TestEnterOnFileDoesNothing(t *testing.T) {
	fb := newFakeBackend()
	m := openAlpha(t, fb)
	calls := fb.callCount()
	m, cmd := press(m, "j", "enter")
	assert.Nil(t, cmd, "enter on a file must not fetch")
	assert.Equal(t, calls, fb.callCount())
	assert.Empty(t, m.ctrl.State().CurrentPath)
}

func TestGoToPathInput(t *testing.T) {
	m := openAlpha(t, newFakeBackend())
	m, _ = press(m, "g")
	require.True(t, m.browse.editingPath, "path input not opened")

	// q is text here, not quit
	m, cmd := press(m, "q")
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd(), "q quit while editing the path")
	}
	m.browse.pathInput.SetValue("")
	m, _ = press(m, "  docs ")
	m, cmd = press(m, "enter")
	m = deliver(m, cmd)
	assert.False(t, m.browse.editingPath, "path input still open")
	assert.Equal(t, "docs", m.ctrl.State().CurrentPath)
	rows := m.ctrl.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "guide.md", rows[0].Name)
}

func TestPathInputEscCancels(t *testing.T) {
	fb := newFakeBackend()
	m := openAlpha(t, fb)
	calls := fb.callCount()
	m, _ = press(m, "g", "docs", "esc")
	assert.False(t, m.browse.editingPath)
	assert.Equal(t, calls, fb.callCount(), "esc must cancel without fetching")
	assert.Empty(t, m.ctrl.State().CurrentPath)
}

func TestFilterLive(t *testing.T) {
	fb := newFakeBackend()
	m := openAlpha(t, fb)
	calls := fb.callCount()

	m, _ = press(m, "f", "MD")
	assert.Equal(t, "MD", m.ctrl.Filter())
	vis := m.ctrl.VisibleRows()
	require.Len(t, vis, 1)
	assert.Equal(t, "README.md", vis[0].Name)
	assert.Equal(t, calls, fb.callCount(), "filtering must not fetch")

	m, _ = press(m, "esc")
	assert.False(t, m.browse.filtering)
	assert.Empty(t, m.ctrl.Filter(), "esc must clear the filter")
	assert.Len(t, m.ctrl.VisibleRows(), 3)
}

func TestSupersededListingIsDropped(t *testing.T) {
	fb := newFakeBackend()
	m := createTestModel(fb)
	m, first := press(m, "down", "enter")
	m, _ = press(m, "g")
	m.browse.pathInput.SetValue("docs")
	m, second := press(m, "enter")

	m = deliver(m, second)
	m = deliver(m, first)

	assert.Equal(t, "docs", m.ctrl.RenderedFor().CurrentPath)
	assert.NoError(t, m.ctrl.Err(), "superseded failure leaked")
}

func TestFailedListingKeepsRows(t *testing.T) {
	m := openAlpha(t, newFakeBackend())
	m, _ = press(m, "g")
	m.browse.pathInput.SetValue("missing")
	m, cmd := press(m, "enter")
	m = deliver(m, cmd)

	require.Error(t, m.ctrl.Err())
	assert.Len(t, m.ctrl.Rows(), 3, "rows dropped after failure")
	assert.Equal(t, "missing", m.ctrl.State().CurrentPath)
	assert.True(t, m.ctrl.Stale())
	view := m.View()
	assert.Contains(t, view, "boom")
	assert.Contains(t, view, "showing alpha:/")
}

func TestCopyDownloadURL(t *testing.T) {
	m := openAlpha(t, newFakeBackend())
	var copied string
	m.copyToClipboard = func(s string) error { copied = s; return nil }

	m, cmd := press(m, "y") // directory row
	assert.Nil(t, cmd, "directories have no download link")

	m, cmd = press(m, "j", "y")
	m = deliver(m, cmd)
	want := "http://backup.local/download/alpha/README.md"
	assert.Equal(t, want, copied)
	assert.Contains(t, m.statusMsg, want)
}

func TestCopyFailureReported(t *testing.T) {
	m := openAlpha(t, newFakeBackend())
	m.copyToClipboard = func(string) error { return errors.New("no clipboard") }
	m, cmd := press(m, "j", "y")
	m = deliver(m, cmd)
	assert.Contains(t, m.statusMsg, "no clipboard")
}

func TestReloadRefetchesCurrentPath(t *testing.T) {
	fb := newFakeBackend()
	m := openAlpha(t, fb)
	calls := fb.callCount()
	m, cmd := press(m, "r")
	m = deliver(m, cmd)
	assert.Equal(t, calls+1, fb.callCount(), "expected one more fetch")
	assert.Empty(t, m.ctrl.State().CurrentPath, "reload changed path")
}

func TestCursorMovementClamps(t *testing.T) {
	m := openAlpha(t, newFakeBackend())
	m, _ = press(m, "k")
	assert.Equal(t, 0, m.browse.cursor)
	m, _ = press(m, "j", "j", "j", "j")
	assert.Equal(t, 2, m.browse.cursor)
}

func TestWithSnapshotStartsFetch(t *testing.T) {
	fb := newFakeBackend()
	m := createTestModel(fb).WithSnapshot("beta")
	require.Equal(t, stateBrowse, m.state)
	cmd := m.Init()
	require.NotNil(t, cmd, "Init must issue the initial fetch")
	m = deliver(m, cmd)
	assert.Equal(t, "beta", m.ctrl.RenderedFor().SnapshotID)
	assert.Contains(t, m.View(), "Empty directory")
}
