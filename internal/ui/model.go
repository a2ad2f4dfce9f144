package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"snapex/internal/config"
	"snapex/internal/explorer"
	"snapex/internal/listing"
)

// --- Model / State ---
type state int

const (
	stateSnapshotSelect state = iota
	stateBrowse
	stateQuit
)

// noSnapshotLabel is the picker entry that deselects the current snapshot.
const noSnapshotLabel = "(none)"

// Backend lists directories and builds download references.
type Backend interface {
	explorer.Fetcher
	explorer.Linker
}

type metricsSource interface {
	MetricsSnapshot() listing.MetricsSnapshot
}

type PickerState struct {
	index       int
	searching   bool
	searchInput textinput.Model
	query       string
	filteredIdx []int // visible index -> index into pickerOptions()
}

type BrowseState struct {
	cursor      int // index into the controller's visible rows
	editingPath bool
	pathInput   textinput.Model
	filtering   bool
	filterInput textinput.Model
}

type Model struct {
	state         state
	cfg           config.Config
	statusMsg     string
	width, height int

	backend Backend
	ctrl    *explorer.Controller
	timeout time.Duration
	// cancel aborts the in-flight listing request, if any.
	cancel context.CancelFunc

	spinner  spinner.Model
	viewport viewport.Model

	snapshots []string
	picker    PickerState
	browse    BrowseState
	filterCfg FilterConfig

	copyToClipboard func(string) error
	startCmd        tea.Cmd // fetch issued before the program started
}

// pickerOptions lists the picker entries: the deselect entry followed by the
// configured snapshot ids.
func (m Model) pickerOptions() []string {
	opts := make([]string, 0, len(m.snapshots)+1)
	opts = append(opts, noSnapshotLabel)
	return append(opts, m.snapshots...)
}

// selectedRow returns the visible row under the cursor.
func (m Model) selectedRow() (explorer.Row, bool) {
	rows := m.ctrl.VisibleRows()
	if m.browse.cursor < 0 || m.browse.cursor >= len(rows) {
		return explorer.Row{}, false
	}
	return rows[m.browse.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.VisibleRows())
	if m.browse.cursor >= n {
		m.browse.cursor = n - 1
	}
	if m.browse.cursor < 0 {
		m.browse.cursor = 0
	}
}
