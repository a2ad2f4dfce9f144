package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"snapex/internal/infra/logx"
)

// handleBrowseKey handles all key events in the browse state. Open inputs get
// the keys first.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.browse.editingPath {
		return m.handlePathInput(msg)
	}
	if m.browse.filtering {
		return m.handleFilterInput(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "j", "down", "k", "up", "ctrl+d", "pgdown", "ctrl+u", "pgup", "home", "end":
		return m.handleBrowseCursorMovement(msg.String())

	case "enter":
		row, ok := m.selectedRow()
		if !ok || !row.IsDir {
			return m, nil
		}
		req := m.ctrl.EnterDirectory(row.Name)
		if req == nil {
			if m.ctrl.Stale() {
				m.statusMsg = "Listing is out of date; wait for it or reload (r)."
			}
			return m, nil
		}
		m.browse.cursor = 0
		return m.startFetch(req)

	case "g":
		if m.ctrl.State().SnapshotID == "" {
			m.statusMsg = "Pick a snapshot first (s)."
			return m, nil
		}
		m.browse.editingPath = true
		m.browse.pathInput.SetValue(m.ctrl.PathInput())
		m.browse.pathInput.CursorEnd()
		return m, m.browse.pathInput.Focus()

	case "f":
		m.browse.filtering = true
		m.browse.filterInput.SetValue(m.ctrl.Filter())
		m.browse.filterInput.CursorEnd()
		return m, m.browse.filterInput.Focus()

	case "r":
		return m.startFetch(m.ctrl.GoToPath(m.ctrl.State().CurrentPath))

	case "y":
		row, ok := m.selectedRow()
		if !ok || row.DownloadURL == "" {
			m.statusMsg = "Select a file to copy its download link."
			return m, nil
		}
		return m, copyCmd(m.copyToClipboard, row.DownloadURL)

	case "s":
		m.state = stateSnapshotSelect
		m.picker.query = ""
		m.picker.searching = false
		m.applyPickerFilter()
		return m, nil
	}
	return m, nil
}

// handlePathInput edits the path field; enter lists the typed path.
func (m Model) handlePathInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.browse.editingPath = false
		m.browse.pathInput.Blur()
		return m, nil
	case "enter":
		m.browse.editingPath = false
		m.browse.pathInput.Blur()
		req := m.ctrl.GoToPath(m.browse.pathInput.Value())
		m.browse.cursor = 0
		return m.startFetch(req)
	default:
		var cmd tea.Cmd
		m.browse.pathInput, cmd = m.browse.pathInput.Update(msg)
		return m, cmd
	}
}

// handleFilterInput applies the filter on every keystroke. esc clears it,
// enter keeps it and closes the field.
func (m Model) handleFilterInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.browse.filtering = false
		m.browse.filterInput.SetValue("")
		m.browse.filterInput.Blur()
		m.ctrl.SetFilter("")
	case "enter":
		m.browse.filtering = false
		m.browse.filterInput.Blur()
		return m, nil
	default:
		var cmd tea.Cmd
		m.browse.filterInput, cmd = m.browse.filterInput.Update(msg)
		m.ctrl.SetFilter(m.browse.filterInput.Value())
		m.browse.cursor = 0
		m.updateBrowseViewport()
		return m, cmd
	}
	m.clampCursor()
	m.updateBrowseViewport()
	return m, nil
}

// handleBrowseCursorMovement moves the cursor over the visible rows.
func (m Model) handleBrowseCursorMovement(key string) (Model, tea.Cmd) {
	n := len(m.ctrl.VisibleRows())
	if n == 0 {
		return m, nil
	}
	page := max(1, m.viewport.Height/2)
	switch key {
	case "j", "down":
		m.browse.cursor++
	case "k", "up":
		m.browse.cursor--
	case "ctrl+d", "pgdown":
		m.browse.cursor += page
	case "ctrl+u", "pgup":
		m.browse.cursor -= page
	case "home":
		m.browse.cursor = 0
	case "end":
		m.browse.cursor = n - 1
	}
	m.clampCursor()
	m.updateBrowseViewport()
	m.ensureCursorInViewport(m.browse.cursor)
	return m, nil
}

func (m Model) handleClipboard(msg clipboardMsg) Model {
	if msg.err != nil {
		logx.Warnf("clipboard: %v", msg.err)
		m.statusMsg = "Copy failed: " + msg.err.Error()
		return m
	}
	m.statusMsg = "Copied " + strings.TrimSpace(msg.text)
	return m
}
