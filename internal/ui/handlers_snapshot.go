package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// handleSnapshotSelectKey handles the snapshot picker.
func (m Model) handleSnapshotSelectKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.picker.searching {
		return m.handlePickerSearchInput(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "j", "down":
		if m.picker.index < len(m.picker.filteredIdx)-1 {
			m.picker.index++
		}
	case "k", "up":
		if m.picker.index > 0 {
			m.picker.index--
		}
	case "/":
		m.picker.searching = true
		m.picker.searchInput.SetValue(m.picker.query)
		m.picker.searchInput.CursorEnd()
		return m, m.picker.searchInput.Focus()
	case "esc":
		// back to the open snapshot, if any
		if m.ctrl.State().SnapshotID != "" {
			m.state = stateBrowse
		}
	case "enter":
		return m.pickSnapshot()
	}
	return m, nil
}

func (m Model) handlePickerSearchInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.picker.searching = false
		m.picker.query = ""
		m.picker.searchInput.SetValue("")
		m.picker.searchInput.Blur()
		m.applyPickerFilter()
		return m, nil
	case "enter":
		m.picker.searching = false
		m.picker.searchInput.Blur()
		return m.pickSnapshot()
	default:
		var cmd tea.Cmd
		m.picker.searchInput, cmd = m.picker.searchInput.Update(msg)
		m.picker.query = m.picker.searchInput.Value()
		m.applyPickerFilter()
		return m, cmd
	}
}

// applyPickerFilter narrows the picker entries to the current query.
func (m *Model) applyPickerFilter() {
	m.picker.index = 0
	m.picker.filteredIdx = searchSnapshots(newSnapshotKey(m.picker.query), snapshotKeys(m.pickerOptions()), m.filterCfg)
}

// pickSnapshot applies the highlighted picker entry and switches to the
// browse view.
func (m Model) pickSnapshot() (Model, tea.Cmd) {
	if len(m.picker.filteredIdx) == 0 {
		m.statusMsg = "No matching snapshot."
		return m, nil
	}
	choice := m.pickerOptions()[m.picker.filteredIdx[m.picker.index]]

	m.state = stateBrowse
	m.browse.cursor = 0
	m.browse.filtering = false
	m.browse.editingPath = false

	if choice == noSnapshotLabel {
		m.abortFetch()
		m.ctrl.SelectSnapshot("")
		m.statusMsg = "No snapshot selected. Press s to pick one."
		m.updateBrowseViewport()
		return m, nil
	}

	req := m.ctrl.SelectSnapshot(choice)
	m.updateBrowseViewport()
	m, cmd := m.startFetch(req)
	m.statusMsg = fmt.Sprintf("Opening snapshot %s…", choice)
	return m, cmd
}
