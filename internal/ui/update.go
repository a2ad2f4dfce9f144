package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"snapex/internal/infra/logx"
	"snapex/internal/listing"
)

// ---------- Update ----------
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.state {
		case stateSnapshotSelect:
			m, cmd = m.handleSnapshotSelectKey(msg)
		case stateBrowse:
			m, cmd = m.handleBrowseKey(msg)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		// header, table header, footer
		const chrome = 9
		m.viewport.Width = max(20, m.width)
		m.viewport.Height = max(3, m.height-chrome)
		m.updateBrowseViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listingMsg:
		return m.handleListing(msg), nil

	case clipboardMsg:
		return m.handleClipboard(msg), nil
	}
	return m, nil
}

// handleListing feeds a fetch result to the controller. Results of
// superseded requests are dropped there.
func (m Model) handleListing(msg listingMsg) Model {
	if !m.ctrl.Resolve(msg.res) {
		logx.Debugf("dropping superseded listing seq=%d", msg.res.Seq)
		return m
	}
	m.cancel = nil

	if err := m.ctrl.Err(); err != nil {
		logx.Warnf("listing %s failed: %v", describeState(m.ctrl.State()), err)
		m.statusMsg = "Listing failed: " + errorText(err)
	} else {
		n := len(m.ctrl.Rows())
		m.statusMsg = fmt.Sprintf("%d entries in %s", n, describeState(m.ctrl.RenderedFor()))
	}
	m.clampCursor()
	m.updateBrowseViewport()
	m.ensureCursorInViewport(m.browse.cursor)
	return m
}

func errorText(err error) string {
	var fe *listing.FetchError
	if errors.As(err, &fe) && fe.StatusCode >= 300 {
		return fmt.Sprintf("server answered %d", fe.StatusCode) + detail(fe.Err)
	}
	return err.Error()
}

func detail(err error) string {
	if err == nil {
		return ""
	}
	return " (" + err.Error() + ")"
}
