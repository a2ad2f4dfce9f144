package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"snapex/internal/explorer"
)

func (m *Model) updateBrowseViewport() {
	m.viewport.SetContent(m.renderBrowseContent())
}

func (m Model) renderBrowseHeader() string {
	var b strings.Builder
	st := m.ctrl.State()

	snap := st.SnapshotID
	if snap == "" {
		snap = subtleStyle.Render(noSnapshotLabel)
	}
	b.WriteString("Snapshot: " + snap + "  |  ")
	if m.browse.editingPath {
		b.WriteString(m.browse.pathInput.View())
	} else {
		b.WriteString("Path: /" + m.ctrl.PathInput())
	}
	if m.ctrl.Pending() {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n")

	if err := m.ctrl.Err(); err != nil {
		b.WriteString(errorStyle.Render("✗ "+errorText(err)) + "\n")
	}
	if rf := m.ctrl.RenderedFor(); m.ctrl.Stale() && rf.SnapshotID != "" {
		b.WriteString(staleStyle.Render("showing "+describeState(rf)) + "\n")
	}

	if m.browse.filtering {
		b.WriteString("Filter: " + m.browse.filterInput.View())
	} else if f := m.ctrl.Filter(); f != "" {
		b.WriteString("Filter: " + f)
	} else {
		b.WriteString(subtleStyle.Render("Filter:"))
	}
	b.WriteString(subtleStyle.Render(fmt.Sprintf("  %d/%d shown", len(m.ctrl.VisibleRows()), len(m.ctrl.Rows()))))
	b.WriteString("\n\n")

	nameW, urlW := m.columnWidths()
	b.WriteString(listHeaderStyle.Render(m.formatRow("Name", "Size", "Modified", "Download", nameW, urlW)))
	return b.String()
}

func (m Model) renderBrowseContent() string {
	if m.ctrl.State().SnapshotID == "" {
		return warnStyle.Render("No snapshot selected. Press s to pick one.")
	}
	rows := m.ctrl.VisibleRows()
	if len(rows) == 0 {
		switch {
		case len(m.ctrl.Rows()) > 0:
			return warnStyle.Render("No entries match the filter.")
		case m.ctrl.Pending() || m.ctrl.RenderedFor().SnapshotID == "":
			return subtleStyle.Render("Loading…")
		default:
			return subtleStyle.Render("Empty directory.")
		}
	}

	nameW, urlW := m.columnWidths()
	var b strings.Builder
	for i, r := range rows {
		line := m.renderRow(r, nameW, urlW)
		cursorCell := " "
		if i == m.browse.cursor {
			cursorCell = cursorBarStyle.Render(" ")
			line = cursorLineStyle.Width(max(10, m.width-2)).Render(line)
		}
		b.WriteString(cursorCell + line)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderRow(r explorer.Row, nameW, urlW int) string {
	line := m.formatRow(r.Label, r.SizeText, r.ModifiedText, r.DownloadURL, nameW, urlW)
	if r.IsDir {
		name := runewidth.FillRight(runewidth.Truncate(r.Label, nameW, "…"), nameW)
		return dirStyle.Render(name) + line[len(name):]
	}
	return line
}

// formatRow lays out one table line. Cells are truncated to their column.
func (m Model) formatRow(name, size, modified, url string, nameW, urlW int) string {
	gap := strings.Repeat(" ", colGap)
	return runewidth.FillRight(runewidth.Truncate(name, nameW, "…"), nameW) + gap +
		runewidth.FillLeft(runewidth.Truncate(size, colSizeWidth, "…"), colSizeWidth) + gap +
		runewidth.FillRight(runewidth.Truncate(modified, colModifiedWidth, ""), colModifiedWidth) + gap +
		runewidth.Truncate(url, urlW, "…")
}

// columnWidths splits the space left by the fixed columns between the name
// and download columns.
func (m Model) columnWidths() (nameW, urlW int) {
	width := m.width
	if width <= 0 {
		width = 100
	}
	free := width - 4 - colSizeWidth - colModifiedWidth - 3*colGap
	nameW = max(minNameWidth, free/2)
	urlW = max(10, free-nameW)
	return nameW, urlW
}
