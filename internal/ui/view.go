package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.state == stateQuit {
		return ""
	}

	parts := []string{m.renderHeader()}
	switch m.state {
	case stateSnapshotSelect:
		parts = append(parts,
			m.renderSnapshotSelect(),
			renderFooter(m.statusMsg, "j/k move  |  / search  |  Enter open  |  Esc back  |  q quit"),
		)
	case stateBrowse:
		parts = append(parts,
			m.renderBrowseHeader(),
			m.viewport.View(),
			m.renderBrowseFooter(),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("snapex"))
	if m.cfg.URL != "" {
		b.WriteString("  " + subtitleStyle.Render(m.cfg.URL))
	}
	b.WriteString("\n")
	b.WriteString(dividerStyle.Render(strings.Repeat("─", max(10, m.width-2))))
	return b.String()
}

func (m Model) renderSnapshotSelect() string {
	var b strings.Builder
	b.WriteString(listHeaderStyle.Render("Snapshots") + "\n\n")

	if m.picker.searching {
		b.WriteString("Search: " + m.picker.searchInput.View() + "\n\n")
	} else if m.picker.query != "" {
		b.WriteString(subtleStyle.Render("Search: "+m.picker.query) + "\n\n")
	}

	opts := m.pickerOptions()
	if len(m.picker.filteredIdx) == 0 {
		b.WriteString(warnStyle.Render("No matching snapshot.") + "\n")
		return b.String()
	}
	current := m.ctrl.State().SnapshotID
	for i, oi := range m.picker.filteredIdx {
		label := opts[oi]
		if label == current {
			label += " " + okStyle.Render("✓")
		}
		if i == m.picker.index {
			b.WriteString(selectedItemStyle.Render(label) + "\n")
		} else {
			b.WriteString(itemStyle.Render(label) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderBrowseFooter() string {
	status := m.statusMsg
	if src, ok := m.backend.(metricsSource); ok {
		s := src.MetricsSnapshot()
		status += fmt.Sprintf("  |  requests %d  failures %d  received %s", s.TotalRequests, s.Failures(), humanBytes(s.BytesReceived))
	}
	if m.browse.editingPath {
		return renderFooter(status, "Enter list path  |  Esc cancel")
	}
	if m.browse.filtering {
		return renderFooter(status, "typing filters rows  |  Enter keep  |  Esc clear")
	}
	return renderFooter(status,
		"j/k move  |  Enter open dir  |  g go to path  |  f filter  |  r reload",
		"y copy download link  |  s snapshots  |  q quit",
	)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
