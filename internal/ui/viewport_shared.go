package ui

// ensureCursorInViewport scrolls the listing so that row stays visible with
// a small margin above and below.
func (m *Model) ensureCursorInViewport(row int) {
	h := m.viewport.Height
	if h <= 0 {
		return
	}
	margin := 3
	if h < 8 {
		margin = 1
	}

	top := m.viewport.YOffset
	bottom := top + h - 1
	switch {
	case row < top+margin:
		m.viewport.SetYOffset(max(0, row-margin))
	case row > bottom-margin:
		m.viewport.SetYOffset(max(0, row-h+margin+1))
	}
}
