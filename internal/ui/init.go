package ui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"snapex/internal/config"
	"snapex/internal/explorer"
)

func InitialModel(cfg config.Config, backend Backend) Model {
	m := Model{
		state:           stateSnapshotSelect,
		cfg:             cfg,
		backend:         backend,
		ctrl:            explorer.NewController(backend, time.Local),
		timeout:         cfg.Timeout,
		snapshots:       cfg.Snapshots,
		copyToClipboard: clipboard.WriteAll,
	}
	if m.timeout <= 0 {
		m.timeout = config.DefaultTimeout
	}

	if len(m.snapshots) == 0 {
		m.statusMsg = "No snapshots configured. Set SNAPEX_SNAPSHOTS or pass --snapshot."
	} else {
		m.statusMsg = fmt.Sprintf("%d snapshots configured. Enter to open one.", len(m.snapshots))
	}

	// snapshot search
	si := textinput.New()
	si.Placeholder = "Search snapshots…"
	si.CharLimit = 200
	si.Width = 40
	m.picker.searchInput = si
	m.filterCfg = FilterConfig{
		MinCoverage: 0.6,
		MaxSpread:   16,
		MaxResults:  200,
	}
	m.applyPickerFilter()

	// path
	pi := textinput.New()
	pi.Placeholder = "path/inside/snapshot"
	pi.CharLimit = 1024
	pi.Width = 50
	m.browse.pathInput = pi

	// filter
	fi := textinput.New()
	fi.Placeholder = "filter names"
	fi.CharLimit = 200
	fi.Width = 30
	m.browse.filterInput = fi

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = subtleStyle
	m.spinner = sp

	// initial dimensions, will be updated in WindowSize
	m.viewport = viewport.New(80, 20)

	return m
}

// WithSnapshot opens snapshot id before the program starts. The listing
// request is issued from Init.
func (m Model) WithSnapshot(id string) Model {
	req := m.ctrl.SelectSnapshot(id)
	if req == nil {
		return m
	}
	m.state = stateBrowse
	m, m.startCmd = m.startFetch(req)
	return m
}

func (m Model) Init() tea.Cmd { return m.startCmd }
