package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"snapex/internal/explorer"
	"snapex/internal/infra/logx"
)

// ---------- Messages / Cmds ----------
type listingMsg struct {
	res explorer.Result
}

type clipboardMsg struct {
	text string
	err  error
}

// fetchListingCmd runs req with its own deadline. The returned cancel func
// aborts the request once a newer one supersedes it.
func fetchListingCmd(f explorer.Fetcher, req explorer.Request, timeout time.Duration) (tea.Cmd, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return func() tea.Msg {
		defer cancel()
		start := time.Now()
		res := explorer.Execute(ctx, f, req)
		logx.Log(logx.LevelDebug, "listing fetched", map[string]any{
			"seq":      req.Seq,
			"snapshot": req.State.SnapshotID,
			"path":     req.State.CurrentPath,
			"entries":  len(res.Entries),
			"elapsed":  time.Since(start).String(),
			"failed":   res.Err != nil,
		})
		return listingMsg{res: res}
	}, cancel
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{text: text, err: write(text)}
	}
}

// startFetch cancels the in-flight request and runs req. A nil req is a
// skipped action and leaves the in-flight request alone.
func (m Model) startFetch(req *explorer.Request) (Model, tea.Cmd) {
	if req == nil {
		return m, nil
	}
	m.abortFetch()
	cmd, cancel := fetchListingCmd(m.backend, *req, m.timeout)
	m.cancel = cancel
	m.statusMsg = "Loading " + describeState(req.State) + "…"
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) abortFetch() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func describeState(st explorer.NavigationState) string {
	if st.SnapshotID == "" {
		return "(no snapshot)"
	}
	return st.SnapshotID + ":/" + st.CurrentPath
}
