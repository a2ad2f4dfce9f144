package explorer

import (
	"context"
	"strings"
	"time"

	"snapex/internal/listing"
)

// Fetcher retrieves the listing of a directory inside a snapshot.
type Fetcher interface {
	FetchListing(ctx context.Context, snapshotID, path string) ([]listing.Entry, error)
}

// Request asks the host to fetch the listing for State. Seq orders requests;
// only the most recently issued one is ever rendered.
type Request struct {
	Seq   uint64
	State NavigationState
}

// Result carries the outcome of a Request back to the controller.
type Result struct {
	Seq     uint64
	Entries []listing.Entry
	Err     error
}

// Execute runs req against f.
func Execute(ctx context.Context, f Fetcher, req Request) Result {
	entries, err := f.FetchListing(ctx, req.State.SnapshotID, req.State.CurrentPath)
	return Result{Seq: req.Seq, Entries: entries, Err: err}
}

// Controller owns the navigation state and the rendered rows. It is not safe
// for concurrent use; hosts drive it from a single event loop.
//
// Actions that change what should be listed return a *Request and leave the
// current rows in place until the matching Result arrives. A newer request
// supersedes every older one: their results are discarded by Resolve. A
// failed fetch keeps the advanced state and the last good rows; Stale then
// reports that the rows belong to RenderedFor rather than State.
type Controller struct {
	state       NavigationState
	pathInput   string
	filter      string
	rows        []Row
	renderedFor NavigationState

	seq     uint64
	pending bool
	err     error

	linker Linker
	loc    *time.Location
}

// NewController creates a controller with no snapshot selected. Download
// references are built with linker; timestamps are shown in loc (time.Local
// when nil).
func NewController(linker Linker, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.Local
	}
	return &Controller{linker: linker, loc: loc}
}

func (c *Controller) issue() *Request {
	c.seq++
	c.pending = true
	return &Request{Seq: c.seq, State: c.state}
}

// SelectSnapshot switches to snapshot id at its root. An empty id clears the
// rows and abandons any in-flight request.
func (c *Controller) SelectSnapshot(id string) *Request {
	c.state = NavigationState{SnapshotID: id}
	c.pathInput = ""
	if id == "" {
		c.seq++
		c.pending = false
		c.rows = nil
		c.renderedFor = NavigationState{}
		c.err = nil
		return nil
	}
	return c.issue()
}

// GoToPath lists raw with surrounding whitespace removed. Nothing else is
// normalised: "..", "//" and the like reach the backend verbatim. Without a
// selected snapshot it does nothing and returns nil.
func (c *Controller) GoToPath(raw string) *Request {
	if c.state.SnapshotID == "" {
		return nil
	}
	c.state.CurrentPath = strings.TrimSpace(raw)
	c.pathInput = c.state.CurrentPath
	return c.issue()
}

// EnterDirectory descends into the rendered directory row called name. It
// returns nil without changing state when no snapshot is selected, when no
// such directory row is rendered, or while the rows are stale: a row of an
// older listing cannot be joined onto a state it was not fetched for.
func (c *Controller) EnterDirectory(name string) *Request {
	if c.state.SnapshotID == "" || c.Stale() {
		return nil
	}
	found := false
	for _, r := range c.rows {
		if r.IsDir && r.Name == name {
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	c.state.CurrentPath = JoinPath(c.state.CurrentPath, name)
	c.pathInput = c.state.CurrentPath
	return c.issue()
}

// SetFilter stores text and re-evaluates row visibility without fetching.
func (c *Controller) SetFilter(text string) {
	c.filter = text
	refilter(c.rows, text)
}

// Resolve applies a fetch result. It returns false when res belongs to a
// superseded request and was ignored.
func (c *Controller) Resolve(res Result) bool {
	if !c.pending || res.Seq != c.seq {
		return false
	}
	c.pending = false
	if res.Err != nil {
		c.err = res.Err
		return true
	}
	c.rows = BuildRows(res.Entries, c.state, c.filter, c.linker, c.loc)
	c.renderedFor = c.state
	c.err = nil
	return true
}

// State returns the current navigation state.
func (c *Controller) State() NavigationState { return c.state }

// RenderedFor returns the state the current rows were fetched for.
func (c *Controller) RenderedFor() NavigationState { return c.renderedFor }

// PathInput is the text the path field should display.
func (c *Controller) PathInput() string { return c.pathInput }

// Filter returns the current filter text.
func (c *Controller) Filter() string { return c.filter }

// Rows returns all rendered rows, hidden ones included. Callers must not
// modify the slice.
func (c *Controller) Rows() []Row { return c.rows }

// VisibleRows returns the rendered rows that pass the filter.
func (c *Controller) VisibleRows() []Row {
	vis := make([]Row, 0, len(c.rows))
	for _, r := range c.rows {
		if r.Visible {
			vis = append(vis, r)
		}
	}
	return vis
}

// Pending reports whether the latest request is still unresolved.
func (c *Controller) Pending() bool { return c.pending }

// Err returns the failure of the latest resolved request, if any.
func (c *Controller) Err() error { return c.err }

// Stale reports whether the rows belong to an earlier state than State.
func (c *Controller) Stale() bool { return c.renderedFor != c.state }
