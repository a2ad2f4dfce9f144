// Package explorer holds the navigation state of a snapshot browser: which
// snapshot and directory are shown, which listing request is current, and
// the rows rendered from the last successful listing. It has no terminal or
// network dependency; hosts execute the returned requests and feed results
// back through Controller.Resolve.
package explorer

// NavigationState identifies the listing being browsed.
type NavigationState struct {
	SnapshotID  string // empty: no snapshot selected
	CurrentPath string // empty: snapshot root; otherwise "a/b" without leading slash
}

// Phase is the coarse state of the navigation state machine.
type Phase int

const (
	NoSnapshot Phase = iota
	Browsing
)

func (p Phase) String() string {
	if p == Browsing {
		return "browsing"
	}
	return "no-snapshot"
}

// Phase reports whether a snapshot is selected.
func (s NavigationState) Phase() Phase {
	if s.SnapshotID == "" {
		return NoSnapshot
	}
	return Browsing
}

// JoinPath appends name to dir with a single "/" separator, omitting the
// separator when dir is the root. Neither argument is normalised.
func JoinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
