package explorer

import (
	"strconv"
	"time"

	"snapex/internal/listing"
)

// TimeLayout is the human-readable form of an entry's modification time.
const TimeLayout = "2006-01-02 15:04:05"

// Linker builds the download reference for a file of a snapshot.
type Linker interface {
	DownloadURL(snapshotID, fullPath string) string
}

// Row is the display model of one listed entry.
type Row struct {
	Name         string // entry name as received
	Label        string // Name, plus "/" for directories
	IsDir        bool
	SizeText     string // "-" for directories
	ModifiedText string
	FullPath     string // CurrentPath joined with Name
	DownloadURL  string // files only
	Visible      bool
}

// BuildRows turns a listing into rows, one per entry in the given order.
// Visibility follows filter; timestamps are rendered in loc.
func BuildRows(entries []listing.Entry, st NavigationState, filter string, linker Linker, loc *time.Location) []Row {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]Row, len(entries))
	for i, e := range entries {
		r := Row{
			Name:         e.Name,
			Label:        e.Name,
			IsDir:        e.IsDir,
			SizeText:     "-",
			ModifiedText: time.Unix(e.ModifiedAt, 0).In(loc).Format(TimeLayout),
			FullPath:     JoinPath(st.CurrentPath, e.Name),
			Visible:      Matches(filter, e.Name),
		}
		if e.IsDir {
			r.Label += "/"
		} else {
			r.SizeText = strconv.FormatInt(e.Size, 10)
			if linker != nil {
				r.DownloadURL = linker.DownloadURL(st.SnapshotID, r.FullPath)
			}
		}
		rows[i] = r
	}
	return rows
}

// refilter recomputes visibility of already-built rows from their names.
func refilter(rows []Row, filter string) {
	for i := range rows {
		rows[i].Visible = Matches(filter, rows[i].Name)
	}
}
