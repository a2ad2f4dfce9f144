package listing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// Entry is one child of a listed directory.
type Entry struct {
	Name       string
	IsDir      bool
	Size       int64 // bytes; meaningful for files only
	ModifiedAt int64 // Unix seconds
}

// wireEntry mirrors a listing record as the backend sends it. Pointers tell
// a missing field apart from its zero value.
type wireEntry struct {
	Name        *string  `json:"name"`
	IsDir       *bool    `json:"is_dir"`
	IsDirectory *bool    `json:"isDirectory"`
	Size        *int64   `json:"size"`
	MTime       *float64 `json:"mtime"`
	ModifiedAt  *float64 `json:"modifiedAt"`
}

func (w wireEntry) entry() (Entry, bool) {
	if w.Name == nil || *w.Name == "" || strings.Contains(*w.Name, "/") {
		return Entry{}, false
	}
	dir := w.IsDir
	if dir == nil {
		dir = w.IsDirectory
	}
	if dir == nil {
		return Entry{}, false
	}
	mt := w.MTime
	if mt == nil {
		mt = w.ModifiedAt
	}
	if mt == nil || math.IsNaN(*mt) || math.IsInf(*mt, 0) {
		return Entry{}, false
	}
	e := Entry{Name: *w.Name, IsDir: *dir, ModifiedAt: int64(math.Floor(*mt))}
	// directories may omit their size
	switch {
	case w.Size == nil && !e.IsDir:
		return Entry{}, false
	case w.Size != nil && *w.Size < 0:
		return Entry{}, false
	case w.Size != nil:
		e.Size = *w.Size
	}
	return e, true
}

// DecodeListing reads a JSON array of listing records. Records that lack a
// usable name, directory flag or modification time, files without a size,
// and records with a negative size are skipped and counted in dropped; the
// rest keep their order. A body that is not exactly one array is an error.
func DecodeListing(r io.Reader) (entries []Entry, dropped int, err error) {
	var raw []json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("decode listing: %w", err)
	}
	if raw == nil {
		return nil, 0, errors.New("decode listing: body is null, want an array")
	}
	if dec.More() {
		return nil, 0, errors.New("decode listing: trailing data after array")
	}
	entries = make([]Entry, 0, len(raw))
	for _, msg := range raw {
		var w wireEntry
		if err := json.Unmarshal(msg, &w); err != nil {
			dropped++
			continue
		}
		e, ok := w.entry()
		if !ok {
			dropped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, dropped, nil
}
