// Package history records export runs: when an icon was generated,
// from what source, with what parameters, and how it ended. It is a
// log, not an undo stack — recording is best-effort and must never
// mask the export result.
package history

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gambadio/icon-pelikan/internal/paths"
)

// Entry is a single recorded export run.
type Entry struct {
	Time     time.Time
	Kind     string // "png" (direct save) or "icns" (container export)
	Source   string // source image path
	Dest     string // written output path
	CanvasPx int
	Shape    string
	Result   string // "ok" or the error text
}

// OK reports whether the run succeeded.
func (e Entry) OK() bool { return e.Result == "ok" }

// Store abstracts history storage. FileStore appends to a flat log
// file; SQLiteStore keeps a queryable database.
type Store interface {
	Record(e Entry) error
	Entries(days int) ([]Entry, error) // newest first, 0 = all
	Clean(days int) (int, error)       // remove entries older than days, return removed count
	Clear() error
	Path() string
	Close() error
}

// Open returns the store for the configured backend ("file", "sqlite"
// or "off"), placed in the app data directory. "off" yields a nil
// store; callers skip recording entirely.
func Open(backend string) (Store, error) {
	switch backend {
	case "", "file":
		return NewFileStore(filepath.Join(paths.DataDir(), paths.HistoryFileName)), nil
	case "sqlite":
		return NewSQLiteStore(filepath.Join(paths.DataDir(), paths.HistoryDBName))
	case "off":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q (want file, sqlite or off)", backend)
	}
}

// cutoffFor converts a day count to the matching cutoff instant; zero
// days means no cutoff.
func cutoffFor(days int) (time.Time, bool) {
	if days <= 0 {
		return time.Time{}, false
	}
	return time.Now().AddDate(0, 0, -days), true
}
