package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gambadio/icon-pelikan/internal/paths"
)

// FileStore implements Store using a flat append-only log file, one
// line per export run.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore that reads and writes the given log file.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Close() error { return nil }

func (f *FileStore) Record(e Entry) error {
	if err := os.MkdirAll(filepath.Dir(f.path), paths.DirPerm); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, paths.FilePerm)
	if err != nil {
		return err
	}
	defer file.Close()

	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err = fmt.Fprintf(file, "%s  kind=%s  source=%q  dest=%q  canvas=%d  shape=%s  result=%q\n",
		ts.Format(time.RFC3339), e.Kind, e.Source, e.Dest, e.CanvasPx, e.Shape, e.Result)
	return err
}

func (f *FileStore) Entries(days int) ([]Entry, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cutoff, hasCutoff := cutoffFor(days)
	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		e, ok := parseLine(line)
		if !ok {
			continue
		}
		if hasCutoff && e.Time.Before(cutoff) {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Time.After(entries[j].Time) })
	return entries, nil
}

func (f *FileStore) Clean(days int) (int, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff, hasCutoff := cutoffFor(days)
	if !hasCutoff {
		return 0, nil
	}

	removed := 0
	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		if e, ok := parseLine(line); ok && e.Time.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	if removed == 0 {
		return 0, nil
	}

	out := strings.Join(kept, "\n")
	if out != "" {
		out += "\n"
	}
	return removed, paths.AtomicWrite(f.path, []byte(out))
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// parseLine parses one log line back into an Entry. Malformed lines
// are skipped (ok=false) rather than failing the whole read.
func parseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}
	fields := strings.Split(line, "  ")
	if len(fields) < 2 {
		return Entry{}, false
	}
	ts, err := time.Parse(time.RFC3339, fields[0])
	if err != nil {
		return Entry{}, false
	}

	e := Entry{Time: ts}
	for _, field := range fields[1:] {
		k, v, found := strings.Cut(field, "=")
		if !found {
			continue
		}
		if strings.HasPrefix(v, `"`) {
			if unq, err := strconv.Unquote(v); err == nil {
				v = unq
			}
		}
		switch k {
		case "kind":
			e.Kind = v
		case "source":
			e.Source = v
		case "dest":
			e.Dest = v
		case "canvas":
			e.CanvasPx, _ = strconv.Atoi(v)
		case "shape":
			e.Shape = v
		case "result":
			e.Result = v
		}
	}
	return e, true
}
