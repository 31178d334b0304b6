// Package journal records what a harvest pass did to the sink.
//
// A journal is two append-only files in the state directory. "current" collects
// the events of the pass in progress, "previous" holds the events of the last
// completed pass. Each line is
//
//	identifier<TAB>A|D<TAB>fingerprint
//
// and the latest line for an identifier wins. Completing a pass renames current
// over previous, so a crash at any point leaves one of the two fully valid.
package journal

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	CurrentFile  = "current"
	PreviousFile = "previous"
)

var (
	ErrCorrupt           = errors.New("corrupt journal")
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

type Action string

const (
	ActionAdd    Action = "A"
	ActionDelete Action = "D"
)

// Entry is one journaled event. Fingerprint is empty for deletes.
type Entry struct {
	Identifier  string
	Action      Action
	Fingerprint string
}

type Journal struct {
	dir          string
	currentPath  string
	previousPath string

	previous map[string]Entry
	current  map[string]Entry
	file     *os.File
}

// Open loads the previous pass from dir. No pass is open until MarkHarvestStart.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	j := &Journal{
		dir:          dir,
		currentPath:  filepath.Join(dir, CurrentFile),
		previousPath: filepath.Join(dir, PreviousFile),
	}
	if err := j.readPrevious(); err != nil {
		return nil, err
	}
	return j, nil
}

// HasOpenPass reports whether MarkHarvestStart was called and the pass is not sealed yet.
func (j *Journal) HasOpenPass() bool {
	return j.file != nil
}

// HasPendingPass reports whether a current sequence exists on disk, i.e. a pass
// was started by this or an earlier process and never sealed.
func (j *Journal) HasPendingPass() (bool, error) {
	if j.file != nil {
		return true, nil
	}
	_, err := os.Stat(j.currentPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat current journal: %w", err)
	}
	return true, nil
}

// MarkHarvestStart opens the current sequence, creating it when absent.
// An existing sequence left by a crashed run is kept and extended.
func (j *Journal) MarkHarvestStart() error {
	if j.file != nil {
		return nil
	}
	if err := truncatePartialLine(j.currentPath); err != nil {
		return fmt.Errorf("repair current journal: %w", err)
	}
	current, err := readEntries(j.currentPath)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(j.currentPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open current journal: %w", err)
	}
	j.file = f
	j.current = current
	return nil
}

func (j *Journal) MarkAdded(identifier, fingerprint string) error {
	return j.markEvent(Entry{Identifier: identifier, Action: ActionAdd, Fingerprint: fingerprint})
}

func (j *Journal) MarkDeleted(identifier string) error {
	return j.markEvent(Entry{Identifier: identifier, Action: ActionDelete})
}

// markEvent appends e and syncs the file before returning.
// ValidIdentifier reports whether identifier can be journaled: it must be
// non-empty and free of tabs and line breaks.
func ValidIdentifier(identifier string) bool {
	return identifier != "" && !strings.ContainsAny(identifier, "\t\r\n")
}

func (j *Journal) markEvent(e Entry) error {
	if j.file == nil {
		panic("journal: event marked without an open pass")
	}
	if !ValidIdentifier(e.Identifier) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, e.Identifier)
	}
	line := e.Identifier + "\t" + string(e.Action) + "\t" + e.Fingerprint + "\n"
	if _, err := j.file.WriteString(line); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("sync current journal: %w", err)
	}
	j.current[e.Identifier] = e
	return nil
}

// AlreadyAdded reports whether identifier was last added with the same fingerprint,
// looking at the open pass first and the previous pass second.
func (j *Journal) AlreadyAdded(identifier, fingerprint string) bool {
	e, ok := j.lookup(identifier)
	return ok && e.Action == ActionAdd && e.Fingerprint == fingerprint
}

// AlreadyDeleted reports whether the latest action for identifier is a delete.
func (j *Journal) AlreadyDeleted(identifier string) bool {
	e, ok := j.lookup(identifier)
	return ok && e.Action == ActionDelete
}

func (j *Journal) lookup(identifier string) (Entry, bool) {
	if e, ok := j.current[identifier]; ok {
		return e, true
	}
	e, ok := j.previous[identifier]
	return e, ok
}

// RemainingAdds yields, in ascending order, every identifier whose latest action
// across previous then current is an add.
func (j *Journal) RemainingAdds() (iter.Seq[string], error) {
	current, err := j.currentEntries()
	if err != nil {
		return nil, err
	}
	merged := make(map[string]Entry, len(j.previous)+len(current))
	for id, e := range j.previous {
		merged[id] = e
	}
	for id, e := range current {
		merged[id] = e
	}

	var ids []string
	for id, e := range merged {
		if e.Action == ActionAdd {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return slices.Values(ids), nil
}

// ToBeDeleted yields, in ascending order, identifiers added in the previous pass
// that do not occur in the current one. Only meaningful once the source is exhausted.
func (j *Journal) ToBeDeleted() (iter.Seq[string], error) {
	pending, err := j.HasPendingPass()
	if err != nil {
		return nil, err
	}
	if !pending {
		return slices.Values([]string(nil)), nil
	}
	current, err := j.currentEntries()
	if err != nil {
		return nil, err
	}

	var ids []string
	for id, e := range j.previous {
		if e.Action != ActionAdd {
			continue
		}
		if _, seen := current[id]; seen {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Values(ids), nil
}

// MarkHarvestReady seals the open pass: current replaces previous in one rename.
func (j *Journal) MarkHarvestReady() error {
	if j.file == nil {
		panic("journal: pass sealed without being started")
	}
	if err := j.file.Close(); err != nil {
		return fmt.Errorf("close current journal: %w", err)
	}
	j.file = nil
	j.current = nil
	if err := os.Rename(j.currentPath, j.previousPath); err != nil {
		return fmt.Errorf("seal journal: %w", err)
	}
	if err := syncDir(j.dir); err != nil {
		return fmt.Errorf("sync state dir: %w", err)
	}
	return j.readPrevious()
}

// Reset forgets both passes. The next pass starts without any history.
func (j *Journal) Reset() error {
	if err := j.Close(); err != nil {
		return err
	}
	for _, path := range []string{j.currentPath, j.previousPath} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove journal: %w", err)
		}
	}
	j.previous = map[string]Entry{}
	j.current = nil
	return nil
}

// Close releases the current file. An open pass stays on disk and is resumed
// by the next MarkHarvestStart.
func (j *Journal) Close() error {
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	j.current = nil
	return err
}

func (j *Journal) readPrevious() error {
	previous, err := readEntries(j.previousPath)
	if err != nil {
		return err
	}
	j.previous = previous
	return nil
}

func (j *Journal) currentEntries() (map[string]Entry, error) {
	if j.file != nil {
		return j.current, nil
	}
	return readEntries(j.currentPath)
}

// readEntries replays a journal file into a latest-action-per-identifier index.
// A missing file is an empty journal; an unterminated last line is a torn write and is ignored.
func readEntries(path string) (map[string]Entry, error) {
	entries := map[string]Entry{}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for lineNo := 1; ; lineNo++ {
		line, err := r.ReadString('\n')
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read journal %s: %w", filepath.Base(path), err)
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := parseEntry(line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), lineNo, err)
		}
		entries[e.Identifier] = e
	}
}

func parseEntry(line string) (Entry, error) {
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) < 2 || fields[0] == "" {
		return Entry{}, fmt.Errorf("%w: %q", ErrCorrupt, line)
	}
	e := Entry{Identifier: fields[0], Action: Action(fields[1])}
	if len(fields) == 3 {
		e.Fingerprint = fields[2]
	}
	switch e.Action {
	case ActionAdd:
	case ActionDelete:
		e.Fingerprint = ""
	default:
		return Entry{}, fmt.Errorf("%w: unknown action %q", ErrCorrupt, fields[1])
	}
	return e, nil
}

// truncatePartialLine cuts an unterminated trailing line so new appends start on a fresh line.
func truncatePartialLine(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size == 0 {
		return nil
	}

	buf := make([]byte, 4096)
	end := size
	for end > 0 {
		start := max(end-int64(len(buf)), 0)
		chunk := buf[:end-start]
		if _, err := f.ReadAt(chunk, start); err != nil && err != io.EOF {
			return err
		}
		if end == size && chunk[len(chunk)-1] == '\n' {
			return nil
		}
		if i := bytes.LastIndexByte(chunk, '\n'); i >= 0 {
			return truncate(f, start+int64(i)+1)
		}
		end = start
	}
	return truncate(f, 0)
}

func truncate(f *os.File, size int64) error {
	if err := f.Truncate(size); err != nil {
		return err
	}
	return f.Sync()
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
