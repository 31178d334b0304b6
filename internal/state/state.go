// Package state persists the run state of a harvest target between invocations.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"harvester/internal/domain"
)

const (
	StateFile           = "state"
	LastErrorFile       = "last_error"
	LastErrorRecordFile = "last_error.record"
)

// RunState is the small record that lets an invocation pick up where the last one stopped.
type RunState struct {
	// Timestamp is the time of the last saved transition. Once HarvestingReady
	// is set it is the completion time of the pass; with InError it is the failure time.
	Timestamp        *time.Time    `json:"timestamp,omitempty"`
	HarvestingReady  bool          `json:"harvesting_ready"`
	InError          bool          `json:"in_error"`
	ResumptionCursor domain.Cursor `json:"resumption_cursor,omitempty"`
}

// Clear resets the state for a fresh pass.
func (s *RunState) Clear() {
	*s = RunState{}
}

// Since returns how long ago Timestamp was, or ok=false when there is none.
func (s *RunState) Since(now time.Time) (elapsed time.Duration, ok bool) {
	if s.Timestamp == nil {
		return 0, false
	}
	return now.Sub(*s.Timestamp), true
}

type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// Load returns the saved state, or an empty state when nothing was saved yet.
func (s *FileStore) Load() (*RunState, error) {
	data, err := os.ReadFile(s.path(StateFile))
	if errors.Is(err, os.ErrNotExist) {
		return &RunState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var st RunState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	return &st, nil
}

func (s *FileStore) Save(st *RunState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := writeFileAtomic(s.path(StateFile), data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// SaveError stores the failure detail and, when known, the record being processed.
func (s *FileStore) SaveError(detail, record string) error {
	if err := writeFileAtomic(s.path(LastErrorFile), []byte(detail+"\n"), 0o644); err != nil {
		return fmt.Errorf("write last error: %w", err)
	}
	if record == "" {
		return removeIfExists(s.path(LastErrorRecordFile))
	}
	if err := writeFileAtomic(s.path(LastErrorRecordFile), []byte(record), 0o644); err != nil {
		return fmt.Errorf("write last error record: %w", err)
	}
	return nil
}

// LastError returns the stored failure detail, empty when there is none.
func (s *FileStore) LastError() (string, error) {
	data, err := os.ReadFile(s.path(LastErrorFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read last error: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) ClearError() error {
	if err := removeIfExists(s.path(LastErrorFile)); err != nil {
		return err
	}
	return removeIfExists(s.path(LastErrorRecordFile))
}

// Reset removes the state and any error detail.
func (s *FileStore) Reset() error {
	if err := removeIfExists(s.path(StateFile)); err != nil {
		return err
	}
	return s.ClearError()
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Chmod(mode); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	// The rename is only durable once the directory entry is flushed.
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
