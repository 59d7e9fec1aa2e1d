// Package atomicio implements the write-temp-then-replace pattern every
// persisted scanner file uses: .monitor_state.json, .ci_history.json,
// .cfda_tracker.json, packet_state/*.json, and the change-detector
// snapshot. Grounded on the teacher's artifacts.FileStore.Store, which
// applies the same temp-file-then-rename shape for its content-addressed
// blobs.
package atomicio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFailure wraps any error from the temp-write or replace step. The
// caller sees an error; the temp file is always removed on failure, so
// writes are all-or-nothing.
type WriteFailure struct {
	Path string
	Err  error
}

func (e *WriteFailure) Error() string { return fmt.Sprintf("atomic write %s: %v", e.Path, e.Err) }
func (e *WriteFailure) Unwrap() error { return e.Err }

// WriteFile writes data to path via a sibling temp file, fsyncs it, then
// renames it over path. On any failure the temp file is removed and a
// *WriteFailure is returned.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteFailure{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &WriteFailure{Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &WriteFailure{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &WriteFailure{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &WriteFailure{Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return &WriteFailure{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &WriteFailure{Path: path, Err: err}
	}
	return nil
}

// WriteJSON encodes v as indented JSON and writes it atomically to path.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &WriteFailure{Path: path, Err: err}
	}
	return WriteFile(path, data, 0o644)
}

// ReadJSONOrDefault reads path and decodes it into v. If the file is
// missing or unparseable (CacheCorruption per spec.md §7), it logs nothing
// itself (the caller logs, since only the caller knows the field name to
// report) and leaves v untouched, returning ok=false so the caller can
// apply its own empty default.
func ReadJSONOrDefault(path string, v any) (ok bool, err error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return false, nil
		}
		return false, nil
	}
	if jsonErr := json.Unmarshal(data, v); jsonErr != nil {
		return false, nil
	}
	return true, nil
}
