package userdict

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sagerenn/spelld/internal/observability"
)

// scheduleWriteLocked snapshots the dictionary and writes it in the
// background. Writes carry a version so an older snapshot never replaces a
// newer file. Failures are logged and dropped.
func (s *Store) scheduleWriteLocked() {
	s.version++
	v := s.version
	path := s.filePathLocked()
	data, err := json.MarshalIndent(s.snapshotLocked(), "", "  ")
	if err != nil {
		s.log.Debug("user dictionary encode failed", "error", err)
		return
	}
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		if v <= s.written {
			return
		}
		s.written = v
		observability.UserDictWrites.Add(1)
		if err := WriteFileAtomic(path, data); err != nil {
			observability.UserDictWriteErrors.Add(1)
			s.log.Debug("user dictionary write failed", "path", path, "error", err)
		}
	}()
}

// Wait blocks until background writes started so far have finished.
func (s *Store) Wait() {
	s.writes.Wait()
}

// WriteFileAtomic replaces path with data through a temp file in the same
// directory, creating the directory if needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
