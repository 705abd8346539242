// Package indexcache stores parsed vocabularies next to their source files
// so large dictionaries are not re-parsed on every start.
package indexcache

import (
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"time"
)

const currentVersion = 2

type Index struct {
	Version     int
	SourcePath  string
	SourceSize  int64
	SourceMtime int64
	Format      string

	Words []string
}

func indexPath(sourcePath string) string {
	return sourcePath + ".spelld.idx"
}

// Load returns the cached word list for sourcePath. ok is false when there
// is no cache, or it was written for another format or an older source.
func Load(sourcePath, format string) (*Index, bool, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, false, err
	}
	f, err := os.Open(indexPath(sourcePath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	dec := gob.NewDecoder(f)
	var idx Index
	if err := dec.Decode(&idx); err != nil {
		return nil, false, err
	}
	if idx.Version != currentVersion || idx.Format != format {
		return nil, false, nil
	}
	if idx.SourceSize != info.Size() || idx.SourceMtime != info.ModTime().UnixNano() {
		return nil, false, nil
	}
	if filepath.Clean(idx.SourcePath) != filepath.Clean(sourcePath) {
		return nil, false, nil
	}
	return &idx, true, nil
}

// Save writes words as the cache for sourcePath. The cache directory may be
// read-only; callers treat errors as advisory.
func Save(sourcePath, format string, words []string) error {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return err
	}
	idx := Index{
		Version:     currentVersion,
		SourcePath:  sourcePath,
		SourceSize:  info.Size(),
		SourceMtime: info.ModTime().UnixNano(),
		Format:      format,
		Words:       words,
	}
	idxPath := indexPath(sourcePath)
	tmp := idxPath + "." + time.Now().Format("20060102150405") + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := gob.NewEncoder(f)
	if err := enc.Encode(&idx); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, idxPath)
}
