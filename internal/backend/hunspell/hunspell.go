// Package hunspell is the Hunspell-format engine: it loads <tag>.aff and
// <tag>.dic from a dictionary directory, or from a zip bundle held in memory.
package hunspell

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/sagerenn/spelld/internal/backend"
	"github.com/sagerenn/spelld/internal/langtag"
	"github.com/sagerenn/spelld/internal/wordlist"
)

type Engine struct {
	mu      sync.RWMutex
	dirs    []string
	tag     string
	dict    *wordlist.List
	learned map[string]struct{}
}

// New returns an engine with no dictionary loaded. dirs are scanned by
// GetAvailableDictionaries in addition to the directory of the last load.
func New(dirs ...string) *Engine {
	return &Engine{dirs: dirs, learned: make(map[string]struct{})}
}

var _ backend.Engine = (*Engine)(nil)

func (e *Engine) Kind() backend.Kind {
	return backend.KindHunspell
}

// SetDictionary replaces the loaded dictionary. Words added with Add are
// forgotten, as they would be by a fresh Hunspell instance.
func (e *Engine) SetDictionary(tag string, src backend.Source) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	var (
		l   *wordlist.List
		err error
	)
	if len(src.Data) > 0 {
		l, err = wordlist.ParseBundle(tag, src.Data)
	} else {
		l, err = loadDir(src.Dir, tag)
	}
	if err != nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.tag = tag
	e.dict = l
	e.learned = make(map[string]struct{})
	if src.Dir != "" && !contains(e.dirs, src.Dir) {
		e.dirs = append(e.dirs, src.Dir)
	}
	return true
}

// loadDir loads <tag>.aff/.dic from dir, accepting either separator form of
// tag in the file names.
func loadDir(dir, tag string) (*wordlist.List, error) {
	if dir == "" {
		dir = "."
	}
	names := langtag.Forms(tag)
	if u := langtag.Underscore(tag); u != tag && !slices.Contains(names, u) {
		names = append(names, u)
	}
	var firstErr error
	for _, name := range names {
		l, err := wordlist.LoadHunspell(filepath.Join(dir, name+".aff"), filepath.Join(dir, name+".dic"))
		if err == nil {
			return l, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// IsMisspelled reports false when no dictionary is loaded.
func (e *Engine) IsMisspelled(word string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.misspelled(word)
}

func (e *Engine) misspelled(word string) bool {
	if e.dict == nil || strings.TrimSpace(word) == "" {
		return false
	}
	if e.dict.Contains(word) {
		return false
	}
	for _, v := range wordlist.Variants(word) {
		if _, ok := e.learned[v]; ok {
			return false
		}
	}
	return true
}

func (e *Engine) CheckSpelling(text string) []backend.Range {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return backend.CheckWords(text, e.misspelled)
}

func (e *Engine) CheckSpellingAsync(corpus string, cb func(error, []backend.Range)) {
	backend.RunAsync(func() []backend.Range { return e.CheckSpelling(corpus) }, cb)
}

func (e *Engine) GetCorrectionsForMisspelling(word string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.dict == nil {
		return nil
	}
	return backend.Suggest(word, func(fn func(string) bool) {
		stop := false
		e.dict.Each(func(w string) bool {
			if !fn(w) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
		for w := range e.learned {
			if !fn(w) {
				return
			}
		}
	})
}

// GetAvailableDictionaries lists the tags that have both an .aff and a .dic
// file in the known directories.
func (e *Engine) GetAvailableDictionaries() []string {
	e.mu.RLock()
	dirs := append([]string(nil), e.dirs...)
	e.mu.RUnlock()
	return Available(dirs...)
}

func (e *Engine) Add(word string) {
	word = wordlist.Normalize(word)
	if word == "" {
		return
	}
	e.mu.Lock()
	e.learned[word] = struct{}{}
	e.mu.Unlock()
}

func (e *Engine) Remove(word string) {
	word = wordlist.Normalize(word)
	e.mu.Lock()
	delete(e.learned, word)
	e.mu.Unlock()
}

// Tag returns the tag of the loaded dictionary, or "".
func (e *Engine) Tag() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tag
}

// Available lists the Hunspell dictionaries found in dirs.
func Available(dirs ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, ent := range entries {
			name := ent.Name()
			if ent.IsDir() || !strings.EqualFold(filepath.Ext(name), ".dic") {
				continue
			}
			tag := strings.TrimSuffix(name, filepath.Ext(name))
			if _, err := os.Stat(filepath.Join(dir, tag+".aff")); err != nil {
				continue
			}
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
