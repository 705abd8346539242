// Package system is the native engine: it checks against word lists and
// reference dictionaries installed on the machine. Dictionaries are matched
// by their exact file name, so "en_US" and "en-US" are different lookups.
package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sagerenn/spelld/internal/backend"
	"github.com/sagerenn/spelld/internal/wordlist"
)

type Engine struct {
	mu      sync.RWMutex
	dirs    []string
	tag     string
	dict    *wordlist.List
	learned map[string]struct{}
}

// New returns an engine looking for dictionaries in dirs, in order.
func New(dirs ...string) *Engine {
	return &Engine{dirs: dirs, learned: make(map[string]struct{})}
}

var _ backend.Engine = (*Engine)(nil)

func (e *Engine) Kind() backend.Kind {
	return backend.KindNative
}

// SetDictionary loads every vocabulary named tag from src.Dir and the system
// directories and checks against their union. Learned words survive a
// dictionary switch, the way an OS spellchecker keeps its own list.
func (e *Engine) SetDictionary(tag string, src backend.Source) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	var l *wordlist.List
	if len(src.Data) > 0 {
		var err error
		l, err = parseData(tag, src.Data)
		if err != nil {
			return false
		}
	} else {
		dirs := e.searchDirs(src.Dir)
		res := LoadAll(tag, dirs)
		if len(res.Lists) == 0 {
			return false
		}
		l = wordlist.Merge(tag, res.Lists...)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.tag = tag
	e.dict = l
	return true
}

func parseData(tag string, data []byte) (*wordlist.List, error) {
	l, err := wordlist.ParseBundle(tag, data)
	if errors.Is(err, wordlist.ErrNotBundle) {
		l, err = wordlist.ParseText(tag, data)
	}
	if err != nil {
		return nil, err
	}
	if l.Len() == 0 {
		return nil, fmt.Errorf("%s: empty word list", tag)
	}
	return l, nil
}

func (e *Engine) searchDirs(extra string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	dirs := make([]string, 0, len(e.dirs)+1)
	if extra != "" {
		dirs = append(dirs, extra)
	}
	return append(dirs, e.dirs...)
}

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
	return backend.Suggest(word, e.dict.Each)
}

func (e *Engine) GetAvailableDictionaries() []string {
	return Available(e.searchDirs("")...)
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

func (e *Engine) Tag() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tag
}

type Result struct {
	Lists []*wordlist.List
	Errs  []error
}

// LoadAll loads the vocabularies named tag found in dirs: files called
// <tag>.<ext> with a known extension, and every known file inside a <tag>
// subdirectory. Failures are collected, not fatal.
func LoadAll(tag string, dirs []string) Result {
	var res Result
	for _, path := range candidates(tag, dirs) {
		l, err := wordlist.Load(path, "")
		if err != nil {
			res.Errs = append(res.Errs, fmt.Errorf("load %s: %w", path, err))
			continue
		}
		res.Lists = append(res.Lists, l)
	}
	return res
}

func candidates(tag string, dirs []string) []string {
	var out []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, ent := range entries {
			name := ent.Name()
			if ent.IsDir() {
				if name == tag {
					out = append(out, filesIn(filepath.Join(dir, name))...)
				}
				continue
			}
			if stemOf(name) == tag && wordlist.DetectFormat(name) != "" {
				out = append(out, filepath.Join(dir, name))
			}
		}
	}
	return out
}

func filesIn(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, ent := range entries {
		if !ent.IsDir() && wordlist.DetectFormat(ent.Name()) != "" {
			out = append(out, filepath.Join(dir, ent.Name()))
		}
	}
	return out
}

func stemOf(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Available lists the tags with at least one loadable vocabulary in dirs.
func Available(dirs ...string) []string {
	seen := make(map[string]bool)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, ent := range entries {
			name := ent.Name()
			switch {
			case ent.IsDir():
				if len(filesIn(filepath.Join(dir, name))) > 0 {
					seen[name] = true
				}
			case wordlist.DetectFormat(name) != "":
				seen[stemOf(name)] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
