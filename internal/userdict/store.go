// Package userdict keeps the words a user taught the spellchecker, per
// language. A Store persists either through a Provider or, when none is
// attached, to a JSON file in its directory.
package userdict

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sagerenn/spelld/internal/observability"
	"github.com/sagerenn/spelld/internal/wordlist"
)

const (
	FileName             = "user-dictionary.json"
	DefaultBootstrapWord = "spelld"
)

// Change describes how one language's words moved when a provider replaced
// the dictionary.
type Change struct {
	Lang    string
	Added   []string
	Removed []string
}

type Option func(*Store)

func WithLogger(log *observability.Logger) Option {
	return func(s *Store) { s.log = log.OrDiscard() }
}

// WithBootstrapWord sets the word every new language entry starts with.
// An empty word starts languages empty.
func WithBootstrapWord(word string) Option {
	return func(s *Store) { s.bootstrap = wordlist.Normalize(word) }
}

type Store struct {
	mu        sync.Mutex
	dir       string
	bootstrap string
	words     map[string]map[string]struct{}
	ensured   map[string]struct{}
	loaded    bool

	provider    Provider
	providerGen uint64
	pushes      uint64
	unsubscribe func()

	nextListener int
	listeners    map[int]func([]Change)

	version uint64
	writeMu sync.Mutex
	written uint64
	writes  sync.WaitGroup

	log *observability.Logger
}

// NewStore returns a store persisting to dir/FileName. The file is read on
// first use, not here.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:       dir,
		bootstrap: DefaultBootstrapWord,
		words:     make(map[string]map[string]struct{}),
		ensured:   make(map[string]struct{}),
		listeners: make(map[int]func([]Change)),
		log:       observability.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir
}

// SetPath points file persistence at dir. Words already in memory are kept
// and land in the new file on the next change; a store that has not read
// its file yet will read it from dir.
func (s *Store) SetPath(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir = dir
}

// FilePath returns where the file mode writes.
func (s *Store) FilePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filePathLocked()
}

func (s *Store) filePathLocked() string {
	return filepath.Join(s.dir, FileName)
}

// Ensure creates lang's entry, holding the bootstrap word, if it is missing.
// In file mode the new entry is written with the next change; a provider
// is told about the bootstrap word right away.
func (s *Store) Ensure(lang string) {
	s.mu.Lock()
	s.loadLocked()
	s.ensured[lang] = struct{}{}
	created := s.ensureLocked(lang)
	p := s.provider
	s.mu.Unlock()

	if created && p != nil && s.bootstrap != "" {
		if err := p.Add(context.Background(), lang, s.bootstrap); err != nil {
			s.log.Warn("user dictionary provider add failed", "lang", lang, "error", err)
		}
	}
}

func (s *Store) ensureLocked(lang string) bool {
	if _, ok := s.words[lang]; ok {
		return false
	}
	set := make(map[string]struct{})
	if s.bootstrap != "" {
		set[s.bootstrap] = struct{}{}
	}
	s.words[lang] = set
	return true
}

func (s *Store) Has(lang, word string) bool {
	word = wordlist.Normalize(word)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	_, ok := s.words[lang][word]
	return ok
}

// Words returns lang's words sorted.
func (s *Store) Words(lang string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return sortedSet(s.words[lang])
}

// Snapshot returns a copy of the whole dictionary.
func (s *Store) Snapshot() Dictionary {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Dictionary {
	d := make(Dictionary, len(s.words))
	for lang, set := range s.words {
		d[lang] = sortedSet(set)
	}
	return d
}

// Add records word for lang and persists the change. It reports whether
// the word was new.
func (s *Store) Add(lang, word string) bool {
	word = wordlist.Normalize(word)
	if word == "" {
		return false
	}
	s.mu.Lock()
	s.loadLocked()
	s.ensureLocked(lang)
	_, had := s.words[lang][word]
	s.words[lang][word] = struct{}{}
	p := s.provider
	if p == nil {
		s.scheduleWriteLocked()
	}
	s.mu.Unlock()

	if p != nil {
		if err := p.Add(context.Background(), lang, word); err != nil {
			s.log.Warn("user dictionary provider add failed", "lang", lang, "error", err)
		}
	}
	return !had
}

// Remove forgets word for lang and persists the change. It reports whether
// the word was present.
func (s *Store) Remove(lang, word string) bool {
	word = wordlist.Normalize(word)
	s.mu.Lock()
	s.loadLocked()
	_, had := s.words[lang][word]
	delete(s.words[lang], word)
	p := s.provider
	if p == nil {
		s.scheduleWriteLocked()
	}
	s.mu.Unlock()

	if p != nil {
		if err := p.Remove(context.Background(), lang, word); err != nil {
			s.log.Warn("user dictionary provider remove failed", "lang", lang, "error", err)
		}
	}
	return had
}

// SetProvider switches persistence to p, detaching the previous provider's
// listener. The dictionary is replaced by p's copy. A nil p returns the
// store to file mode with the current words.
func (s *Store) SetProvider(ctx context.Context, p Provider) {
	s.mu.Lock()
	old := s.unsubscribe
	s.provider = p
	s.providerGen++
	gen := s.providerGen
	s.unsubscribe = nil
	s.mu.Unlock()
	if old != nil {
		old()
	}
	if p == nil {
		return
	}

	// Subscribe before loading so nothing published in between is missed.
	unsub := p.Subscribe(func(d Dictionary) { s.replace(gen, d, nil) })
	s.mu.Lock()
	pushes := s.pushes
	if s.providerGen == gen {
		s.unsubscribe = unsub
		unsub = nil
	}
	s.mu.Unlock()
	if unsub != nil {
		unsub()
		return
	}

	d, err := p.Load(ctx)
	if err != nil {
		s.log.Warn("user dictionary provider load failed", "error", err)
		return
	}
	s.replace(gen, d, &pushes)
}

// Provider returns the attached provider, or nil in file mode.
func (s *Store) Provider() Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}

// replace installs d from provider generation gen. A loaded copy (seen set)
// is dropped when the provider pushed an update after seen was taken.
func (s *Store) replace(gen uint64, d Dictionary, seen *uint64) {
	s.mu.Lock()
	if s.providerGen != gen || s.provider == nil || (seen != nil && s.pushes != *seen) {
		s.mu.Unlock()
		return
	}
	if seen == nil {
		s.pushes++
	}
	next := make(map[string]map[string]struct{}, len(d))
	for lang, words := range d {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			if w = wordlist.Normalize(w); w != "" {
				set[w] = struct{}{}
			}
		}
		next[lang] = set
	}
	prev := s.words
	s.words = next
	s.loaded = true
	for lang := range s.ensured {
		s.ensureLocked(lang)
	}
	changes := diff(prev, s.words)
	listeners := make([]func([]Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	if len(changes) == 0 {
		return
	}
	for _, fn := range listeners {
		fn(changes)
	}
}

// Watch registers fn for provider-driven changes. The returned func
// detaches it.
func (s *Store) Watch(fn func([]Change)) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func diff(prev, next map[string]map[string]struct{}) []Change {
	langs := make(map[string]struct{}, len(prev)+len(next))
	for l := range prev {
		langs[l] = struct{}{}
	}
	for l := range next {
		langs[l] = struct{}{}
	}
	var out []Change
	for lang := range langs {
		c := Change{Lang: lang}
		for w := range next[lang] {
			if _, ok := prev[lang][w]; !ok {
				c.Added = append(c.Added, w)
			}
		}
		for w := range prev[lang] {
			if _, ok := next[lang][w]; !ok {
				c.Removed = append(c.Removed, w)
			}
		}
		if len(c.Added) > 0 || len(c.Removed) > 0 {
			sort.Strings(c.Added)
			sort.Strings(c.Removed)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lang < out[j].Lang })
	return out
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// loadLocked reads the file once. A missing or broken file leaves the
// dictionary empty.
func (s *Store) loadLocked() {
	if s.loaded || s.provider != nil {
		return
	}
	s.loaded = true
	path := s.filePathLocked()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Debug("user dictionary read failed", "path", path, "error", err)
		}
		return
	}
	var d Dictionary
	if err := json.Unmarshal(data, &d); err != nil {
		s.log.Debug("user dictionary parse failed", "path", path, "error", err)
		return
	}
	for lang, words := range d.Clone() {
		set := s.words[lang]
		if set == nil {
			set = make(map[string]struct{}, len(words))
			s.words[lang] = set
		}
		for _, w := range words {
			set[w] = struct{}{}
		}
	}
}
