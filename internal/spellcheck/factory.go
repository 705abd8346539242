// Package spellcheck hands out spell checkers per language. A Factory picks
// an engine with fallback between engines and tag spellings, caches the
// outcome (failures included), and layers a persistent user dictionary over
// every checker it returns.
package spellcheck

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sagerenn/spelld/internal/backend"
	"github.com/sagerenn/spelld/internal/langtag"
	"github.com/sagerenn/spelld/internal/locator"
	"github.com/sagerenn/spelld/internal/observability"
	"github.com/sagerenn/spelld/internal/userdict"
)

type Option func(*options)

type options struct {
	dictDir         string
	archiveSuffixes []string
	userDictDir     string
	bootstrapWord   *string
	detector        Detector
	platform        string
	log             *observability.Logger
}

// WithDictionaryDir sets where bundled dictionaries live. A path inside an
// archive (by default "*.asar") is swapped for its unpacked sibling when
// that exists.
func WithDictionaryDir(dir string, archiveSuffixes ...string) Option {
	return func(o *options) {
		o.dictDir = dir
		o.archiveSuffixes = archiveSuffixes
	}
}

func WithUserDictionaryDir(dir string) Option {
	return func(o *options) { o.userDictDir = dir }
}

func WithBootstrapWord(word string) Option {
	return func(o *options) { o.bootstrapWord = &word }
}

func WithDetector(d Detector) Option {
	return func(o *options) { o.detector = d }
}

// WithPlatform overrides the GOOS used for platform quirks.
func WithPlatform(goos string) Option {
	return func(o *options) { o.platform = goos }
}

func WithLogger(log *observability.Logger) Option {
	return func(o *options) { o.log = log }
}

type Factory struct {
	newEngine backend.Constructor
	locator   *locator.Locator
	store     *userdict.Store
	detector  Detector
	platform  string
	log       *observability.Logger

	mu       sync.Mutex
	checkers map[string]*Checker
	data     map[string][]byte
	group    singleflight.Group
}

// New returns a Factory building engines with newEngine.
func New(newEngine backend.Constructor, opts ...Option) *Factory {
	o := options{dictDir: ".", userDictDir: ".", platform: runtime.GOOS}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log.OrDiscard()
	storeOpts := []userdict.Option{userdict.WithLogger(log.With("component", "userdict"))}
	if o.bootstrapWord != nil {
		storeOpts = append(storeOpts, userdict.WithBootstrapWord(*o.bootstrapWord))
	}
	f := &Factory{
		newEngine: newEngine,
		locator:   locator.New(o.dictDir, o.archiveSuffixes...),
		store:     userdict.NewStore(o.userDictDir, storeOpts...),
		detector:  o.detector,
		platform:  o.platform,
		log:       log,
		checkers:  make(map[string]*Checker),
		data:      make(map[string][]byte),
	}
	f.store.Watch(f.syncEngines)
	return f
}

// GetSpellChecker returns the Checker for lang, or nil when no engine can
// load it. Both outcomes are cached: the same Checker comes back on every
// call, and a failed language is not retried until ClearCache.
func (f *Factory) GetSpellChecker(lang string) *Checker {
	if c, ok := f.cached(lang); ok {
		observability.CheckerCacheHits.Add(1)
		return c
	}
	v, _, _ := f.group.Do(lang, func() (any, error) {
		if c, ok := f.cached(lang); ok {
			return c, nil
		}
		observability.CheckerCacheMisses.Add(1)
		c := f.resolve(lang)
		f.mu.Lock()
		f.checkers[lang] = c
		f.mu.Unlock()
		return c, nil
	})
	c, _ := v.(*Checker)
	return c
}

func (f *Factory) cached(lang string) (*Checker, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.checkers[lang]
	return c, ok
}

// resolve tries the primary engine, then a forced alternate engine. A
// native engine is also offered the other separator spelling of lang; a
// Hunspell engine is not, since its failures are not about spelling.
func (f *Factory) resolve(lang string) *Checker {
	for _, force := range []bool{false, true} {
		engine := f.newEngine(force)
		if engine == nil {
			continue
		}
		tags := []string{lang}
		if engine.Kind() != backend.KindHunspell {
			tags = langtag.Forms(lang)
		}
		for _, tag := range tags {
			observability.DictionaryLoadAttempts.Add(1)
			if engine.SetDictionary(tag, f.source(tag)) {
				f.log.Debug("dictionary loaded", "lang", lang, "tag", tag, "engine", engine.Kind().String())
				return newChecker(lang, tag, engine, f.store, f.platform)
			}
		}
	}
	observability.DictionaryLoadFailures.Add(1)
	f.log.Info("no dictionary for language", "lang", lang)
	return nil
}

func (f *Factory) source(tag string) backend.Source {
	f.mu.Lock()
	data := f.data[tag]
	f.mu.Unlock()
	if len(data) > 0 {
		return backend.Source{Data: data}
	}
	return backend.Source{Dir: f.GetDictionaryPath()}
}

// ClearCache forgets languages that failed to load so the next request
// retries them. Loaded checkers are kept.
func (f *Factory) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for lang, c := range f.checkers {
		if c == nil {
			delete(f.checkers, lang)
		}
	}
}

// GetDictionaryPath returns the directory engines load dictionaries from.
func (f *Factory) GetDictionaryPath() string {
	return f.locator.ResolveDictionaryDirectory()
}

func (f *Factory) SetUserDictionaryPath(dir string) {
	f.store.SetPath(dir)
}

func (f *Factory) GetUserDictionaryPath() string {
	return f.store.Path()
}

// SetUserDictProvider moves user dictionary persistence to p, or back to
// the local file when p is nil.
func (f *Factory) SetUserDictProvider(ctx context.Context, p userdict.Provider) {
	f.store.SetProvider(ctx, p)
}

// UserDictionary exposes the store shared by this Factory's checkers.
func (f *Factory) UserDictionary() *userdict.Store {
	return f.store
}

// SetDictionaryData registers in-memory dictionary content for tag. It is
// used instead of the dictionary directory for that exact tag spelling.
func (f *Factory) SetDictionaryData(tag string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(data) == 0 {
		delete(f.data, tag)
		return
	}
	f.data[tag] = append([]byte(nil), data...)
}

// AvailableDictionaries lists the tags the engines report as installed,
// plus tags registered with SetDictionaryData.
func (f *Factory) AvailableDictionaries() []string {
	seen := make(map[string]bool)
	for _, force := range []bool{false, true} {
		if e := f.newEngine(force); e != nil {
			for _, tag := range e.GetAvailableDictionaries() {
				seen[tag] = true
			}
		}
	}
	f.mu.Lock()
	for tag := range f.data {
		seen[tag] = true
	}
	f.mu.Unlock()
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// DownloadURL is where the dictionary for lang can be fetched.
func (f *Factory) DownloadURL(lang string) string {
	return locator.DownloadURL(lang, "")
}

// Wait blocks until pending user dictionary writes finish.
func (f *Factory) Wait() {
	f.store.Wait()
}

func (f *Factory) syncEngines(changes []userdict.Change) {
	for _, ch := range changes {
		if c, _ := f.cached(ch.Lang); c != nil {
			c.applyChange(ch)
		}
	}
}
