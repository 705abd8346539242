package spellcheck

import (
	"github.com/sagerenn/spelld/internal/backend"
	"github.com/sagerenn/spelld/internal/userdict"
)

// Checker is a loaded engine for one language with the user dictionary
// layered over it. A Factory hands out one Checker per language.
type Checker struct {
	lang   string
	tag    string
	kind   backend.Kind
	engine backend.Engine
	store  *userdict.Store

	// learnedOverridesNative is set for native engines that do not honour
	// their own add list; the user dictionary then decides.
	learnedOverridesNative bool
}

func newChecker(lang, tag string, engine backend.Engine, store *userdict.Store, platform string) *Checker {
	c := &Checker{
		lang:   lang,
		tag:    tag,
		kind:   engine.Kind(),
		engine: engine,
		store:  store,
	}
	c.learnedOverridesNative = c.kind == backend.KindNative && nativeIgnoresAddList(platform)
	store.Ensure(lang)
	if c.kind == backend.KindHunspell {
		for _, w := range store.Words(lang) {
			engine.Add(w)
		}
	}
	return c
}

func nativeIgnoresAddList(platform string) bool {
	return platform == "windows"
}

// Lang is the language the Checker was requested for.
func (c *Checker) Lang() string { return c.lang }

// Tag is the tag spelling the engine accepted, which may use the other
// separator than Lang.
func (c *Checker) Tag() string { return c.tag }

func (c *Checker) Kind() backend.Kind { return c.kind }

func (c *Checker) Engine() backend.Engine { return c.engine }

func (c *Checker) IsMisspelled(word string) bool {
	if c.learnedOverridesNative {
		return c.engine.IsMisspelled(word) && !c.store.Has(c.lang, word)
	}
	return c.engine.IsMisspelled(word)
}

func (c *Checker) CheckSpelling(text string) []backend.Range {
	return c.engine.CheckSpelling(text)
}

func (c *Checker) GetCorrectionsForMisspelling(word string) []string {
	return c.engine.GetCorrectionsForMisspelling(word)
}

func (c *Checker) GetAvailableDictionaries() []string {
	return c.engine.GetAvailableDictionaries()
}

// Add teaches word to the engine and records it in the user dictionary.
func (c *Checker) Add(word string) {
	c.engine.Add(word)
	c.store.Add(c.lang, word)
}

func (c *Checker) Remove(word string) {
	c.engine.Remove(word)
	c.store.Remove(c.lang, word)
}

// IsLearned reports whether word is in the user dictionary for this
// language, whatever the engine thinks of it.
func (c *Checker) IsLearned(word string) bool {
	return c.store.Has(c.lang, word)
}

// CheckSpellingAsync checks corpus on the engine's own schedule.
func (c *Checker) CheckSpellingAsync(corpus string) *Future[[]backend.Range] {
	return bridge(func(cb func(error, []backend.Range)) {
		c.engine.CheckSpellingAsync(corpus, cb)
	})
}

func (c *Checker) applyChange(ch userdict.Change) {
	if c.kind != backend.KindHunspell {
		return
	}
	for _, w := range ch.Added {
		c.engine.Add(w)
	}
	for _, w := range ch.Removed {
		c.engine.Remove(w)
	}
}
