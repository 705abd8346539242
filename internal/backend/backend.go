// Package backend defines the dictionary engine capability the spell-check
// factory drives, and helpers shared by the engine implementations.
package backend

// Kind tells the engine families apart. It is decided when an engine is
// constructed and carried on every checker built from it.
type Kind int

const (
	// KindHunspell engines keep no memory of learned words across restarts;
	// their native add list must be replayed on every load.
	KindHunspell Kind = iota
	// KindNative engines are platform supplied. They can be picky about the
	// spelling of a language tag.
	KindNative
)

func (k Kind) String() string {
	switch k {
	case KindHunspell:
		return "hunspell"
	case KindNative:
		return "native"
	default:
		return "unknown"
	}
}

// Source is where an engine loads a dictionary from: a directory it resolves
// file names in, or raw dictionary content. Data wins when non-empty.
type Source struct {
	Dir  string
	Data []byte
}

// Range is a misspelled span of a checked text, in byte offsets.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Engine is a dictionary engine holding at most one loaded language.
type Engine interface {
	Kind() Kind
	// SetDictionary loads the dictionary for tag and reports success.
	SetDictionary(tag string, src Source) bool
	IsMisspelled(word string) bool
	CheckSpelling(text string) []Range
	GetCorrectionsForMisspelling(word string) []string
	GetAvailableDictionaries() []string
	Add(word string)
	Remove(word string)
	// CheckSpellingAsync checks corpus off the caller's goroutine and calls cb
	// exactly once with either an error or the misspelled ranges.
	CheckSpellingAsync(corpus string, cb func(err error, ranges []Range))
}

// Constructor builds a fresh engine. forceAlternate asks for the engine
// family the platform would not pick by default.
type Constructor func(forceAlternate bool) Engine
