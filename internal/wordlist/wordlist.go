// Package wordlist loads the vocabularies spell-check engines look words up
// in. A vocabulary can come from a Hunspell .dic/.aff pair, a plain word
// list, or the headwords of a reference dictionary (StarDict, MDict, DSL).
package wordlist

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Format names accepted by Load and reported by DetectFormat.
const (
	FormatDic      = "dic"
	FormatText     = "txt"
	FormatTSV      = "tsv"
	FormatJSON     = "json"
	FormatDSL      = "dsl"
	FormatStardict = "stardict"
	FormatMdict    = "mdict"
)

// List is an immutable set of words.
type List struct {
	name  string
	words map[string]struct{}
}

// New builds a List from words. Empty entries are skipped and every word is
// stored in NFC form.
func New(name string, words []string) *List {
	l := &List{name: name, words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = Normalize(w)
		if w == "" {
			continue
		}
		l.words[w] = struct{}{}
	}
	return l
}

// Merge returns a List holding the union of lists.
func Merge(name string, lists ...*List) *List {
	n := 0
	for _, l := range lists {
		if l != nil {
			n += len(l.words)
		}
	}
	out := &List{name: name, words: make(map[string]struct{}, n)}
	for _, l := range lists {
		if l == nil {
			continue
		}
		for w := range l.words {
			out.words[w] = struct{}{}
		}
	}
	return out
}

func (l *List) Name() string {
	return l.name
}

func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}

// Has reports whether word is in the list exactly as given (after NFC).
func (l *List) Has(word string) bool {
	if l == nil {
		return false
	}
	_, ok := l.words[Normalize(word)]
	return ok
}

// Contains reports whether word is spelled correctly according to the list,
// following the usual dictionary capitalisation rules: a capitalised or
// all-caps form of a listed lower-case word is accepted, the reverse is not.
func (l *List) Contains(word string) bool {
	if l == nil {
		return false
	}
	for _, v := range Variants(word) {
		if _, ok := l.words[v]; ok {
			return true
		}
	}
	return false
}

// Words returns the list contents sorted.
func (l *List) Words() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.words))
	for w := range l.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Each calls fn for every word until fn returns false.
func (l *List) Each(fn func(string) bool) {
	if l == nil {
		return
	}
	for w := range l.words {
		if !fn(w) {
			return
		}
	}
}

// Normalize trims word and converts it to NFC.
func Normalize(word string) string {
	return norm.NFC.String(strings.TrimSpace(word))
}

// Variants returns the spellings of word to probe, most specific first.
func Variants(word string) []string {
	w := Normalize(word)
	if w == "" {
		return nil
	}
	out := []string{w}
	lower := strings.ToLower(w)
	switch {
	case isAllUpper(w):
		if lower != w {
			out = append(out, lower)
		}
		if t := title(lower); t != w && t != lower {
			out = append(out, t)
		}
	case isTitle(w):
		if lower != w {
			out = append(out, lower)
		}
	}
	return out
}

func isAllUpper(w string) bool {
	letters := 0
	for _, r := range w {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters > 1
}

func isTitle(w string) bool {
	r, size := utf8.DecodeRuneInString(w)
	if !unicode.IsUpper(r) {
		return false
	}
	for _, r := range w[size:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func title(lower string) string {
	r, size := utf8.DecodeRuneInString(lower)
	if r == utf8.RuneError {
		return lower
	}
	return string(unicode.ToUpper(r)) + lower[size:]
}

// Load reads the vocabulary at path. format may be empty, in which case it
// is derived from the file extension.
func Load(path, format string) (*List, error) {
	typ := strings.ToLower(strings.TrimSpace(format))
	if typ == "" {
		typ = DetectFormat(path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch typ {
	case FormatDic:
		aff := strings.TrimSuffix(path, filepath.Ext(path)) + ".aff"
		return LoadHunspell(aff, path)
	case FormatText, FormatTSV, FormatJSON:
		return loadPlain(name, path, typ)
	case FormatDSL:
		return loadDSL(name, path)
	case FormatStardict:
		return loadStardict(name, path)
	case FormatMdict:
		return loadMdict(name, path)
	default:
		return nil, fmt.Errorf("unsupported word list format: %q", typ)
	}
}

// DetectFormat maps a file extension to a format name, or "".
func DetectFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".dic":
		return FormatDic
	case ".ifo":
		return FormatStardict
	case ".mdx":
		return FormatMdict
	case ".dsl":
		return FormatDSL
	case ".json":
		return FormatJSON
	case ".tsv":
		return FormatTSV
	case ".txt", ".lst", ".words":
		return FormatText
	default:
		return ""
	}
}
