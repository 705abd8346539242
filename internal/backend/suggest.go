package backend

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// MaxCorrections caps the number of corrections an engine returns.
const MaxCorrections = 10

const minSimilarity = 0.6

// Suggest ranks candidate words by similarity to word and returns the best
// ones. each must call its argument for every candidate and stop when it
// returns false.
func Suggest(word string, each func(func(string) bool)) []string {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}
	lower := strings.ToLower(word)
	n := utf8.RuneCountInString(lower)
	lev := metrics.NewLevenshtein()

	type scored struct {
		word  string
		score float64
	}
	var hits []scored
	each(func(c string) bool {
		cn := utf8.RuneCountInString(c)
		if cn < n-2 || cn > n+2 {
			return true
		}
		s := strutil.Similarity(lower, strings.ToLower(c), lev)
		if s >= minSimilarity && !strings.EqualFold(c, word) {
			hits = append(hits, scored{word: c, score: s})
		}
		return true
	})
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score == hits[j].score {
			return hits[i].word < hits[j].word
		}
		return hits[i].score > hits[j].score
	})
	if len(hits) > MaxCorrections {
		hits = hits[:MaxCorrections]
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, matchCase(word, h.word))
	}
	return out
}

// matchCase gives a correction the capitalisation of the misspelled word.
func matchCase(orig, sugg string) string {
	if strings.ToUpper(orig) == orig && strings.ToLower(orig) != orig {
		return strings.ToUpper(sugg)
	}
	r, _ := utf8.DecodeRuneInString(orig)
	if strings.ToUpper(string(r)) == string(r) && strings.ToLower(string(r)) != string(r) {
		first, size := utf8.DecodeRuneInString(sugg)
		return strings.ToUpper(string(first)) + sugg[size:]
	}
	return sugg
}
