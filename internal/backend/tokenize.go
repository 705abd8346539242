package backend

import (
	"unicode"
	"unicode/utf8"
)

// Word is a token of checked text.
type Word struct {
	Text string
	Range
}

// Words splits text into words. Apostrophes and hyphens inside a word are
// kept ("don't", "e-mail"); digits make a token a number, which is skipped.
func Words(text string) []Word {
	var out []Word
	start := -1
	hasDigit := false
	flush := func(end int) {
		if start < 0 {
			return
		}
		w := trimJoiners(text[start:end])
		if w != "" && !hasDigit {
			out = append(out, Word{Text: w, Range: Range{Start: start, End: start + len(w)}})
		}
		start = -1
		hasDigit = false
	}
	for i, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.Is(unicode.Mn, r):
			if start < 0 {
				start = i
			}
		case unicode.IsDigit(r):
			if start < 0 {
				start = i
			}
			hasDigit = true
		case isJoiner(r):
			if start < 0 {
				continue
			}
		default:
			flush(i)
		}
	}
	flush(len(text))
	return out
}

func isJoiner(r rune) bool {
	return r == '\'' || r == '’' || r == '-'
}

func trimJoiners(s string) string {
	for s != "" {
		r, size := utf8.DecodeLastRuneInString(s)
		if !isJoiner(r) {
			break
		}
		s = s[:len(s)-size]
	}
	return s
}

// CheckWords runs isMisspelled over every word of text.
func CheckWords(text string, isMisspelled func(string) bool) []Range {
	var out []Range
	for _, w := range Words(text) {
		if isMisspelled(w.Text) {
			out = append(out, w.Range)
		}
	}
	return out
}
