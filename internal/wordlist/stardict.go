package wordlist

import (
	"strings"

	std "github.com/ianlewis/go-stardict"

	"github.com/sagerenn/spelld/internal/indexcache"
)

// loadStardict collects the headwords of a StarDict dictionary from its
// index. Multi-word headwords contribute each of their words.
func loadStardict(name, ifoPath string) (*List, error) {
	if idx, ok, err := indexcache.Load(ifoPath, FormatStardict); err == nil && ok {
		return New(name, idx.Words), nil
	}
	sd, err := std.Open(ifoPath, nil)
	if err != nil {
		return nil, err
	}
	if bn := sd.Bookname(); bn != "" {
		name = bn
	}
	sc, err := sd.IndexScanner()
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	words := make([]string, 0, 1024)
	for sc.Scan() {
		words = append(words, strings.Fields(sc.Word().Word)...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	l := New(name, words)
	_ = indexcache.Save(ifoPath, FormatStardict, l.Words())
	return l, nil
}
