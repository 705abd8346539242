package wordlist

import (
	"reflect"
	"strings"

	"github.com/ChaosNyaruko/ondict/decoder"

	"github.com/sagerenn/spelld/internal/indexcache"
)

// loadMdict collects the headwords of an MDict .mdx file.
func loadMdict(name, path string) (*List, error) {
	if idx, ok, err := indexcache.Load(path, FormatMdict); err == nil && ok {
		return New(name, idx.Words), nil
	}
	md := &decoder.MDict{}
	if err := md.Decode(path, false); err != nil {
		return nil, err
	}
	_ = md.Keys() // populate keymap
	keys := mdictKeys(md)
	words := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimRight(k, "\x00")
		words = append(words, strings.Fields(k)...)
	}
	l := New(name, words)
	_ = indexcache.Save(path, FormatMdict, l.Words())
	return l, nil
}

// mdictKeys reads the decoder's unexported keymap; the decoder has no
// accessor for it.
func mdictKeys(m *decoder.MDict) []string {
	v := reflect.ValueOf(m).Elem().FieldByName("keymap")
	if !v.IsValid() || v.IsNil() {
		return nil
	}
	out := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		out = append(out, k.String())
	}
	return out
}
