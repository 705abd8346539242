package wordlist

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsCapitalisation(t *testing.T) {
	l := New("test", []string{"hello", "Paris", "NASA"})

	assert.True(t, l.Contains("hello"))
	assert.True(t, l.Contains("Hello"), "sentence start")
	assert.True(t, l.Contains("HELLO"), "all caps")
	assert.True(t, l.Contains("Paris"))
	assert.True(t, l.Contains("PARIS"))
	assert.False(t, l.Contains("paris"), "proper noun must stay capitalised")
	assert.True(t, l.Contains("NASA"))
	assert.False(t, l.Contains("Nasa"))
	assert.False(t, l.Contains(""))
}

func TestParseHunspell(t *testing.T) {
	aff := []byte("SET UTF-8\nTRY esianrtolcdugmphbyfvkwzESIANRTOLCDUGMPHBYFVKWZ'\n")
	dic := []byte("4\nhello/MS\nworld\nand\\/or\n\tcomment line\nréveillon/S po:noun\n")

	l, err := ParseHunspell("en_US", aff, dic)
	require.NoError(t, err)
	assert.Equal(t, []string{"and/or", "hello", "réveillon", "world"}, l.Words())
}

func TestParseHunspellLegacyCharset(t *testing.T) {
	aff := []byte("SET ISO8859-1\n")
	// "café" in Latin-1
	dic := []byte{'1', '\n', 'c', 'a', 'f', 0xE9, '\n'}

	l, err := ParseHunspell("fr", aff, dic)
	require.NoError(t, err)
	assert.True(t, l.Has("café"))
}

func TestParseHunspellEmpty(t *testing.T) {
	_, err := ParseHunspell("x", nil, nil)
	assert.Error(t, err)
	_, err = ParseHunspell("x", nil, []byte("0\n"))
	assert.Error(t, err)
}

func makeBundle(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseBundle(t *testing.T) {
	data := makeBundle(t, map[string]string{
		"dictionaries/en_US.aff": "SET UTF-8\n",
		"dictionaries/en_US.dic": "2\ncolor\ncenter\n",
		"dictionaries/en_GB.aff": "SET UTF-8\n",
		"dictionaries/en_GB.dic": "2\ncolour\ncentre\n",
	})

	l, err := ParseBundle("en-US", data)
	require.NoError(t, err)
	assert.True(t, l.Has("color"))
	assert.False(t, l.Has("colour"))

	l, err = ParseBundle("en-gb", data)
	require.NoError(t, err)
	assert.True(t, l.Has("colour"))

	_, err = ParseBundle("de_DE", data)
	assert.Error(t, err, "ambiguous bundle without a matching pair")

	_, err = ParseBundle("en_US", []byte("plain text"))
	assert.ErrorIs(t, err, ErrNotBundle)
}

func TestLoadPlainFormats(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "words.txt")
	tsv := filepath.Join(dir, "glossary.tsv")
	js := filepath.Join(dir, "list.json")
	require.NoError(t, os.WriteFile(txt, []byte("# comment\nalpha\n\nbeta\n"), 0o644))
	require.NoError(t, os.WriteFile(tsv, []byte("gamma\tthird letter\ndelta\tfourth\n"), 0o644))
	require.NoError(t, os.WriteFile(js, []byte(`[{"word":"epsilon"},{"word":"zeta"}]`), 0o644))

	l, err := Load(txt, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, l.Words())

	l, err = Load(tsv, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"delta", "gamma"}, l.Words())

	l, err = Load(js, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"epsilon", "zeta"}, l.Words())

	// second load is served from the index cache
	l, err = Load(txt, "")
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())
}

func TestLoadHunspellFromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nl_NL.aff"), []byte("SET UTF-8\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nl_NL.dic"), []byte("2\nfiets/N\nhuis\n"), 0o644))

	l, err := Load(filepath.Join(dir, "nl_NL.dic"), "")
	require.NoError(t, err)
	assert.Equal(t, "nl_NL", l.Name())
	assert.True(t, l.Contains("Fiets"))
}

func TestLoadDSL(t *testing.T) {
	content := "#NAME \"Test\"\n#INDEX_LANGUAGE \"English\"\n\napple\n\t[m1]a fruit[/m]\n{the} pear\n\tanother fruit\n"
	u16 := utf16.Encode([]rune(content))
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFE})
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, u16))

	path := filepath.Join(t.TempDir(), "fruit.dsl")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	l, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "pear"}, l.Words())
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("/nowhere/file.xyz", "")
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	l := Merge("m", New("a", []string{"one"}), nil, New("b", []string{"two", "one"}))
	assert.Equal(t, []string{"one", "two"}, l.Words())
}
