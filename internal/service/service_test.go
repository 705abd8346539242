package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagerenn/spelld/internal/backend/platform"
	"github.com/sagerenn/spelld/internal/spellcheck"
)

type stubDetector struct{ code string }

func (d stubDetector) Detect(_ string, _ spellcheck.DetectOptions, cb func(error, *spellcheck.Detection)) {
	cb(nil, &spellcheck.Detection{Reliable: true, Languages: []spellcheck.Candidate{{Code: d.code, Percent: 97}}})
}

func newService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en_US.aff"), []byte("SET UTF-8\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en_US.dic"),
		[]byte("6\nhello/MS\nworld\nhouse\nmouse\nthe\nquick\n"), 0o644))

	ctor := platform.NewConstructor(platform.Options{DictDirs: []string{dir}, SystemDirs: []string{}})
	f := spellcheck.New(ctor,
		spellcheck.WithDictionaryDir(dir),
		spellcheck.WithUserDictionaryDir(t.TempDir()),
		spellcheck.WithDetector(stubDetector{code: "en"}),
	)
	t.Cleanup(f.Wait)
	return New(f, Options{CacheSize: 16})
}

func TestCheck(t *testing.T) {
	s := newService(t)
	res, err := s.Check("en_US", "the quick hause", true)
	require.NoError(t, err)
	assert.Equal(t, "hunspell", res.Engine)
	require.Equal(t, 1, res.Count)
	m := res.Misspellings[0]
	assert.Equal(t, "hause", m.Word)
	assert.Equal(t, 10, m.Start)
	assert.Equal(t, 15, m.End)
	assert.Contains(t, m.Suggestions, "house")

	_, err = s.Check("xx_XX", "text", false)
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	_, err = s.Check("en_US", "  ", false)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCheckAsync(t *testing.T) {
	s := newService(t)
	res, err := s.CheckAsync(context.Background(), "en_US", "hello wrld", false)
	require.NoError(t, err)
	require.Len(t, res.Misspellings, 1)
	assert.Equal(t, "wrld", res.Misspellings[0].Word)
}

func TestSuggestResultsDoNotAliasCache(t *testing.T) {
	s := newService(t)
	first, err := s.Suggest("en_US", "hause", 1)
	require.NoError(t, err)
	require.Equal(t, []string{"house"}, first)
	first = append(first, "zzz")
	first[0] = "changed"

	all, err := s.Suggest("en_US", "hause", 10)
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, "house", all[0])
	assert.NotContains(t, all, "zzz")
	assert.NotContains(t, all, "changed")
}

func TestLearnPurgesSuggestions(t *testing.T) {
	s := newService(t)
	before, err := s.Suggest("en_US", "spelldx", 5)
	require.NoError(t, err)
	assert.NotContains(t, before, "spelldy")

	require.NoError(t, s.Learn("en_US", "spelldy"))
	learned, err := s.IsLearned("en_US", "spelldy")
	require.NoError(t, err)
	assert.True(t, learned)

	after, err := s.Suggest("en_US", "spelldx", 5)
	require.NoError(t, err)
	assert.Contains(t, after, "spelldy")

	res, err := s.Check("en_US", "spelldy", false)
	require.NoError(t, err)
	assert.Zero(t, res.Count)

	words, err := s.Learned("en_US")
	require.NoError(t, err)
	assert.Equal(t, []string{"spelld", "spelldy"}, words)

	require.NoError(t, s.Unlearn("en_US", "spelldy"))
	res, err = s.Check("en_US", "spelldy", false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
}

func TestResolveLanguage(t *testing.T) {
	s := newService(t)
	lang, err := s.ResolveLanguage(context.Background(), "", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "en_US", lang)

	lang, err = s.ResolveLanguage(context.Background(), "de_DE", "")
	require.NoError(t, err)
	assert.Equal(t, "de_DE", lang)
}

func TestPreload(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Preload(context.Background(), []string{"en_US"}))
	err := s.Preload(context.Background(), []string{"en_US", "zz_ZZ", "aa_AA"})
	require.ErrorIs(t, err, ErrUnknownLanguage)
	assert.Contains(t, err.Error(), "aa_AA, zz_ZZ")
}

func TestDictionariesAndDownload(t *testing.T) {
	s := newService(t)
	d := s.Dictionaries()
	assert.Equal(t, []string{"en_US"}, d.Available)

	u, err := s.DownloadURL("pt_BR")
	require.NoError(t, err)
	assert.Contains(t, u, "pt-br-5-0.bdic")
	s.ClearCache()
}
