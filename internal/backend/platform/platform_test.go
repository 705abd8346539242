package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagerenn/spelld/internal/backend"
)

func TestConstructorPrefersNativeWhenInstalled(t *testing.T) {
	sys := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sys, "en-US.txt"), []byte("hello\n"), 0o644))

	ctor := NewConstructor(Options{SystemDirs: []string{sys}})
	assert.Equal(t, backend.KindNative, ctor(false).Kind())
	assert.Equal(t, backend.KindHunspell, ctor(true).Kind())
}

func TestConstructorFallsBackToHunspell(t *testing.T) {
	ctor := NewConstructor(Options{SystemDirs: []string{t.TempDir()}})
	assert.Equal(t, backend.KindHunspell, ctor(false).Kind())

	sys := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sys, "en-US.txt"), []byte("hello\n"), 0o644))
	ctor = NewConstructor(Options{SystemDirs: []string{sys}, PreferHunspell: true})
	assert.Equal(t, backend.KindHunspell, ctor(false).Kind())
}

func TestHunspellSeesDictDirs(t *testing.T) {
	dicts := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dicts, "en_GB.aff"), []byte("SET UTF-8\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dicts, "en_GB.dic"), []byte("1\ncolour\n"), 0o644))

	ctor := NewConstructor(Options{DictDirs: []string{dicts}, SystemDirs: []string{}})
	e := ctor(true)
	assert.Equal(t, []string{"en_GB"}, e.GetAvailableDictionaries())
}

func TestDefaultSystemDirs(t *testing.T) {
	dirs := DefaultSystemDirs("linux")
	assert.Contains(t, dirs, "/usr/share/hunspell")
	for _, d := range DefaultSystemDirs("darwin") {
		assert.True(t, filepath.IsAbs(d), d)
	}
}
