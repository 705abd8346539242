package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagerenn/spelld/internal/backend/platform"
	"github.com/sagerenn/spelld/internal/service"
	"github.com/sagerenn/spelld/internal/spellcheck"
)

func testService(t *testing.T) *service.Service {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en_US.aff"), []byte("SET UTF-8\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en_US.dic"), []byte("3\nhello\nworld\nhouse\n"), 0o644))
	f := spellcheck.New(platform.NewConstructor(platform.Options{DictDirs: []string{dir}, SystemDirs: []string{}}),
		spellcheck.WithDictionaryDir(dir), spellcheck.WithUserDictionaryDir(t.TempDir()))
	t.Cleanup(f.Wait)
	return service.New(f, service.Options{})
}

func TestRunReportsMisspellings(t *testing.T) {
	svc := testService(t)
	input := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(input, []byte("hello\nwrold house\n"), 0o644))

	var buf bytes.Buffer
	out := termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))
	code := run(context.Background(), svc, out, options{lang: "en_US", suggest: true, files: []string{input}})

	assert.Equal(t, 1, code)
	assert.Equal(t, input+":2:1: wrold → world\n", buf.String())
}

func TestRunLearn(t *testing.T) {
	svc := testService(t)
	var buf bytes.Buffer
	out := termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))
	assert.Equal(t, 0, run(context.Background(), svc, out, options{lang: "en_US", learn: "wrold"}))

	input := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(input, []byte("hello wrold"), 0o644))
	assert.Equal(t, 0, run(context.Background(), svc, out, options{lang: "en_US", files: []string{input}}))

	assert.Equal(t, 2, run(context.Background(), svc, out, options{lang: "xx", learn: "w"}))
	assert.True(t, strings.Contains(buf.String(), "no dictionary"))
}

func TestPosition(t *testing.T) {
	line, col := position("ab\ncé d", 7)
	assert.Equal(t, 2, line)
	assert.Equal(t, 4, col)
}
