package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagerenn/spelld/internal/userdict"
)

func TestProvider(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "words.db")
	p, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	var got []userdict.Dictionary
	unsub := p.Subscribe(func(d userdict.Dictionary) { got = append(got, d) })

	require.NoError(t, p.Add(ctx, "en_US", "foo"))
	require.NoError(t, p.Add(ctx, "en_US", "foo"))
	require.NoError(t, p.Add(ctx, "de_DE", "Straße"))
	d, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, userdict.Dictionary{"en_US": {"foo"}, "de_DE": {"Straße"}}, d)
	require.Len(t, got, 3)

	require.NoError(t, p.Remove(ctx, "en_US", "foo"))
	d, err = p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, userdict.Dictionary{"de_DE": {"Straße"}}, d)

	unsub()
	require.NoError(t, p.Add(ctx, "en_US", "bar"))
	assert.Len(t, got, 4)
}

func TestStoreOverSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "words.db")
	p, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	s := userdict.NewStore(t.TempDir())
	s.SetProvider(ctx, p)
	s.Ensure("en")
	s.Add("en", "gopher")
	assert.True(t, s.Has("en", "gopher"))

	// a second process opening the same file sees the word
	other, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close() })
	d, err := other.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gopher", userdict.DefaultBootstrapWord}, d["en"])
}
