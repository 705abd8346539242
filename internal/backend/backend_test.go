package backend

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWords(t *testing.T) {
	text := "Don't re-check 42 items, 'quoted' café—ok"
	var got []string
	for _, w := range Words(text) {
		got = append(got, w.Text)
		assert.Equal(t, w.Text, text[w.Start:w.End])
	}
	assert.Equal(t, []string{"Don't", "re-check", "items", "quoted", "café", "ok"}, got)
}

func TestCheckWords(t *testing.T) {
	ranges := CheckWords("the qick fox", func(w string) bool { return w == "qick" })
	assert.Equal(t, []Range{{Start: 4, End: 8}}, ranges)
}

func TestSuggest(t *testing.T) {
	vocab := []string{"house", "horse", "mouse", "hose", "elephant", "houses"}
	each := func(fn func(string) bool) {
		for _, w := range vocab {
			if !fn(w) {
				return
			}
		}
	}
	got := Suggest("housse", each)
	require.NotEmpty(t, got)
	assert.Contains(t, got, "house")
	assert.NotContains(t, got, "elephant")

	got = Suggest("Housse", each)
	assert.Contains(t, got, "House")

	assert.Nil(t, Suggest("", each))
}

func TestRunAsync(t *testing.T) {
	done := make(chan struct{})
	RunAsync(func() []Range { return []Range{{0, 1}} }, func(err error, r []Range) {
		assert.NoError(t, err)
		assert.Equal(t, []Range{{0, 1}}, r)
		close(done)
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback not called")
	}

	errc := make(chan error, 1)
	RunAsync(func() []Range { panic(errors.New("boom")) }, func(err error, _ []Range) { errc <- err })
	select {
	case err := <-errc:
		assert.ErrorContains(t, err, "boom")
	case <-time.After(time.Second):
		t.Fatal("callback not called")
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "hunspell", KindHunspell.String())
	assert.Equal(t, "native", KindNative.String())
}
