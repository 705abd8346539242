package spellcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagerenn/spelld/internal/backend"
)

type fakeDetector struct {
	result *Detection
	err    error
	panic  bool
}

func (d fakeDetector) Detect(_ string, _ DetectOptions, cb func(error, *Detection)) {
	if d.panic {
		panic("detector crashed")
	}
	cb(d.err, d.result)
}

func detect(t *testing.T, d Detector) string {
	t.Helper()
	f := New((&fakeConstructor{primary: backend.KindNative}).build, WithDetector(d), WithUserDictionaryDir(t.TempDir()))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	code, err := f.DetectLanguageForText("some text", DetectOptions{}).Wait(ctx)
	require.NoError(t, err)
	return code
}

func TestDetectionConfidencePolicy(t *testing.T) {
	reliable := func(p float64) *Detection {
		return &Detection{Reliable: true, Languages: []Candidate{{Code: "en", Percent: p}, {Code: "de", Percent: 10}}}
	}
	assert.Equal(t, "", detect(t, fakeDetector{result: reliable(84)}))
	assert.Equal(t, "en", detect(t, fakeDetector{result: reliable(85)}))
	assert.Equal(t, "", detect(t, fakeDetector{result: &Detection{Reliable: false, Languages: []Candidate{{Code: "en", Percent: 99}}}}))
	assert.Equal(t, "", detect(t, fakeDetector{result: &Detection{Reliable: true}}))
	assert.Equal(t, "", detect(t, fakeDetector{}))
}

func TestDetectionFailuresResolveEmpty(t *testing.T) {
	assert.Equal(t, "", detect(t, fakeDetector{err: errors.New("offline")}))
	assert.Equal(t, "", detect(t, fakeDetector{panic: true}))
	assert.Equal(t, "", detect(t, nil))
}

func TestBridge(t *testing.T) {
	ctx := context.Background()
	f := bridge(func(cb func(error, []int)) { cb(nil, []int{1, 2}) })
	v, err := f.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, v)

	boom := errors.New("boom")
	f = bridge(func(cb func(error, []int)) {
		cb(boom, []int{9})
		cb(nil, []int{1})
	})
	v, err = f.Wait(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, v)
	select {
	case <-f.Done():
	default:
		t.Fatal("future not settled")
	}

	pending := bridge(func(func(error, int)) {})
	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = pending.Wait(short)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
