package spellcheck

import (
	"context"
	"sync"
)

// Future is the result of a callback-style operation. It settles once.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// bridge runs op and settles the returned Future with the first call op
// makes to its callback: a non-nil error rejects, anything else resolves
// with the value as given.
func bridge[T any](op func(cb func(error, T))) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	var once sync.Once
	op(func(err error, v T) {
		once.Do(func() {
			if err != nil {
				f.err = err
			} else {
				f.val = v
			}
			close(f.done)
		})
	})
	return f
}

func resolved[T any](v T) *Future[T] {
	return bridge(func(cb func(error, T)) { cb(nil, v) })
}

// Done is closed when the Future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the Future settles or ctx ends. Ending ctx only stops
// the wait; the operation itself keeps running.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
