// Package async provides a minimal future for running a blocking
// operation on its own goroutine and collecting the result later.
package async

import "context"

// Future is the pending result of an operation started with Go.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn on a new goroutine and returns a Future for its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f
}

// Resolved returns a Future that is already complete.
func Resolved[T any](val T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: val, err: err}
	close(f.done)
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx is done.
// The operation itself keeps running if ctx is cancelled first.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
