package drop

import (
	"context"
	"sync"

	"textdrop/pkg/types"
)

// Future is a value that becomes available once. Adapters hand the machine a
// Future per dropped item so address resolution can finish after the drop.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// NewFuture returns an unresolved future and the function that resolves it.
// Only the first call to resolve has any effect.
func NewFuture[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, f.resolve
}

// Go runs fn on its own goroutine and resolves the future with its result
func Go[T any](fn func() (T, error)) *Future[T] {
	f, resolve := NewFuture[T]()
	go func() {
		resolve(fn())
	}()
	return f
}

// Resolved returns a future that already holds v
func Resolved[T any](v T) *Future[T] {
	f, resolve := NewFuture[T]()
	resolve(v, nil)
	return f
}

// Failed returns a future that already holds err
func Failed[T any](err error) *Future[T] {
	f, resolve := NewFuture[T]()
	var zero T
	resolve(zero, err)
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.val = v
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future holds a value or an error
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future resolves or ctx is done
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Item is one entry of a pending drop
type Item = *Future[types.Address]

// ResolvedItems wraps already known addresses as items
func ResolvedItems(addrs ...types.Address) []Item {
	items := make([]Item, len(addrs))
	for i, a := range addrs {
		items[i] = Resolved(a)
	}
	return items
}
