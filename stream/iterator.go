// Package stream holds lazy, pull-based iterators over rows, pages and scalar values.
//
// An Iterator produces one element per Next call and never reads ahead. Err tells a
// failed stream apart from an exhausted one. Close releases whatever the iterator owns
// and must be safe to call at any point, including before exhaustion.
package stream

import (
	"context"
)

// Iterator is a lazy sequence of T.
type Iterator[T any] interface {
	// Next advances to the next element. It returns false on exhaustion or failure.
	Next(ctx context.Context) bool
	// Value returns the current element. Only valid after Next returned true.
	Value() T
	// Err returns the error that stopped the iteration, if any.
	Err() error
	// Close releases the resources held by the iterator.
	Close() error
}

// Collect drains it into a slice and closes it.
func Collect[T any](ctx context.Context, it Iterator[T]) (out []T, err error) {

	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for it.Next(ctx) {
		out = append(out, it.Value())
	}

	return out, it.Err()

}

// sliceIterator iterates over an in-memory slice.
type sliceIterator[T any] struct {
	items  []T
	cur    T
	closed bool
}

// FromSlice returns an Iterator over items.
func FromSlice[T any](items []T) Iterator[T] {
	return &sliceIterator[T]{items: items}
}

func (s *sliceIterator[T]) Next(ctx context.Context) bool {

	if s.closed || len(s.items) == 0 {
		return false
	}

	s.cur, s.items = s.items[0], s.items[1:]
	return true

}

func (s *sliceIterator[T]) Value() T { return s.cur }

func (s *sliceIterator[T]) Err() error { return nil }

func (s *sliceIterator[T]) Close() error {
	s.closed = true
	s.items = nil
	return nil
}
