package stream

import (
	"context"

	"userstream/tabling"
)

// sliceFetcher serves pages out of an in-memory table.
func sliceFetcher[T any](table []T, calls *[]tabling.Paging) PageFetcherFunc[T] {
	return func(_ context.Context, paging tabling.Paging) ([]T, error) {
		if calls != nil {
			*calls = append(*calls, paging)
		}
		if paging.Offset >= len(table) {
			return nil, nil
		}
		end := paging.Offset + paging.Limit
		if end > len(table) {
			end = len(table)
		}
		return table[paging.Offset:end], nil
	}
}

// failingIterator yields items, then stops with err.
type failingIterator[T any] struct {
	items  []T
	cur    T
	err    error
	failed bool
	closed bool
}

func (f *failingIterator[T]) Next(context.Context) bool {
	if len(f.items) == 0 {
		f.failed = true
		return false
	}
	f.cur, f.items = f.items[0], f.items[1:]
	return true
}

func (f *failingIterator[T]) Value() T { return f.cur }

func (f *failingIterator[T]) Err() error {
	if f.failed {
		return f.err
	}
	return nil
}

func (f *failingIterator[T]) Close() error {
	f.closed = true
	return nil
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
