package stream

import (
	"context"

	"userstream/result"
)

// Filter flattens a page stream and emits only the rows kept by the predicate.
// Row order within and across pages is preserved.
type Filter[T any] struct {
	pages   Iterator[result.Page[T]]
	keep    func(T) bool
	pending []T
	cur     T
}

// NewFilter returns a Filter over pages.
func NewFilter[T any](pages Iterator[result.Page[T]], keep func(T) bool) *Filter[T] {
	return &Filter[T]{
		pages: pages,
		keep:  keep,
	}
}

// Next advances to the next kept row, pulling a new page only when the current one is spent.
func (f *Filter[T]) Next(ctx context.Context) bool {

	for {
		for len(f.pending) > 0 {
			row := f.pending[0]
			f.pending = f.pending[1:]

			if f.keep(row) {
				f.cur = row
				return true
			}
		}

		if !f.pages.Next(ctx) {
			f.pending = nil
			return false
		}
		f.pending = f.pages.Value().Rows
	}

}

// Value returns the current row.
func (f *Filter[T]) Value() T {
	return f.cur
}

// Err returns the upstream error.
func (f *Filter[T]) Err() error {
	return f.pages.Err()
}

// Close closes the upstream page stream.
func (f *Filter[T]) Close() error {
	f.pending = nil
	return f.pages.Close()
}
