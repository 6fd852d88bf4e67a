package stream

import (
	"context"

	"userstream/result"
	"userstream/tabling"
)

// maxPrealloc bounds the capacity reserved up front for a batch. Larger batches grow by append.
const maxPrealloc = 1024

// Batcher groups a row stream into pages of a fixed size. The last page may be shorter.
// It reads from a single open cursor instead of issuing one query per page.
type Batcher[T any] struct {
	rows   Iterator[T]
	size   int
	offset int
	page   result.Page[T]
	done   bool
}

// NewBatcher returns a Batcher over rows.
func NewBatcher[T any](rows Iterator[T], size int) (*Batcher[T], error) {

	if err := (tabling.Paging{Limit: size}).Validate(); err != nil {
		return nil, err
	}

	return &Batcher[T]{
		rows: rows,
		size: size,
	}, nil

}

// Next collects up to size rows into the next page.
// A failing row stream ends the batcher without emitting the partial batch.
func (b *Batcher[T]) Next(ctx context.Context) bool {

	if b.done {
		return false
	}

	batch := make([]T, 0, min(b.size, maxPrealloc))
	for len(batch) < b.size && b.rows.Next(ctx) {
		batch = append(batch, b.rows.Value())
	}

	if b.rows.Err() != nil || len(batch) == 0 {
		b.done = true
		b.page = result.Page[T]{}
		return false
	}

	// a short batch means the cursor is exhausted
	if len(batch) < b.size {
		b.done = true
	}

	b.page = result.Page[T]{
		Rows:   batch,
		Offset: b.offset,
		Limit:  b.size,
	}
	b.offset += len(batch)

	return true

}

// Value returns the current batch.
func (b *Batcher[T]) Value() result.Page[T] {
	return b.page
}

// Err returns the row stream error.
func (b *Batcher[T]) Err() error {
	return b.rows.Err()
}

// Close closes the row stream.
func (b *Batcher[T]) Close() error {
	b.done = true
	return b.rows.Close()
}
