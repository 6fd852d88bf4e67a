package stream

import (
	"context"

	"userstream/result"
	"userstream/tabling"

	"github.com/pkg/errors"
)

// PageFetcher returns the rows of one LIMIT/OFFSET window, in a stable order.
//
//go:generate mockgen --source=paginator.go --destination=mock_fetcher.go --package=stream
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, paging tabling.Paging) ([]T, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc[T any] func(ctx context.Context, paging tabling.Paging) ([]T, error)

// FetchPage calls f.
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, paging tabling.Paging) ([]T, error) {
	return f(ctx, paging)
}

// Paginator lazily walks a PageFetcher with offsets 0, size, 2*size, ... and stops at the
// first empty page. Each Next issues exactly one fetch and only the current page is held.
type Paginator[T any] struct {
	fetcher PageFetcher[T]
	paging  tabling.Paging
	page    result.Page[T]
	err     error
	done    bool
}

// NewPaginator returns a Paginator starting at offset 0.
func NewPaginator[T any](fetcher PageFetcher[T], pageSize int) (*Paginator[T], error) {

	paging := tabling.Paging{Limit: pageSize}
	if err := paging.Validate(); err != nil {
		return nil, err
	}

	return &Paginator[T]{
		fetcher: fetcher,
		paging:  paging,
	}, nil

}

// Next fetches the next page.
func (p *Paginator[T]) Next(ctx context.Context) bool {

	if p.done {
		return false
	}

	if err := ctx.Err(); err != nil {
		p.stop(err)
		return false
	}

	rows, err := p.fetcher.FetchPage(ctx, p.paging)
	if err != nil {
		p.stop(errors.Wrapf(err, "failed to fetch page at offset %d", p.paging.Offset))
		return false
	}

	// empty page marks the end of data
	if len(rows) == 0 {
		p.stop(nil)
		return false
	}

	p.page = result.Page[T]{
		Rows:   rows,
		Offset: p.paging.Offset,
		Limit:  p.paging.Limit,
	}
	p.paging = p.paging.Next()

	return true

}

// Value returns the current page.
func (p *Paginator[T]) Value() result.Page[T] {
	return p.page
}

// Err returns the fetch error that stopped the paginator.
func (p *Paginator[T]) Err() error {
	return p.err
}

// Close stops the paginator. Fetches are self-contained, so there is nothing else to release.
func (p *Paginator[T]) Close() error {
	p.stop(p.err)
	return nil
}

func (p *Paginator[T]) stop(err error) {
	p.done = true
	p.err = err
	p.page = result.Page[T]{}
}
