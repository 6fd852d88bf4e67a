package tabling

import "github.com/pkg/errors"

// ErrInvalidPaging is returned for a non-positive limit or a negative offset.
var ErrInvalidPaging = errors.New("invalid paging")

// Paging is one LIMIT/OFFSET window.
type Paging struct {
	Limit  int
	Offset int
}

// Validate checks the window bounds.
func (p Paging) Validate() error {

	if p.Limit < 1 {
		return errors.Wrapf(ErrInvalidPaging, "limit must be positive, got %d", p.Limit)
	}

	if p.Offset < 0 {
		return errors.Wrapf(ErrInvalidPaging, "offset must not be negative, got %d", p.Offset)
	}

	return nil
}

// Next returns the window right after p.
func (p Paging) Next() Paging {
	return Paging{Limit: p.Limit, Offset: p.Offset + p.Limit}
}
