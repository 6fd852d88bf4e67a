package source

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// ScanFunc reads the current row of an open cursor.
type ScanFunc[T any] func(rows *sqlx.Rows) (T, error)

// Rows is a lazy stream over an open cursor, one row per Next.
// The cursor is released on exhaustion, on the first error, and on Close, whichever comes first.
type Rows[T any] struct {
	rows   *sqlx.Rows
	scan   ScanFunc[T]
	cur    T
	err    error
	closed bool
}

// NewRows takes ownership of rows.
func NewRows[T any](rows *sqlx.Rows, scan ScanFunc[T]) *Rows[T] {
	return &Rows[T]{
		rows: rows,
		scan: scan,
	}
}

// Next reads the next row.
func (r *Rows[T]) Next(ctx context.Context) bool {

	if r.closed {
		return false
	}

	if err := ctx.Err(); err != nil {
		r.fail(err)
		return false
	}

	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			r.fail(errors.Wrap(err, "failed to read row"))
			return false
		}
		r.fail(nil)
		return false
	}

	v, err := r.scan(r.rows)
	if err != nil {
		r.fail(errors.Wrap(err, "failed to scan row"))
		return false
	}

	r.cur = v
	return true

}

// Value returns the current row.
func (r *Rows[T]) Value() T {
	return r.cur
}

// Err returns the error that ended the stream, nil on plain exhaustion.
func (r *Rows[T]) Err() error {
	return r.err
}

// Close releases the cursor. It is safe to call more than once.
func (r *Rows[T]) Close() error {

	if r.closed {
		return nil
	}
	r.closed = true

	if err := r.rows.Close(); err != nil {
		return errors.Wrap(err, "failed to close rows")
	}

	return nil

}

func (r *Rows[T]) fail(err error) {
	r.err = err
	_ = r.Close()
}

// ScanStruct scans the row into a T using its `db` tags.
func ScanStruct[T any](rows *sqlx.Rows) (T, error) {

	var v T
	err := rows.StructScan(&v)
	return v, err

}

// ScanScalar scans a single-column row into a T.
func ScanScalar[T any](rows *sqlx.Rows) (T, error) {

	var v T
	err := rows.Scan(&v)
	return v, err

}
