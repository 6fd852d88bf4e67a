package result

// Page is a bounded, ordered chunk of rows fetched in one request.
// Offset is the position of the first row in the whole stream.
type Page[T any] struct {
	Rows   []T
	Offset int
	Limit  int
}

// Len returns the number of rows in the page.
func (p Page[T]) Len() int {
	return len(p.Rows)
}

// Stats is the outcome of a streaming aggregation.
type Stats struct {
	Count   int
	Sum     int64
	Average float64
}
