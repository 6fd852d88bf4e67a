package users

import (
	"context"
	"fmt"

	"userstream/log"
	"userstream/result"
	"userstream/source"
	"userstream/stream"
	"userstream/tabling"
	"userstream/vars"

	"github.com/pkg/errors"
)

// Options configures a Repository. Zero values fall back to the package defaults.
type Options struct {
	Table string
	// Sort is the stable sort key for every ordered read, e.g. "+user_id".
	Sort string
}

// Repository reads user_data lazily.
type Repository struct {
	db      *source.DB
	log     log.Logger
	table   string
	sorting tabling.Sorting
}

// NewRepository returns a Repository over db.
func NewRepository(db *source.DB, log log.Logger, opts Options) (*Repository, error) {

	if opts.Table == "" {
		opts.Table = vars.DefaultTable
	}
	if opts.Sort == "" {
		opts.Sort = vars.DefaultSort
	}

	sorting := tabling.Sorting{Sort: opts.Sort}
	if _, _, err := sorting.Parse(); err != nil {
		return nil, err
	}

	// the table name ends up in SQL text
	if !tabling.IsIdentifier(opts.Table) {
		return nil, errors.Errorf("invalid table name %q", opts.Table)
	}

	return &Repository{
		db:      db,
		log:     log,
		table:   opts.Table,
		sorting: sorting,
	}, nil

}

func (r *Repository) selectUsers() string {
	return fmt.Sprintf("SELECT user_id, name, email, age FROM %s", r.table)
}

// FetchPage returns one LIMIT/OFFSET window of users ordered by the sort key.
// Every call borrows a pooled connection and returns it before FetchPage returns.
func (r *Repository) FetchPage(ctx context.Context, paging tabling.Paging) ([]User, error) {

	sorting := r.sorting
	res, err := r.db.Exec(ctx, r.selectUsers(), nil, &tabling.Tabling{
		Paging:  &paging,
		Sorting: &sorting,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch page")
	}

	// capacity follows the rows actually returned, not the requested limit
	users := []User{}
	if err := res.Scanner.ScanStructs(&users); err != nil {
		return nil, err
	}

	r.log.With(ctx).WithParams(log.Params{"offset": paging.Offset, "limit": paging.Limit, "count": len(users)}).Debug("page fetched")

	return users, nil

}

// LazyPaginate returns a paginator over FetchPage. Every call starts again at offset 0.
func (r *Repository) LazyPaginate(pageSize int) (*stream.Paginator[User], error) {
	return stream.NewPaginator[User](stream.PageFetcherFunc[User](r.FetchPage), pageSize)
}

// StreamUsers streams every user, one row per Next, from a single open cursor.
// The cursor is released when the stream is exhausted, fails, or is closed.
func (r *Repository) StreamUsers(ctx context.Context) (*source.Rows[User], error) {

	column, direction, _ := r.sorting.Parse()
	order := "ASC"
	if direction == "-" {
		order = "DESC"
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf("%s ORDER BY %s %s", r.selectUsers(), column, order))
	if err != nil {
		return nil, errors.Wrap(err, "failed to stream users")
	}

	return source.NewRows[User](rows, source.ScanStruct[User]), nil

}

// StreamInBatches groups the user stream into batches of size rows.
func (r *Repository) StreamInBatches(ctx context.Context, size int) (*stream.Batcher[User], error) {

	if err := (tabling.Paging{Limit: size}).Validate(); err != nil {
		return nil, err
	}

	rows, err := r.StreamUsers(ctx)
	if err != nil {
		return nil, err
	}

	return stream.NewBatcher[User](rows, size)

}

// BatchProcessing streams users in batches and keeps only those older than minAge.
func (r *Repository) BatchProcessing(ctx context.Context, batchSize int, minAge int) (*stream.Filter[User], error) {

	batches, err := r.StreamInBatches(ctx, batchSize)
	if err != nil {
		return nil, err
	}

	return stream.NewFilter[User](batches, OlderThan(minAge)), nil

}

// StreamAges streams the age column alone.
func (r *Repository) StreamAges(ctx context.Context) (*source.Rows[int], error) {

	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT age FROM %s", r.table))
	if err != nil {
		return nil, errors.Wrap(err, "failed to stream ages")
	}

	return source.NewRows[int](rows, source.ScanScalar[int]), nil

}

// AverageAge computes the average age in a single pass over StreamAges.
func (r *Repository) AverageAge(ctx context.Context) (result.Stats, error) {

	ages, err := r.StreamAges(ctx)
	if err != nil {
		return result.Stats{}, err
	}

	stats, err := stream.Aggregate(ctx, ages)
	if err != nil {
		r.log.With(ctx).WithStack(err).Error("age stream failed")
		return stats, err
	}

	r.log.With(ctx).WithParams(log.Params{"count": stats.Count, "average": stats.Average}).Debug("average age computed")

	return stats, nil

}
