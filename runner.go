package userstream

import (
	"context"
	"reflect"

	"userstream/log"
	"userstream/mapper"
	"userstream/querylog"
	"userstream/result"
	"userstream/tabling"
	"userstream/trace"

	"github.com/pkg/errors"
)

// Runnerer builds and executes a named query.
type Runnerer interface {
	// WithParams adds params to the query.
	// Params can be a map or a struct tagged with `db`, passed by value or by pointer.
	// Existing keys are overwritten.
	WithParams(interface{}) Runnerer
	// WithParam sets a single param, overwriting any earlier value.
	WithParam(key string, value interface{}) Runnerer
	WithPaging(tabling.Paging) Runnerer
	WithSorting(sort string) Runnerer
	ScanMap(dest map[string]interface{}) Runnerer
	ScanMaps(dest *[]map[string]interface{}) Runnerer
	ScanStruct(dest interface{}) Runnerer
	ScanStructs(dest interface{}) Runnerer
	Execute(ctx context.Context) (*result.Metadata, error)
}

// Runner holds a named query, its params and where to scan the result.
type Runner struct {
	runnerCode    string
	params        map[string]interface{}
	client        *Client
	log           log.Logger
	inTransaction bool
	scanner       *scanTarget
	tabling       *tabling.Tabling
	err           error
}

func (c *Client) newRunner(code string, inTransaction bool) *Runner {

	return &Runner{
		runnerCode:    code,
		client:        c,
		params:        make(map[string]interface{}),
		log:           c.log,
		inTransaction: inTransaction,
	}

}

func (r *Runner) WithParam(key string, value interface{}) Runnerer {

	r.params[key] = value
	return r

}

func (r *Runner) WithParams(params interface{}) Runnerer {

	var values map[string]interface{}

	switch p := params.(type) {
	case map[string]interface{}:
		values = p
	case *map[string]interface{}:
		if p != nil {
			values = *p
		}
	default:
		if !isStruct(params) {
			r.err = errors.New("params must be a map or a struct")
			return r
		}

		m, err := mapper.ToMap(params)
		if err != nil {
			r.err = errors.Wrap(err, "failed to decode params")
			return r
		}
		values = m
	}

	for k, v := range values {
		r.params[k] = v
	}
	return r

}

// isStruct reports whether i is a struct or a pointer to one.
func isStruct(i interface{}) bool {

	t := reflect.TypeOf(i)
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct

}

// WithPaging windows the query with LIMIT/OFFSET. Paging needs a sort key, see WithSorting.
func (r *Runner) WithPaging(paging tabling.Paging) Runnerer {

	if r.tabling == nil {
		r.tabling = &tabling.Tabling{}
	}

	r.tabling.Paging = &paging
	return r

}

// WithSorting orders the query by a column, "+col" ascending or "-col" descending.
func (r *Runner) WithSorting(sort string) Runnerer {

	if r.tabling == nil {
		r.tabling = &tabling.Tabling{}
	}

	r.tabling.Sorting = &tabling.Sorting{
		Sort: sort,
	}
	return r

}

// ScanMap scans the first row into dest.
func (r *Runner) ScanMap(dest map[string]interface{}) Runnerer {

	r.scanner = newScanTarget(scannerMap, dest)
	return r

}

// ScanMaps scans every row into dest.
func (r *Runner) ScanMaps(dest *[]map[string]interface{}) Runnerer {

	r.scanner = newScanTarget(scannerMaps, dest)
	return r

}

// ScanStruct scans the first row into dest, a pointer to a struct.
func (r *Runner) ScanStruct(dest interface{}) Runnerer {

	r.scanner = newScanTarget(scannerStruct, dest)
	return r

}

// ScanStructs scans every row into dest, a pointer to a slice of structs.
func (r *Runner) ScanStructs(dest interface{}) Runnerer {

	r.scanner = newScanTarget(scannerStructs, dest)
	return r

}

// Execute runs the query and scans its result into the chosen destination.
// sql.ErrNoRows is reported as ErrNoRows, an unknown runner code as ErrRunnerNotFound.
func (r *Runner) Execute(ctx context.Context) (*result.Metadata, error) {

	if r.err != nil {
		return nil, r.err
	}

	ctx = trace.EnsureRequestID(ctx)

	query, err := r.getRunner()
	if err != nil {
		r.log.With(ctx).WithParam("runner_code", r.runnerCode).Error(err)
		return nil, err
	}

	meta, err := querylog.LogQueries[*result.Metadata](r.log, r.execute)(ctx, query)
	if err != nil {
		r.log.With(ctx).WithStack(err).Error(err)
		return nil, mapError(err)
	}

	return meta, nil

}

// execute runs query on the pool, or on the transaction carried by ctx.
func (r *Runner) execute(ctx context.Context, query string) (*result.Metadata, error) {

	var (
		res *result.Result
		err error
	)

	if r.inTransaction {
		r.log.With(ctx).WithParams(log.Params{"runner_code": r.runnerCode}).Debug("executing runner in transaction")
		res, err = r.client.db.ExecTx(ctx, query, r.params, r.tabling)
	} else {
		r.log.With(ctx).WithParams(log.Params{"runner_code": r.runnerCode}).Debug("executing runner")
		res, err = r.client.db.Exec(ctx, query, r.params, r.tabling)
	}
	if err != nil {
		return nil, err
	}

	if err := r.scan(ctx, res); err != nil {
		return nil, err
	}

	res.Metadata.RequestID = trace.GetRequestIDFromContext(ctx)
	return res.Metadata, nil

}

func (r *Runner) getRunner() (string, error) {

	if q, ok := r.client.runners[r.runnerCode]; ok {
		return q, nil
	}

	return "", errors.Wrap(ErrRunnerNotFound, r.runnerCode)

}

// scan scans the result to the destination.
func (r *Runner) scan(ctx context.Context, res *result.Result) error {

	if r.scanner == nil {
		r.scanner = newScanTarget(noScanner, nil)
	}

	r.log.With(ctx).WithParams(log.Params{"runner_code": r.runnerCode}).Debug("scanning result")

	switch r.scanner.kind {
	case scannerMap:
		return res.Scanner.ScanMap(r.scanner.dest.(map[string]interface{}))
	case scannerMaps:
		return res.Scanner.ScanMaps(r.scanner.dest.(*[]map[string]interface{}))
	case scannerStruct:
		return res.Scanner.ScanStruct(r.scanner.dest)
	case scannerStructs:
		return res.Scanner.ScanStructs(r.scanner.dest)
	default:
		r.log.With(ctx).WithParams(log.Params{"runner_code": r.runnerCode}).Debug("no scanner found, closing scanner")
		return res.Scanner.Close()
	}

}
