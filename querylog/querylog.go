// Package querylog wraps query-executing functions with before/after log lines.
package querylog

import (
	"context"

	"userstream/log"
)

// Log messages written by LogQueries.
const (
	// MsgExecuting precedes the call, with the query in the "query" field.
	MsgExecuting = "executing SQL query"
	// MsgNoQuery replaces MsgExecuting when the query is empty.
	MsgNoQuery = "executing function without explicit SQL query argument"
	// MsgCompleted follows the call, with an "error" field when it failed.
	MsgCompleted = "query execution completed"
)

// QueryFunc executes query and returns its outcome.
type QueryFunc[T any] func(ctx context.Context, query string) (T, error)

// LogQueries returns f wrapped with logging. The query is logged before f runs, or
// MsgNoQuery when it is empty, and MsgCompleted after f returns.
// Arguments, results and errors pass through untouched.
func LogQueries[T any](logger log.Logger, f QueryFunc[T]) QueryFunc[T] {

	return func(ctx context.Context, query string) (T, error) {

		l := logger.With(ctx)
		if query != "" {
			l.WithParam("query", query).Info(MsgExecuting)
		} else {
			l.Info(MsgNoQuery)
		}

		out, err := f(ctx, query)

		if err != nil {
			l.WithParam("error", err.Error()).Info(MsgCompleted)
		} else {
			l.Info(MsgCompleted)
		}

		return out, err
	}

}
