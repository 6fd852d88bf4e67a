package sqlite

import (
	"net/url"

	"userstream/log"
	"userstream/source"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const Source = "sqlite"

type OpenParams struct {
	Path         string
	Parameters   url.Values
	MaxOpenConns int
}

// Open opens (and creates when missing) the sqlite database file at params.Path.
func Open(params OpenParams, log log.Logger) (*source.DB, error) {

	if params.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	conn, err := sqlx.Connect("sqlite3", DSN(params))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite")
	}

	conn.SetMaxOpenConns(params.MaxOpenConns)

	log.WithParam("path", params.Path).Info("opened sqlite")

	return source.New(conn, Source, log), nil

}

// DSN returns the file path with its driver parameters appended.
func DSN(params OpenParams) string {

	if len(params.Parameters) == 0 {
		return params.Path
	}

	return params.Path + "?" + params.Parameters.Encode()

}
