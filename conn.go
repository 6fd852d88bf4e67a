package userstream

import (
	"context"
	"net/url"

	"userstream/log"
	"userstream/result"
	"userstream/source"
	"userstream/source/mariadb"
	"userstream/source/sqlite"
	"userstream/tabling"

	"github.com/pkg/errors"
)

// Transactioner is what the client needs from an opened data source.
// *source.DB implements it.
type Transactioner interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	Exec(ctx context.Context, query string, data map[string]any, tabling *tabling.Tabling) (*result.Result, error)
	ExecTx(ctx context.Context, query string, data map[string]any, tabling *tabling.Tabling) (*result.Result, error)
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

var _ Transactioner = (*source.DB)(nil)

// openDataSource opens the data source described by ds.
func openDataSource(ds *DataSource, log log.Logger) (*source.DB, error) {

	log.WithParams(logParams(ds)).Debug("opening data source")

	switch ds.Type {
	case mariadb.Source:
		return openMariaDB(ds.Config, log)
	case sqlite.Source:
		return openSQLite(ds.Config, log)
	default:
		return nil, errors.Errorf("source type %q not supported", ds.Type)
	}

}

func logParams(ds *DataSource) log.Params {
	return log.Params{"name": ds.Name, "type": ds.Type}
}

// openMariaDB opens a new connection to a MariaDB database.
func openMariaDB(cfg ConfigDetails, log log.Logger) (*source.DB, error) {

	return mariadb.Connect(
		mariadb.ConnectParams{
			Host:            cfg.Host,
			Port:            cfg.Port,
			Username:        cfg.Username,
			Password:        cfg.Password,
			DatabaseName:    cfg.DatabaseName,
			Parameters:      url.Values(cfg.Parameters),
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			MaxIdleConns:    cfg.MaxIdleConns,
			MaxOpenConns:    cfg.MaxOpenConns,
		},
		log,
	)

}

// openSQLite opens the sqlite file named in cfg.Path.
func openSQLite(cfg ConfigDetails, log log.Logger) (*source.DB, error) {

	return sqlite.Open(
		sqlite.OpenParams{
			Path:         cfg.Path,
			Parameters:   url.Values(cfg.Parameters),
			MaxOpenConns: cfg.MaxOpenConns,
		},
		log,
	)

}
