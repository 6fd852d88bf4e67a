package source

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	"userstream/log"
	"userstream/parser"
	"userstream/result"
	"userstream/tabling"
	"userstream/vars"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/pkg/errors"
)

// DBI is an interface that represents a database interface.
// It is implemented by sqlx.DB and sqlx.Tx.
type DBI interface {
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// DB is an opened relational data source. Every dialect opener in the source subpackages
// returns one.
type DB struct {
	conn    *sqlx.DB
	dialect string
	parser  parser.Parser
	log     log.Logger
}

type contextKey string

var (
	contextKeyTx = contextKey("tx") // contextKeyTx is a context key used to store the transaction in the context.
)

var cteBody = regexp.MustCompile(`(?i)WITH\s+[\s\S]*?\)`)

// New wraps an opened sqlx connection.
func New(conn *sqlx.DB, dialect string, log log.Logger) *DB {

	// set mapper to use standard tag key
	conn.Mapper = reflectx.NewMapperFunc(vars.TagKey, strings.ToLower)

	return &DB{
		conn:    conn,
		dialect: dialect,
		parser:  parser.New(),
		log:     log,
	}

}

// Dialect returns the driver family, e.g. "mariadb" or "sqlite".
func (d *DB) Dialect() string {
	return d.dialect
}

// Ping checks that the database is still alive and responsive.
func (d *DB) Ping(ctx context.Context) error {

	if err := d.conn.PingContext(ctx); err != nil {
		return errors.Wrapf(err, "failed to ping %s", d.dialect)
	}

	return nil

}

// Close closes the connection pool.
func (d *DB) Close(ctx context.Context) error {

	if err := d.conn.Close(); err != nil {
		return errors.Wrap(err, "failed to close connection")
	}

	return nil

}

// Query runs a raw query and returns the open cursor. The caller owns the rows and must close them.
// A transaction found in ctx is used when present.
func (d *DB) Query(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {

	d.log.With(ctx).WithParams(log.Params{"query": query, "args": args}).Debug("opening cursor")

	rows, err := d.dbi(ctx).QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query")
	}

	return rows, nil

}

// Statement runs a raw statement that returns no rows.
// A transaction found in ctx is used when present.
func (d *DB) Statement(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {

	d.log.With(ctx).WithParams(log.Params{"query": query}).Debug("executing statement")

	res, err := d.dbi(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to exec statement")
	}

	return res, nil

}

// Exec compiles the templated query with data, applies tabling and runs it.
// SELECT results are returned unread in the result scanner, the caller must scan or close them.
func (d *DB) Exec(ctx context.Context, query string, data map[string]any, tabling *tabling.Tabling) (*result.Result, error) {

	return d.exec(ctx, d.conn, query, data, tabling)

}

// ExecTx is Exec within the transaction carried by ctx.
func (d *DB) ExecTx(ctx context.Context, query string, data map[string]any, tabling *tabling.Tabling) (*result.Result, error) {

	// get tx from context
	tx, err := d.getTx(ctx)
	if err != nil {
		return nil, err
	}

	return d.exec(ctx, tx, query, data, tabling)

}

// exec parses the query, rewrites it for tabling and dispatches it by statement type.
func (d *DB) exec(ctx context.Context, db DBI, query string, data map[string]any, tablingData *tabling.Tabling) (*result.Result, error) {

	var (
		tabling  *Tabling
		metadata = new(result.Metadata)
		rows     *sqlx.Rows
		res      sql.Result
	)

	d.log.With(ctx).WithParams(log.Params{"query_og": query, "data": data}).Debug("executing query")

	// parse query
	query, parameters, err := d.parser.Parse(ctx, query, data)
	if err != nil {
		return nil, err
	}

	d.log.With(ctx).WithParams(log.Params{"query_parsed": query, "parameters": parameters}).Debug("query parsed")

	if tablingData != nil {
		tabling = NewTabling(query, tablingData)

		query, err = tabling.Init()
		if err != nil {
			return nil, err
		}

		d.log.With(ctx).WithParams(log.Params{"query_tabling": query}).Debug("query tabling")
	}

	queryType := getQueryType(query)
	d.log.With(ctx).WithParams(log.Params{"query_type": queryType}).Debug("query type")
	switch queryType {
	case "INSERT", "UPDATE", "DELETE", "DDL":
		// execute query
		res, err = db.ExecContext(ctx, query, parameters...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to exec query")
		}
	case "SELECT":
		// query the database
		rows, err = db.QueryxContext(ctx, query, parameters...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to query query")
		}
	default:
		return nil, errors.New("unknown query type")

	}

	responser := &responser{
		rows:        rows,
		res:         res,
		mapScanFunc: MapScan,
		tabling:     tabling,
		meta:        metadata,
	}

	if rows != nil {
		columns, _ := rows.Columns()
		metadata.Columns = columns
	}
	return result.Init(responser, metadata), nil
}

// getQueryType identifies the type of SQL query
func getQueryType(sql string) string {

	// Trim leading and trailing spaces and convert to uppercase
	sql = strings.TrimSpace(sql)
	sql = strings.ToUpper(sql)

	// check if the query has returning
	if strings.Contains(sql, "RETURNING") {
		return "SELECT"
	}

	if strings.HasPrefix(sql, "WITH") {

		// Remove the CTE bodies and analyze the main query
		return getQueryType(cteBody.ReplaceAllString(sql, ""))
	}

	switch {
	case strings.HasPrefix(sql, "INSERT"):
		return "INSERT"
	case strings.HasPrefix(sql, "UPDATE"):
		return "UPDATE"
	case strings.HasPrefix(sql, "DELETE"):
		return "DELETE"
	case strings.HasPrefix(sql, "SELECT"):
		return "SELECT"
	case strings.HasPrefix(sql, "CREATE"), strings.HasPrefix(sql, "DROP"), strings.HasPrefix(sql, "ALTER"):
		return "DDL"
	default:
		return "UNKNOWN"
	}
}

// dbi returns the transaction carried by ctx, or the pool.
func (d *DB) dbi(ctx context.Context) DBI {

	if tx, ok := ctx.Value(contextKeyTx).(*sqlx.Tx); ok {
		return tx
	}
	return d.conn

}

// getTx returns the transaction stored in the context.
func (d *DB) getTx(ctx context.Context) (DBI, error) {

	if tx, ok := ctx.Value(contextKeyTx).(*sqlx.Tx); ok {
		return tx, nil
	}
	return nil, errors.New("failed to get transaction from context")

}

// Begin starts a new transaction.
// The returned context.Context carries the transaction, Query, Statement and ExecTx pick it up from there.
func (d *DB) Begin(ctx context.Context) (context.Context, error) {

	tx, err := d.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}

	// create and return a new context with the transaction information
	ctx = context.WithValue(ctx, contextKeyTx, tx)
	return ctx, nil
}

// Commit commits the transaction carried by ctx.
func (d *DB) Commit(ctx context.Context) error {

	tx, ok := ctx.Value(contextKeyTx).(*sqlx.Tx)
	if !ok {
		return errors.New("failed to commit, transaction not found in context")
	}

	err := tx.Commit()
	if err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil

}

// Rollback rolls back the transaction carried by ctx.
func (d *DB) Rollback(ctx context.Context) error {

	tx, ok := ctx.Value(contextKeyTx).(*sqlx.Tx)
	if !ok {
		return errors.New("failed to rollback, transaction not found in context")
	}

	err := tx.Rollback()
	if err != nil {
		return errors.Wrap(err, "failed to rollback transaction")
	}

	return nil
}
