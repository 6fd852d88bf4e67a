package mariadb

import (
	"fmt"
	"net/url"
	"time"

	"userstream/log"
	"userstream/source"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const Source = "mariadb"

// errBadDB is ER_BAD_DB_ERROR, returned when the requested schema does not exist.
const errBadDB = 1049

type ConnectParams struct {
	Host            string
	Port            int
	Username        string
	Password        string
	DatabaseName    string
	Parameters      url.Values
	ConnMaxIdleTime int
	ConnMaxLifetime int
	MaxIdleConns    int
	MaxOpenConns    int
}

// Connect establishes a connection to a MariaDB database.
// When the database does not exist yet, it connects to the server alone, creates the
// database and connects again.
func Connect(params ConnectParams, log log.Logger) (*source.DB, error) {

	conn, err := sqlx.Connect("mysql", DSN(params, params.DatabaseName))
	if err != nil {
		if !isBadDB(err) {
			return nil, errors.Wrap(err, "failed to connect to mariadb")
		}

		log.WithParam("database", params.DatabaseName).Warn("database does not exist, creating it")
		if err := createDatabase(params); err != nil {
			return nil, err
		}

		conn, err = sqlx.Connect("mysql", DSN(params, params.DatabaseName))
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to mariadb")
		}
	}

	// set connection parameters
	conn.SetConnMaxIdleTime(time.Duration(params.ConnMaxIdleTime) * time.Second)
	conn.SetConnMaxLifetime(time.Duration(params.ConnMaxLifetime) * time.Second)
	conn.SetMaxIdleConns(params.MaxIdleConns)
	conn.SetMaxOpenConns(params.MaxOpenConns)

	log.WithParams(map[string]interface{}{"host": params.Host, "database": params.DatabaseName}).Info("connected to mariadb")

	return source.New(conn, Source, log), nil

}

// DSN formats the driver data source name. An empty dbName connects to the server only.
func DSN(params ConnectParams, dbName string) string {

	cfg := mysql.NewConfig()
	cfg.User = params.Username
	cfg.Passwd = params.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", params.Host, params.Port)
	cfg.DBName = dbName

	if len(params.Parameters) > 0 {
		cfg.Params = make(map[string]string, len(params.Parameters))
		for k := range params.Parameters {
			cfg.Params[k] = params.Parameters.Get(k)
		}
	}

	return cfg.FormatDSN()

}

// createDatabase creates the configured database on the server.
func createDatabase(params ConnectParams) error {

	server, err := sqlx.Connect("mysql", DSN(params, ""))
	if err != nil {
		return errors.Wrap(err, "failed to connect to mariadb server")
	}
	defer server.Close()

	_, err = server.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` DEFAULT CHARACTER SET 'utf8'", params.DatabaseName))
	if err != nil {
		return errors.Wrap(err, "failed creating database")
	}

	return nil

}

func isBadDB(err error) bool {

	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errBadDB

}
