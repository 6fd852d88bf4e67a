// Package seed creates the user_data schema and loads it from CSV.
package seed

import (
	"context"
	"fmt"
	"os"

	"userstream/log"
	"userstream/source"
	"userstream/source/mariadb"
	"userstream/tabling"
	"userstream/vars"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Options configures a Seeder. An empty Table means the default user_data table.
type Options struct {
	Table string
}

// Seeder prepares a table for streaming.
type Seeder struct {
	db    *source.DB
	log   log.Logger
	table string
}

// New returns a Seeder for db.
func New(db *source.DB, log log.Logger, opts Options) (*Seeder, error) {

	if opts.Table == "" {
		opts.Table = vars.DefaultTable
	}

	if !tabling.IsIdentifier(opts.Table) {
		return nil, errors.Errorf("invalid table name %q", opts.Table)
	}

	return &Seeder{
		db:    db,
		log:   log,
		table: opts.Table,
	}, nil

}

// CreateTable creates the table if it does not exist.
func (s *Seeder) CreateTable(ctx context.Context) error {

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	user_id CHAR(36) NOT NULL,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	age DECIMAL(3, 0) NOT NULL,
	PRIMARY KEY (user_id)%s
)`, s.table, s.indexClause())

	if _, err := s.db.Statement(ctx, schema); err != nil {
		return errors.Wrap(err, "failed creating table")
	}

	s.log.With(ctx).WithParam("table", s.table).Info("table ensured")
	return nil

}

func (s *Seeder) indexClause() string {
	if s.db.Dialect() == mariadb.Source {
		return ",\n\tINDEX idx_user_id (user_id)"
	}
	return ""
}

// Count returns the number of rows in the table.
func (s *Seeder) Count(ctx context.Context) (int, error) {

	res, err := s.db.Exec(ctx, fmt.Sprintf("SELECT COUNT(*) AS total FROM %s", s.table), nil, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count rows")
	}

	var out struct {
		Total int `db:"total"`
	}
	if err := res.Scanner.ScanStruct(&out); err != nil {
		return 0, err
	}

	return out.Total, nil

}

// InsertFromCSV loads the CSV file at path into an empty table, in one transaction.
// A table that already has rows is left alone and 0 is returned.
func (s *Seeder) InsertFromCSV(ctx context.Context, path string) (inserted int, err error) {

	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.log.With(ctx).WithParams(log.Params{"table": s.table, "rows": count}).Info("table already contains data, skipping insertion")
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return 0, err
	}

	s.log.With(ctx).WithParams(log.Params{"path": path, "records": len(records)}).Info("inserting data")

	txCtx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := s.db.Rollback(txCtx); rbErr != nil {
			s.log.With(ctx).WithStack(rbErr).Error(rbErr)
		}
		inserted = 0
	}()

	insert := fmt.Sprintf("INSERT INTO %s (user_id, name, email, age) VALUES ({{ .user_id }}, {{ .name }}, {{ .email }}, {{ .age }})", s.table)
	for _, rec := range records {
		_, err = s.db.ExecTx(txCtx, insert, map[string]any{
			"user_id": uuid.NewString(),
			"name":    rec.Name,
			"email":   rec.Email,
			"age":     rec.AgeValue(),
		}, nil)
		if err != nil {
			return inserted, errors.Wrap(err, "failed to insert record")
		}
		inserted++
	}

	if err = s.db.Commit(txCtx); err != nil {
		return inserted, err
	}

	s.log.With(ctx).WithParam("inserted", inserted).Info("data inserted")
	return inserted, nil

}
