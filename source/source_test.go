package source

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"userstream/log"
	"userstream/tabling"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/suite"
)

type user struct {
	UserID string `db:"user_id"`
	Name   string `db:"name"`
	Email  string `db:"email"`
	Age    int    `db:"age"`
}

type DBTestSuite struct {
	suite.Suite
	ctx context.Context
	db  *DB
}

func TestDBTestSuite(t *testing.T) {
	suite.Run(t, new(DBTestSuite))
}

func (s *DBTestSuite) SetupTest() {
	s.ctx = context.Background()

	conn, err := sqlx.Connect("sqlite3", filepath.Join(s.T().TempDir(), "source.db"))
	s.Require().NoError(err)

	// a single connection makes a leaked cursor block the next query
	conn.SetMaxOpenConns(1)

	s.db = New(conn, "sqlite", log.NewMock())

	_, err = s.db.Statement(s.ctx, `CREATE TABLE user_data (user_id CHAR(36) PRIMARY KEY, name VARCHAR(255) NOT NULL, email VARCHAR(255) NOT NULL, age DECIMAL(3,0) NOT NULL)`)
	s.Require().NoError(err)

	ages := []int{35, 22, 48, 67, 119, 49, 22, 102}
	for i, age := range ages {
		_, err = s.db.Statement(s.ctx, "INSERT INTO user_data (user_id, name, email, age) VALUES (?, ?, ?, ?)",
			fmt.Sprintf("id-%02d", i), fmt.Sprintf("user %d", i), fmt.Sprintf("user%d@example.com", i), age)
		s.Require().NoError(err)
	}
}

func (s *DBTestSuite) TearDownTest() {
	s.NoError(s.db.Close(s.ctx))
}

func (s *DBTestSuite) TestExec_Paging() {
	res, err := s.db.Exec(s.ctx, "SELECT user_id, name, email, age FROM user_data", nil, &tabling.Tabling{
		Paging:  &tabling.Paging{Limit: 3, Offset: 3},
		Sorting: &tabling.Sorting{Sort: "+user_id"},
	})
	s.Require().NoError(err)

	var users []user
	s.Require().NoError(res.Scanner.ScanStructs(&users))

	s.Require().Len(users, 3)
	s.Equal("id-03", users[0].UserID)
	s.Equal("id-05", users[2].UserID)
	s.Equal(67, users[0].Age)
	s.Require().NotNil(res.Metadata.Paging)
	s.Equal(3, res.Metadata.Paging.Count)
	s.Equal([]string{"user_id", "name", "email", "age"}, res.Metadata.Columns)
}

func (s *DBTestSuite) TestExec_TemplateParams() {
	res, err := s.db.Exec(s.ctx, "SELECT user_id, age FROM user_data WHERE age > {{ .min_age }}", map[string]any{"min_age": 100}, &tabling.Tabling{
		Sorting: &tabling.Sorting{Sort: "-age"},
	})
	s.Require().NoError(err)

	var rows []map[string]interface{}
	s.Require().NoError(res.Scanner.ScanMaps(&rows))

	s.Require().Len(rows, 2)
	s.Equal("id-04", rows[0]["user_id"])
	s.Equal("id-07", rows[1]["user_id"])
}

func (s *DBTestSuite) TestExec_ScanStructNoRows() {
	res, err := s.db.Exec(s.ctx, "SELECT user_id, name, email, age FROM user_data WHERE age > {{ .age }}", map[string]any{"age": 500}, nil)
	s.Require().NoError(err)

	var u user
	s.ErrorIs(res.Scanner.ScanStruct(&u), sql.ErrNoRows)
}

func (s *DBTestSuite) TestExec_StatementResult() {
	res, err := s.db.Exec(s.ctx, "UPDATE user_data SET age = {{ .age }} WHERE user_id = {{ .id }}", map[string]any{"age": 36, "id": "id-00"}, nil)
	s.Require().NoError(err)

	s.Require().NoError(res.Scanner.ScanMap(map[string]interface{}{}))
	s.Require().True(res.Metadata.HasSQLResult())

	affected, err := res.Metadata.SQLResult.RowsAffected()
	s.Require().NoError(err)
	s.EqualValues(1, affected)
}

func (s *DBTestSuite) TestExec_Errors() {
	_, err := s.db.Exec(s.ctx, "PRAGMA user_version", nil, nil)
	s.Error(err)

	_, err = s.db.Exec(s.ctx, "SELECT user_id FROM user_data", nil, &tabling.Tabling{Paging: &tabling.Paging{Limit: 2}})
	s.ErrorIs(err, ErrUnstablePaging)

	_, err = s.db.Exec(s.ctx, "SELECT user_id FROM user_data", nil, &tabling.Tabling{
		Paging:  &tabling.Paging{Limit: 0},
		Sorting: &tabling.Sorting{Sort: "user_id"},
	})
	s.ErrorIs(err, tabling.ErrInvalidPaging)
}

func (s *DBTestSuite) TestRows_StreamAndEarlyClose() {
	rows, err := s.db.Query(s.ctx, "SELECT user_id, name, email, age FROM user_data ORDER BY user_id")
	s.Require().NoError(err)

	it := NewRows[user](rows, ScanStruct[user])
	s.Require().True(it.Next(s.ctx))
	s.Equal("id-00", it.Value().UserID)
	s.Require().True(it.Next(s.ctx))
	s.Equal("id-01", it.Value().UserID)

	s.Require().NoError(it.Close())
	s.NoError(it.Close())
	s.False(it.Next(s.ctx))
	s.NoError(it.Err())

	// the only pooled connection must be free again
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	_, err = s.db.Statement(ctx, "UPDATE user_data SET age = age")
	s.NoError(err)
}

func (s *DBTestSuite) TestRows_ScalarExhaustion() {
	rows, err := s.db.Query(s.ctx, "SELECT age FROM user_data ORDER BY user_id")
	s.Require().NoError(err)

	it := NewRows[int](rows, ScanScalar[int])

	var ages []int
	for it.Next(s.ctx) {
		ages = append(ages, it.Value())
	}
	s.NoError(it.Err())
	s.Equal([]int{35, 22, 48, 67, 119, 49, 22, 102}, ages)

	// exhaustion already released the cursor
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	_, err = s.db.Statement(ctx, "UPDATE user_data SET age = age")
	s.NoError(err)
}

func (s *DBTestSuite) TestRows_ScanError() {
	rows, err := s.db.Query(s.ctx, "SELECT name FROM user_data")
	s.Require().NoError(err)

	it := NewRows[int](rows, ScanScalar[int])
	s.False(it.Next(s.ctx))
	s.Error(it.Err())
}

func (s *DBTestSuite) TestTransaction_Rollback() {
	txCtx, err := s.db.Begin(s.ctx)
	s.Require().NoError(err)

	_, err = s.db.Statement(txCtx, "DELETE FROM user_data")
	s.Require().NoError(err)
	s.Require().NoError(s.db.Rollback(txCtx))

	res, err := s.db.Exec(s.ctx, "SELECT COUNT(*) AS total FROM user_data", nil, nil)
	s.Require().NoError(err)

	count := map[string]interface{}{}
	s.Require().NoError(res.Scanner.ScanMap(count))
	s.EqualValues(8, count["total"])

	s.Error(s.db.Commit(s.ctx))
}

func (s *DBTestSuite) TestExecTx_Commit() {
	_, err := s.db.ExecTx(s.ctx, "DELETE FROM user_data", nil, nil)
	s.Error(err)

	txCtx, err := s.db.Begin(s.ctx)
	s.Require().NoError(err)

	_, err = s.db.ExecTx(txCtx, "DELETE FROM user_data WHERE age < {{ .age }}", map[string]any{"age": 30}, nil)
	s.Require().NoError(err)
	s.Require().NoError(s.db.Commit(txCtx))

	rows, err := s.db.Query(s.ctx, "SELECT age FROM user_data")
	s.Require().NoError(err)

	ages := NewRows[int](rows, ScanScalar[int])
	defer ages.Close()

	n := 0
	for ages.Next(s.ctx) {
		n++
	}
	s.Equal(6, n)
}
