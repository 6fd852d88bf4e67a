package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"userstream/log"
	"userstream/source"
	"userstream/source/sqlite"

	"github.com/stretchr/testify/suite"
)

func readFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

type SeedTestSuite struct {
	suite.Suite
	ctx    context.Context
	dir    string
	db     *source.DB
	seeder *Seeder
}

func TestSeedTestSuite(t *testing.T) {
	suite.Run(t, new(SeedTestSuite))
}

func (s *SeedTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.dir = s.T().TempDir()

	db, err := sqlite.Open(sqlite.OpenParams{Path: filepath.Join(s.dir, "seed.db")}, log.NewMock())
	s.Require().NoError(err)
	s.db = db

	s.seeder, err = New(db, log.NewMock(), Options{})
	s.Require().NoError(err)
}

func (s *SeedTestSuite) TearDownTest() {
	s.NoError(s.db.Close(s.ctx))
}

func (s *SeedTestSuite) sample() string {
	path := filepath.Join(s.dir, "user_data.csv")
	s.Require().NoError(WriteSample(path))
	return path
}

func (s *SeedTestSuite) TestNew_InvalidTable() {
	_, err := New(s.db, log.NewMock(), Options{Table: "user_data; --"})
	s.Error(err)
}

func (s *SeedTestSuite) TestCreateTable_Idempotent() {
	s.Require().NoError(s.seeder.CreateTable(s.ctx))
	s.Require().NoError(s.seeder.CreateTable(s.ctx))

	count, err := s.seeder.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *SeedTestSuite) TestInsertFromCSV() {
	s.Require().NoError(s.seeder.CreateTable(s.ctx))

	inserted, err := s.seeder.InsertFromCSV(s.ctx, s.sample())
	s.Require().NoError(err)
	s.Equal(8, inserted)

	count, err := s.seeder.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(8, count)

	rows, err := s.db.Query(s.ctx, "SELECT user_id FROM user_data")
	s.Require().NoError(err)
	defer rows.Close()

	ids := map[string]bool{}
	for rows.Next() {
		var id string
		s.Require().NoError(rows.Scan(&id))
		s.Len(id, 36)
		ids[id] = true
	}
	s.Require().NoError(rows.Err())
	s.Len(ids, 8)
}

func (s *SeedTestSuite) TestInsertFromCSV_SkipsNonEmptyTable() {
	s.Require().NoError(s.seeder.CreateTable(s.ctx))

	_, err := s.seeder.InsertFromCSV(s.ctx, s.sample())
	s.Require().NoError(err)

	inserted, err := s.seeder.InsertFromCSV(s.ctx, s.sample())
	s.Require().NoError(err)
	s.Zero(inserted)

	count, err := s.seeder.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(8, count)
}

func (s *SeedTestSuite) TestInsertFromCSV_BadAges() {
	s.Require().NoError(s.seeder.CreateTable(s.ctx))

	path := filepath.Join(s.dir, "bad.csv")
	s.Require().NoError(os.WriteFile(path, []byte("name,email,age\nA,a@example.com,abc\nB,b@example.com,-3\nC,c@example.com,41\n"), 0o600))

	inserted, err := s.seeder.InsertFromCSV(s.ctx, path)
	s.Require().NoError(err)
	s.Equal(3, inserted)

	rows, err := s.db.Query(s.ctx, "SELECT age FROM user_data ORDER BY name")
	s.Require().NoError(err)
	defer rows.Close()

	var ages []int
	for rows.Next() {
		var age int
		s.Require().NoError(rows.Scan(&age))
		ages = append(ages, age)
	}
	s.Require().NoError(rows.Err())
	s.Equal([]int{0, 0, 41}, ages)
}

func (s *SeedTestSuite) TestInsertFromCSV_MissingFile() {
	s.Require().NoError(s.seeder.CreateTable(s.ctx))

	_, err := s.seeder.InsertFromCSV(s.ctx, filepath.Join(s.dir, "absent.csv"))
	s.ErrorIs(err, os.ErrNotExist)
}

func (s *SeedTestSuite) TestInsertFromCSV_RollsBack() {
	// the sample has an age of 119, which this table rejects
	_, err := s.db.Statement(s.ctx, `CREATE TABLE user_data (user_id CHAR(36) PRIMARY KEY, name VARCHAR(255) NOT NULL, email VARCHAR(255) NOT NULL, age DECIMAL(3,0) NOT NULL CHECK (age < 100))`)
	s.Require().NoError(err)

	inserted, err := s.seeder.InsertFromCSV(s.ctx, s.sample())
	s.Error(err)
	s.Zero(inserted)

	count, err := s.seeder.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}
