package result

import (
	"database/sql"
)

type Result struct {
	Scanner  Scanner
	Metadata *Metadata
}

func Init(scanner Scanner, metadata *Metadata) *Result {

	return &Result{
		Scanner:  scanner,
		Metadata: metadata,
	}
}

type Metadata struct {
	RequestID string     `db:"request_id"`
	SQLResult sql.Result `db:"sql_result"`
	Paging    *Paging    `db:"paging"`
	Columns   []string   `db:"columns"`
}

func (m *Metadata) HasSQLResult() bool {
	return m.SQLResult != nil
}

// Paging describes the window a paged query was run with.
type Paging struct {
	Limit  int `db:"limit"`
	Offset int `db:"offset"`
	// Count is the number of rows the window actually returned.
	Count int `db:"count"`
}
