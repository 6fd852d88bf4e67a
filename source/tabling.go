package source

import (
	"fmt"
	"regexp"
	"strings"

	tablingPkg "userstream/tabling"

	"github.com/pkg/errors"
	"github.com/redhajuanda/sqlparser"
)

// ErrUnstablePaging is returned when paging is requested without a sort key.
// Without ORDER BY, LIMIT/OFFSET windows may overlap or skip rows.
var ErrUnstablePaging = errors.New("paging requires a sort key")

var bindVariable = regexp.MustCompile(`:\bv\d+\b`)

// Tabling rewrites a SELECT to apply sorting and a LIMIT/OFFSET window.
type Tabling struct {
	sql     string
	tabling *tablingPkg.Tabling
	stmt    *sqlparser.Select
}

// NewTabling creates a new tabling instance.
func NewTabling(sql string, tabling *tablingPkg.Tabling) *Tabling {
	return &Tabling{
		sql:     sql,
		tabling: tabling,
	}
}

// Init returns the rewritten sql query. With no tabling the query is returned untouched.
func (t *Tabling) Init() (string, error) {

	if t.tabling == nil || (t.tabling.Paging == nil && t.tabling.Sorting == nil) {
		return t.sql, nil
	}

	return t.init()
}

// init parses the query and rewrites it.
func (t *Tabling) init() (string, error) {

	// create parser
	ps, err := sqlparser.New(sqlparser.Options{})
	if err != nil {
		return "", errors.Wrap(err, "failed to create parser")
	}

	// parse sql query to sqlparser statement
	stmt, err := ps.Parse(t.sql)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse sql")
	}

	// handle the statement based on the type
	switch stmt := stmt.(type) {
	case *sqlparser.Select:
		t.stmt = stmt
		return t.handleSelectStmt(stmt)
	default:
		return "", errors.New("unsupported statement type")
	}

}

// handleSelectStmt handles the select statement.
func (t *Tabling) handleSelectStmt(stmt *sqlparser.Select) (string, error) {

	var (
		paging  = t.tabling.Paging
		sorting = t.tabling.Sorting
	)

	if paging != nil && sorting == nil {
		return "", ErrUnstablePaging
	}

	if sorting != nil {
		if err := t.setSorting(sorting); err != nil {
			return "", err
		}
	}

	if paging != nil {
		if err := t.setPaging(paging); err != nil {
			return "", err
		}
	}

	buf := sqlparser.NewTrackedBuffer(nil)
	stmt.Format(buf)

	// replace bind variables
	return replaceBindVariables(buf.String()), nil
}

// setPaging sets limit and offset.
func (t *Tabling) setPaging(paging *tablingPkg.Paging) error {

	if err := paging.Validate(); err != nil {
		return err
	}

	t.stmt.SetLimit(&sqlparser.Limit{
		Offset:   sqlparser.NewIntLiteral(fmt.Sprintf("%d", paging.Offset)),
		Rowcount: sqlparser.NewIntLiteral(fmt.Sprintf("%d", paging.Limit)),
	})

	return nil

}

// setSorting adds the sort key to the ORDER BY clause.
func (t *Tabling) setSorting(sorting *tablingPkg.Sorting) error {

	// parse sort string to get the sort by and sort type
	sortBy, sortType, err := sorting.Parse()
	if err != nil {
		return err
	}

	// sort by column contains table name
	sortsBy := strings.Split(sortBy, ".")
	if len(sortsBy) == 2 {
		// add order to the statement
		t.stmt.AddOrder(&sqlparser.Order{
			Expr: &sqlparser.ColName{
				Name:      sqlparser.NewIdentifierCI(sortsBy[1]),
				Qualifier: sqlparser.NewTableName(sortsBy[0]),
			},
			Direction: getSortDirection(sortType),
		})

	} else {
		// add order to the statement
		t.stmt.AddOrder(&sqlparser.Order{
			Expr:      &sqlparser.ColName{Name: sqlparser.NewIdentifierCI(sortBy)},
			Direction: getSortDirection(sortType),
		})
	}

	return nil
}

// getSortDirection gets the sort direction.
func getSortDirection(sortType string) sqlparser.OrderDirection {
	if sortType == "-" {
		return sqlparser.DescOrder
	}
	return sqlparser.AscOrder
}

// replaceBindVariables replaces all bind variables with format
// :v1, :v2, etc to ?
func replaceBindVariables(sql string) string {
	return bindVariable.ReplaceAllString(sql, "?")
}
