package tabling

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidSort is returned when a sort key is not a plain (optionally qualified) column name.
var ErrInvalidSort = errors.New("invalid sort")

var columnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Tabling holds the paging and sorting applied on top of a SELECT.
type Tabling struct {
	Paging  *Paging
	Sorting *Sorting
}

// Sorting is a sort key such as "+user_id" or "-age". No prefix means ascending.
type Sorting struct {
	Sort string
}

// Parse splits the sort key into column and direction ("+" or "-").
func (s Sorting) Parse() (column string, direction string, err error) {

	switch {
	case strings.HasPrefix(s.Sort, "-"):
		column, direction = strings.TrimPrefix(s.Sort, "-"), "-"
	default:
		column, direction = strings.TrimPrefix(s.Sort, "+"), "+"
	}

	if !columnPattern.MatchString(column) {
		return "", "", errors.Wrapf(ErrInvalidSort, "%q", s.Sort)
	}

	return column, direction, nil
}

// IsIdentifier reports whether name is a plain or table-qualified SQL identifier.
func IsIdentifier(name string) bool {
	return columnPattern.MatchString(name)
}
