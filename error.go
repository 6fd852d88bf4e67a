package userstream

import (
	"database/sql"

	"github.com/pkg/errors"
)

var (
	// ErrNoRows is returned when no rows are found and the scan type is `ScanStruct` or `ScanMap`
	ErrNoRows = errors.New("no rows found")
	// ErrRunnerNotFound is returned when no query file carries the requested code.
	ErrRunnerNotFound = errors.New("runner not found")
	// ErrDataSourceNotFound is returned when the config has no data source with the requested name.
	ErrDataSourceNotFound = errors.New("datasource not found")
)

// wrappedError maps driver errors to the errors this package exposes.
var wrappedError = map[error][]error{
	ErrNoRows: {sql.ErrNoRows},
}

// mapError replaces a known driver error found in err's chain with its exposed counterpart.
func mapError(err error) error {

	for k, v := range wrappedError {
		for _, e := range v {
			if errors.Is(err, e) {
				return k
			}
		}
	}

	return err

}
