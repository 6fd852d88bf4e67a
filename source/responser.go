package source

import (
	"database/sql"
	"reflect"

	"userstream/result"
	"userstream/vars"

	"github.com/georgysavva/scany/v2/dbscan"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type responser struct {
	rows        *sqlx.Rows
	res         sql.Result
	mapScanFunc func(r rower, dest map[string]interface{}) error
	tabling     *Tabling
	meta        *result.Metadata
}

// newScanAPI returns a dbscan API matching columns on the `db` tag.
func newScanAPI() (*dbscan.API, error) {

	api, err := dbscan.NewAPI(
		dbscan.WithStructTagKey(vars.TagKey),
		dbscan.WithColumnSeparator("__"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create new API")
	}

	return api, nil

}

// extractResponseExec extracts the response from the exec
func (r *responser) extractResponseExec() error {

	if r.rows == nil {
		r.meta.SQLResult = r.res
	}

	return nil

}

// ScanStruct scans the first row of the result set into the provided struct
func (r *responser) ScanStruct(dest interface{}) error {

	if dest == nil {
		return errors.New("destination cannot be nil")
	}

	// Ensure that v is a pointer to a struct
	vType := reflect.TypeOf(dest)
	if vType.Kind() != reflect.Ptr || vType.Elem().Kind() != reflect.Struct {
		return errors.New("destination must be a pointer to a struct")
	}

	if r.rows == nil {
		return r.extractResponseExec()
	}
	defer r.rows.Close()

	api, err := newScanAPI()
	if err != nil {
		return err
	}

	// Scan one row into the struct, return an error if no rows are found and if the row is more than one
	err = api.ScanOne(dest, r.rows)
	if err != nil {
		if errors.Is(err, dbscan.ErrNotFound) {
			return sql.ErrNoRows
		}
		return errors.Wrap(err, "failed to scan struct")
	}

	return nil

}

// ScanMap scans the first row of the result set into the provided map
// The destination must be a map with string keys
func (r *responser) ScanMap(dest map[string]interface{}) error {

	if dest == nil {
		return errors.New("destination cannot be nil")
	}

	// extract the response exec if rows is nil
	if r.rows == nil {
		return r.extractResponseExec()
	}

	defer r.rows.Close()

	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return errors.Wrap(err, "failed to read row")
		}
		return sql.ErrNoRows
	}

	return r.mapScanFunc(r.rows, dest)

}

// ScanStructs scans all rows of the result set into the provided slice of structs
// The destination must be a pointer to a slice of structs
func (r *responser) ScanStructs(dest interface{}) error {

	// Ensure v is a pointer to a slice
	sliceValue := reflect.ValueOf(dest)
	if sliceValue.Kind() != reflect.Ptr || sliceValue.Elem().Kind() != reflect.Slice {
		return errors.Errorf("destination must be a pointer to a slice of structs")
	}

	if r.rows == nil {
		return r.extractResponseExec()
	}
	defer r.rows.Close()

	api, err := newScanAPI()
	if err != nil {
		return err
	}

	// Scan all rows into the slice of structs
	err = api.ScanAll(dest, r.rows)
	if err != nil {
		return errors.Wrap(err, "failed to scan structs")
	}

	r.handleDataPaging(sliceValue.Elem().Len())
	return nil

}

// ScanMaps scans all rows of the result set into the provided slice of maps
// The destination must be a pointer to a slice of maps
func (r *responser) ScanMaps(dest *[]map[string]interface{}) error {

	if r.rows == nil {
		return r.extractResponseExec()
	}
	defer r.rows.Close()

	// loop through the rows and scan each row into a map
	for r.rows.Next() {

		s := make(map[string]interface{})

		err := r.mapScanFunc(r.rows, s)
		if err != nil {
			return err
		}

		*dest = append(*dest, s)

	}

	if err := r.rows.Err(); err != nil {
		return errors.Wrap(err, "failed to read rows")
	}

	r.handleDataPaging(len(*dest))
	return nil
}

// Close closes the rows. For a statement it records the sql.Result instead.
func (r *responser) Close() error {

	if r.rows != nil {
		return r.rows.Close()
	}

	return r.extractResponseExec()

}

// handleDataPaging records the window the rows were read with.
func (r *responser) handleDataPaging(count int) {

	if r.tabling == nil || r.tabling.tabling == nil || r.tabling.tabling.Paging == nil {
		return
	}

	r.meta.Paging = &result.Paging{
		Limit:  r.tabling.tabling.Paging.Limit,
		Offset: r.tabling.tabling.Paging.Offset,
		Count:  count,
	}

}
