package source

import "github.com/pkg/errors"

type rower interface {
	MapScan(dest map[string]interface{}) error
}

// MapScan scans the current row into dest keyed by column name.
// Text columns that the driver hands back as []byte are turned into strings.
func MapScan(r rower, dest map[string]interface{}) error {

	if err := r.MapScan(dest); err != nil {
		return errors.Wrap(err, "failed to scan map")
	}

	for k, v := range dest {
		if b, ok := v.([]byte); ok {
			dest[k] = string(b)
		}
	}

	return nil

}
