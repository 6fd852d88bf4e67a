package mapper

import (
	"userstream/vars"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Decode decodes the input into the output using the `db` struct tag.
// Input and output can be maps or structs in either direction.
func Decode(input interface{}, output interface{}) error {

	cfg := &mapstructure.DecoderConfig{
		TagName: vars.TagKey,
		Result:  output,
	}

	// init decoder
	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return errors.Wrap(err, "cannot init decoder")
	}

	// decode
	err = dec.Decode(input)
	if err != nil {
		return errors.Wrap(err, "cannot decode dest")
	}

	return nil

}

// ToMap flattens a struct into a map keyed by its `db` tags.
func ToMap(input interface{}) (map[string]interface{}, error) {

	out := make(map[string]interface{})
	if err := Decode(input, &out); err != nil {
		return nil, err
	}

	return out, nil

}
