package stream

import (
	"context"

	"userstream/result"

	"github.com/pkg/errors"
)

// Aggregate consumes values once and returns their count, sum and average.
// The average of an empty stream is 0. values is always closed.
// On a stream error the stats gathered so far are returned along with the error.
func Aggregate(ctx context.Context, values Iterator[int]) (stats result.Stats, err error) {

	defer func() {
		if cerr := values.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close value stream")
		}
	}()

	for values.Next(ctx) {
		stats.Count++
		stats.Sum += int64(values.Value())
	}

	if stats.Count > 0 {
		stats.Average = float64(stats.Sum) / float64(stats.Count)
	}

	if err := values.Err(); err != nil {
		return stats, errors.Wrap(err, "value stream failed")
	}

	return stats, nil

}
