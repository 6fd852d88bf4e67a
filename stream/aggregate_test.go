package stream

import (
	"context"
	"testing"

	"userstream/result"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("average of ages", func(t *testing.T) {
		t.Parallel()

		stats, err := Aggregate(ctx, FromSlice([]int{35, 22, 48}))
		require.NoError(t, err)
		assert.Equal(t, result.Stats{Count: 3, Sum: 105, Average: 35}, stats)
	})

	t.Run("sample table", func(t *testing.T) {
		t.Parallel()

		stats, err := Aggregate(ctx, FromSlice([]int{35, 22, 48, 67, 119, 49, 22, 102}))
		require.NoError(t, err)
		assert.InDelta(t, 58.0, stats.Average, 0.005)
	})

	t.Run("empty stream averages to zero", func(t *testing.T) {
		t.Parallel()

		stats, err := Aggregate(ctx, FromSlice([]int{}))
		require.NoError(t, err)
		assert.Equal(t, result.Stats{}, stats)
	})

	t.Run("stream error keeps partial stats and closes", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("read failed")
		values := &failingIterator[int]{items: []int{10, 20}, err: boom}

		stats, err := Aggregate(ctx, values)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 2, stats.Count)
		assert.Equal(t, 15.0, stats.Average)
		assert.True(t, values.closed)
	})
}
