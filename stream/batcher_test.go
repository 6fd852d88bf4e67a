package stream

import (
	"context"
	"testing"

	"userstream/result"
	"userstream/tabling"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatcher(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("groups rows and keeps a short tail", func(t *testing.T) {
		t.Parallel()

		b, err := NewBatcher[int](FromSlice(seq(8)), 3)
		require.NoError(t, err)

		pages, err := Collect[result.Page[int]](ctx, b)
		require.NoError(t, err)
		require.Len(t, pages, 3)

		assert.Equal(t, []int{0, 1, 2}, pages[0].Rows)
		assert.Equal(t, []int{3, 4, 5}, pages[1].Rows)
		assert.Equal(t, []int{6, 7}, pages[2].Rows)
		assert.Equal(t, []int{0, 3, 6}, []int{pages[0].Offset, pages[1].Offset, pages[2].Offset})
	})

	t.Run("empty stream yields nothing", func(t *testing.T) {
		t.Parallel()

		b, err := NewBatcher[int](FromSlice([]int{}), 5)
		require.NoError(t, err)

		pages, err := Collect[result.Page[int]](ctx, b)
		require.NoError(t, err)
		assert.Empty(t, pages)
	})

	t.Run("huge size over a short stream", func(t *testing.T) {
		t.Parallel()

		b, err := NewBatcher[int](FromSlice([]int{35, 22, 48}), 1<<40)
		require.NoError(t, err)

		pages, err := Collect[result.Page[int]](ctx, b)
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, []int{35, 22, 48}, pages[0].Rows)
		assert.Equal(t, 1<<40, pages[0].Limit)
	})

	t.Run("exact multiple", func(t *testing.T) {
		t.Parallel()

		b, err := NewBatcher[int](FromSlice(seq(6)), 3)
		require.NoError(t, err)

		pages, err := Collect[result.Page[int]](ctx, b)
		require.NoError(t, err)
		assert.Len(t, pages, 2)
	})

	t.Run("invalid size", func(t *testing.T) {
		t.Parallel()

		_, err := NewBatcher[int](FromSlice(seq(6)), 0)
		assert.ErrorIs(t, err, tabling.ErrInvalidPaging)
	})

	t.Run("row error stops batching", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("cursor lost")
		rows := &failingIterator[int]{items: []int{1, 2, 3, 4}, err: boom}

		b, err := NewBatcher[int](rows, 3)
		require.NoError(t, err)

		require.True(t, b.Next(ctx))
		assert.Equal(t, []int{1, 2, 3}, b.Value().Rows)
		assert.False(t, b.Next(ctx))
		assert.ErrorIs(t, b.Err(), boom)

		require.NoError(t, b.Close())
		assert.True(t, rows.closed)
	})
}
