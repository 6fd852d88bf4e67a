package stream

import (
	"context"
	"testing"

	"userstream/result"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	ages := []int{35, 22, 48, 67, 119, 49, 22, 102}
	pager, err := NewPaginator[int](sliceFetcher(ages, nil), 3)
	require.NoError(t, err)

	kept, err := Collect[int](context.Background(), NewFilter[int](pager, func(age int) bool { return age > 25 }))
	require.NoError(t, err)

	assert.Equal(t, []int{35, 48, 67, 119, 49, 102}, kept)
}

func TestFilter_NothingKept(t *testing.T) {
	t.Parallel()

	pages := FromSlice([]result.Page[int]{{Rows: []int{1, 2}}, {Rows: []int{3}}})
	kept, err := Collect[int](context.Background(), NewFilter[int](pages, func(int) bool { return false }))
	require.NoError(t, err)

	assert.Empty(t, kept)
}

func TestFilter_UpstreamError(t *testing.T) {
	t.Parallel()

	boom := errors.New("stream broke")
	upstream := &failingIterator[result.Page[int]]{
		items: []result.Page[int]{{Rows: []int{30, 10}}},
		err:   boom,
	}

	f := NewFilter[int](upstream, func(v int) bool { return v > 25 })
	ctx := context.Background()

	require.True(t, f.Next(ctx))
	assert.Equal(t, 30, f.Value())
	assert.False(t, f.Next(ctx))
	assert.ErrorIs(t, f.Err(), boom)

	require.NoError(t, f.Close())
	assert.True(t, upstream.closed)
}
