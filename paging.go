package userstream

import (
	"userstream/tabling"
	"userstream/vars"
)

// NewPaging returns an offset window for Runner.WithPaging.
// A zero limit falls back to the default page size.
func NewPaging(limit, offset int) tabling.Paging {

	if limit == 0 {
		limit = vars.DefaultPagingLimit
	}

	return tabling.Paging{
		Limit:  limit,
		Offset: offset,
	}
}
