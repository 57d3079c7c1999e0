package datagrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePaginationDisabled(t *testing.T) {
	for _, n := range []int{0, 1, 3, 1000} {
		p := ResolvePagination(&PaginationConfig{Disabled: true}, DefaultPaginationDefaults(), n)
		require.False(t, p.Enabled, "n=%d", n)
		require.Nil(t, p.Items())
		require.Empty(t, p.Summary())
		require.Len(t, p.Slice(numberedRows(n)), n)
	}
}

func TestResolvePaginationDefaults(t *testing.T) {
	p := ResolvePagination(nil, DefaultPaginationDefaults(), 42)
	require.True(t, p.Enabled)
	require.Equal(t, 1, p.Current)
	require.Equal(t, 10, p.PageSize)
	require.Equal(t, 42, p.Total)
	require.Equal(t, 5, p.PageCount)
	require.Equal(t, []int{10, 20, 50, 100}, p.PageSizeOptions)
	require.True(t, p.ShowSizeChanger)
	require.False(t, p.ControlledPage)
	require.False(t, p.ControlledSize)
	require.Equal(t, "1-10 of 42 items", p.Summary())
}

func TestResolvePaginationMergesPartialConfig(t *testing.T) {
	off := false
	p := ResolvePagination(&PaginationConfig{PageSize: 2, ShowSizeChanger: &off, PageSizeOptions: []int{2, 4}}, DefaultPaginationDefaults(), 3)
	require.Equal(t, 1, p.Current)
	require.Equal(t, 2, p.PageSize)
	require.Equal(t, 2, p.PageCount)
	require.False(t, p.ShowSizeChanger)
	require.Equal(t, []int{2, 4}, p.PageSizeOptions)
	require.True(t, p.ControlledSize)
	require.False(t, p.ControlledPage)
}

func TestResolvePaginationTotalOverride(t *testing.T) {
	p := ResolvePagination(&PaginationConfig{Current: 1, PageSize: 2, Total: 3}, DefaultPaginationDefaults(), 3)
	require.Equal(t, "1-2 of 3 items", p.Summary())

	p = ResolvePagination(&PaginationConfig{Current: 2, PageSize: 2, Total: 3}, DefaultPaginationDefaults(), 3)
	require.Equal(t, "3-3 of 3 items", p.Summary())
}

func TestResolvePaginationInstanceDefaults(t *testing.T) {
	d := PaginationDefaults{PageSize: 25}
	p := ResolvePagination(nil, d, 60)
	require.Equal(t, 25, p.PageSize)
	require.Equal(t, 3, p.PageCount)
	require.Equal(t, []int{10, 20, 50, 100}, p.PageSizeOptions)
	require.False(t, p.ShowSizeChanger)
}

func TestDefaultPaginationDefaultsAreFresh(t *testing.T) {
	d := DefaultPaginationDefaults()
	d.PageSizeOptions[0] = 99
	require.Equal(t, 10, DefaultPaginationDefaults().PageSizeOptions[0])
}

func TestSummaryEmpty(t *testing.T) {
	p := ResolvePagination(nil, DefaultPaginationDefaults(), 0)
	require.Equal(t, "0-0 of 0 items", p.Summary())
	require.Equal(t, 0, p.PageCount)
	require.False(t, p.HasNext())
	require.False(t, p.HasPrev())
}

func kinds(items []NavItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Kind.String()
	}
	return out
}

func pages(items []NavItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Page
	}
	return out
}

func TestItemsPrevNextDisabledAtEdges(t *testing.T) {
	first := ResolvePagination(&PaginationConfig{Current: 1, PageSize: 2, Total: 3}, DefaultPaginationDefaults(), 3)
	items := first.Items()
	require.Equal(t, []string{"prev", "page", "page", "next"}, kinds(items))
	require.True(t, items[0].Disabled)
	require.False(t, items[3].Disabled)
	require.True(t, items[1].Active)

	last := ResolvePagination(&PaginationConfig{Current: 2, PageSize: 2, Total: 3}, DefaultPaginationDefaults(), 3)
	items = last.Items()
	require.False(t, items[0].Disabled)
	require.True(t, items[3].Disabled)
	require.True(t, items[2].Active)
}

func TestItemsLongRanges(t *testing.T) {
	tests := []struct {
		current int
		kinds   []string
		pages   []int
	}{
		{
			current: 1,
			kinds:   []string{"prev", "page", "page", "page", "page", "page", "jump-next", "page", "next"},
			pages:   []int{0, 1, 2, 3, 4, 5, 6, 20, 2},
		},
		{
			current: 10,
			kinds:   []string{"prev", "page", "jump-prev", "page", "page", "page", "page", "page", "jump-next", "page", "next"},
			pages:   []int{9, 1, 5, 8, 9, 10, 11, 12, 15, 20, 11},
		},
		{
			current: 20,
			kinds:   []string{"prev", "page", "jump-prev", "page", "page", "page", "page", "page", "next"},
			pages:   []int{19, 1, 15, 16, 17, 18, 19, 20, 21},
		},
	}
	for _, tt := range tests {
		p := ResolvePagination(&PaginationConfig{Current: tt.current}, DefaultPaginationDefaults(), 200)
		items := p.Items()
		require.Equal(t, tt.kinds, kinds(items), "current=%d", tt.current)
		require.Equal(t, tt.pages, pages(items), "current=%d", tt.current)
	}
}

func TestSliceOutOfRangeIsEmpty(t *testing.T) {
	rows := numberedRows(3)
	p := ResolvePagination(&PaginationConfig{Current: 5, PageSize: 2}, DefaultPaginationDefaults(), len(rows))
	require.Empty(t, p.Slice(rows))
	first, last := p.Range()
	require.Zero(t, first)
	require.Zero(t, last)
	require.False(t, p.HasNext())
}

func TestSliceRemoteRows(t *testing.T) {
	rows := numberedRows(2)
	p := ResolvePagination(&PaginationConfig{Current: 3, PageSize: 2, Total: 10}, DefaultPaginationDefaults(), len(rows))
	require.Len(t, p.Slice(rows), 2)
	require.Equal(t, "5-6 of 10 items", p.Summary())
}

func TestClampAfterResize(t *testing.T) {
	require.Equal(t, 2, clampAfterResize(3, 25, 20))
	require.Equal(t, 1, clampAfterResize(1, 3, 20))
	require.Equal(t, 2, clampAfterResize(2, 25, 10))
	require.Equal(t, 1, clampAfterResize(4, 0, 10))
}
