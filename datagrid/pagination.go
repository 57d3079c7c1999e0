package datagrid

import "fmt"

// PaginationDefaults are the per-instance values applied to fields a caller
// does not supply.
type PaginationDefaults struct {
	PageSize        int
	PageSizeOptions []int
	ShowSizeChanger bool
}

// DefaultPaginationDefaults returns a fresh copy of the stock defaults:
// page size 10, size options 10/20/50/100, size changer shown.
func DefaultPaginationDefaults() PaginationDefaults {
	return PaginationDefaults{
		PageSize:        10,
		PageSizeOptions: []int{10, 20, 50, 100},
		ShowSizeChanger: true,
	}
}

func (d PaginationDefaults) normalized() PaginationDefaults {
	stock := DefaultPaginationDefaults()
	if d.PageSize <= 0 {
		d.PageSize = stock.PageSize
	}
	if len(d.PageSizeOptions) == 0 {
		d.PageSizeOptions = stock.PageSizeOptions
	}
	return d
}

// PaginationConfig is the caller-supplied pagination. Zero fields are not
// supplied and take defaults. A nil *PaginationConfig means all defaults.
type PaginationConfig struct {
	// Disabled turns pagination off; the full row set is displayed.
	Disabled bool
	// Current is the 1-based page. Supplying it makes the page caller-controlled.
	Current int
	// PageSize supplied makes the page size caller-controlled.
	PageSize int
	// Total overrides the row count used for page math.
	Total           int
	PageSizeOptions []int
	ShowSizeChanger *bool
	// OnChange is called with the target page and size on every navigation.
	OnChange func(page, pageSize int)
}

// ResolvedPagination is the merged pagination of one render.
type ResolvedPagination struct {
	Enabled         bool
	Current         int
	PageSize        int
	Total           int
	PageCount       int
	PageSizeOptions []int
	ShowSizeChanger bool
	// ControlledPage and ControlledSize report caller-owned fields.
	ControlledPage bool
	ControlledSize bool
}

// pagerState is the internal state used for fields the caller omits.
type pagerState struct {
	page     int
	pageSize int
}

// ResolvePagination merges cfg over defaults for totalRows rows.
func ResolvePagination(cfg *PaginationConfig, defaults PaginationDefaults, totalRows int) ResolvedPagination {
	return resolvePagination(cfg, defaults, totalRows, pagerState{})
}

func resolvePagination(cfg *PaginationConfig, defaults PaginationDefaults, totalRows int, st pagerState) ResolvedPagination {
	if cfg != nil && cfg.Disabled {
		return ResolvedPagination{Total: totalRows}
	}
	d := defaults.normalized()
	r := ResolvedPagination{
		Enabled:         true,
		Current:         1,
		PageSize:        d.PageSize,
		Total:           totalRows,
		PageSizeOptions: append([]int(nil), d.PageSizeOptions...),
		ShowSizeChanger: d.ShowSizeChanger,
	}
	if st.page > 0 {
		r.Current = st.page
	}
	if st.pageSize > 0 {
		r.PageSize = st.pageSize
	}
	if cfg != nil {
		if cfg.Current > 0 {
			r.Current = cfg.Current
			r.ControlledPage = true
		}
		if cfg.PageSize > 0 {
			r.PageSize = cfg.PageSize
			r.ControlledSize = true
		}
		if cfg.Total > 0 {
			r.Total = cfg.Total
		}
		if len(cfg.PageSizeOptions) > 0 {
			r.PageSizeOptions = append([]int(nil), cfg.PageSizeOptions...)
		}
		if cfg.ShowSizeChanger != nil {
			r.ShowSizeChanger = *cfg.ShowSizeChanger
		}
	}
	r.PageCount = pageCount(r.Total, r.PageSize)
	return r
}

func pageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// HasPrev reports whether the prev affordance is enabled.
func (p ResolvedPagination) HasPrev() bool {
	return p.Enabled && p.Current > 1
}

// HasNext reports whether the next affordance is enabled.
func (p ResolvedPagination) HasNext() bool {
	return p.Enabled && p.Current < p.PageCount
}

// Range returns the 1-based first and last item numbers of the current page,
// or 0, 0 when the page holds nothing.
func (p ResolvedPagination) Range() (first, last int) {
	if !p.Enabled || p.Total <= 0 {
		return 0, 0
	}
	first = (p.Current-1)*p.PageSize + 1
	if first > p.Total {
		return 0, 0
	}
	last = p.Current * p.PageSize
	if last > p.Total {
		last = p.Total
	}
	return first, last
}

// Summary is the "first-last of total items" line, empty when disabled.
func (p ResolvedPagination) Summary() string {
	if !p.Enabled {
		return ""
	}
	first, last := p.Range()
	return fmt.Sprintf("%d-%d of %d items", first, last, p.Total)
}

// bounds returns the half-open slice bounds of the current page over n rows.
// When fewer rows than Total are present and they fit a page, the rows are
// taken to be the current page already.
func (p ResolvedPagination) bounds(n int) (lo, hi int) {
	if !p.Enabled {
		return 0, n
	}
	if n < p.Total && n <= p.PageSize {
		return 0, n
	}
	lo = (p.Current - 1) * p.PageSize
	if lo >= n {
		return n, n
	}
	hi = lo + p.PageSize
	if hi > n {
		hi = n
	}
	return lo, hi
}

// Slice returns the current page of rows. A page past the end yields an
// empty slice.
func (p ResolvedPagination) Slice(rows []Row) []Row {
	lo, hi := p.bounds(len(rows))
	return rows[lo:hi]
}

// NavKind is the kind of a navigation affordance.
type NavKind int

const (
	NavPrev NavKind = iota
	NavPage
	NavJumpPrev
	NavJumpNext
	NavNext
)

// String returns the string representation of a NavKind.
func (k NavKind) String() string {
	switch k {
	case NavPrev:
		return "prev"
	case NavPage:
		return "page"
	case NavJumpPrev:
		return "jump-prev"
	case NavJumpNext:
		return "jump-next"
	case NavNext:
		return "next"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// NavItem is one navigation affordance. Page is the page it leads to.
type NavItem struct {
	Kind     NavKind
	Page     int
	Active   bool
	Disabled bool
}

// maxPlainPages is the page count up to which every page gets an item.
const maxPlainPages = 9

// jumpSize is how far the ellipsis items move.
const jumpSize = 5

// Items returns the navigation affordances: prev, page numbers with ellipsis
// jumps for long ranges, and next.
func (p ResolvedPagination) Items() []NavItem {
	if !p.Enabled {
		return nil
	}
	items := []NavItem{{Kind: NavPrev, Page: p.Current - 1, Disabled: !p.HasPrev()}}
	page := func(n int) NavItem {
		return NavItem{Kind: NavPage, Page: n, Active: n == p.Current}
	}

	count := p.PageCount
	if count <= maxPlainPages {
		for n := 1; n <= count; n++ {
			items = append(items, page(n))
		}
	} else {
		var left, right int
		switch {
		case p.Current <= 4:
			left, right = 2, max(5, p.Current+2)
		case p.Current >= count-3:
			left, right = min(count-4, p.Current-2), count-1
		default:
			left, right = p.Current-2, p.Current+2
		}
		items = append(items, page(1))
		if left > 2 {
			items = append(items, NavItem{Kind: NavJumpPrev, Page: max(1, p.Current-jumpSize)})
		}
		for n := left; n <= right; n++ {
			items = append(items, page(n))
		}
		if right < count-1 {
			items = append(items, NavItem{Kind: NavJumpNext, Page: min(count, p.Current+jumpSize)})
		}
		items = append(items, page(count))
	}

	items = append(items, NavItem{Kind: NavNext, Page: p.Current + 1, Disabled: !p.HasNext()})
	return items
}

// clampAfterResize is the page kept when the page size changes: the current
// page while it still exists, otherwise the new last page.
func clampAfterResize(current, total, size int) int {
	count := pageCount(total, size)
	if count == 0 {
		return 1
	}
	if current > count {
		return count
	}
	return current
}
