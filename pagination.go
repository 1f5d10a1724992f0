package grid

import "fmt"

// DefaultPageSize is used when a PaginationConfig leaves PageSize unset.
const DefaultPageSize = 10

// DefaultPageWindow is the number of page buttons in a pager.
const DefaultPageWindow = 7

// DefaultPageSizeOptions are offered by a size changer when none are set.
var DefaultPageSizeOptions = []int{10, 20, 50, 100}

// PaginationConfig configures an enabled pager. Disable paging with
// WithoutPagination instead of a flag on this struct.
type PaginationConfig struct {
	PageSize        int
	Current         int
	PageSizeOptions []int
	ShowSizeChanger bool
	ShowQuickJumper bool

	// ShowTotal formats the summary text, e.g. "1-10 of 12".
	ShowTotal func(total, from, to int) string

	// OnChange fires after the page or page size changes.
	OnChange func(page, pageSize int)
	// OnShowSizeChange fires after the page size changes.
	OnShowSizeChange func(current, size int)
}

// SizeOptions returns the page sizes offered by a size changer.
func (c PaginationConfig) SizeOptions() []int {
	if len(c.PageSizeOptions) > 0 {
		return c.PageSizeOptions
	}
	return DefaultPageSizeOptions
}

// PageState is the requested page position. Current is 1-based.
type PageState struct {
	Current int
	Size    int
}

// PageResult is one page cut from a row sequence.
type PageResult[T any] struct {
	Rows       []Row[T]
	Page       int
	TotalPages int
	Total      int
	// From and To are the 1-based inclusive positions of the page in the
	// full sequence, both 0 when it is empty.
	From int
	To   int
}

// TotalPages returns max(1, ceil(total/size)).
func TotalPages(total, size int) int {
	if size < 1 || total <= 0 {
		return 1
	}
	return 1 + (total-1)/size
}

// ClampPage returns page limited to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate slices rows into the page described by state, clamping a
// current page outside [1, TotalPages]. A size below 1 puts every row on
// a single page, which is also how disabled pagination is expressed.
func Paginate[T any](rows []Row[T], state PageState) PageResult[T] {
	total := len(rows)
	size := state.Size
	if size < 1 {
		size = max(total, 1)
	}
	pages := TotalPages(total, size)
	page := ClampPage(state.Current, pages)

	start := min((page-1)*size, total)
	end := start + min(size, total-start)

	res := PageResult[T]{
		Rows:       rows[start:end:end],
		Page:       page,
		TotalPages: pages,
		Total:      total,
	}
	if end > start {
		res.From = start + 1
		res.To = end
	}
	return res
}

// PageWindow returns up to width consecutive page numbers centred on
// current, shifted to stay within [1, totalPages].
func PageWindow(current, totalPages, width int) []int {
	if width < 1 {
		width = DefaultPageWindow
	}
	if totalPages < 1 {
		totalPages = 1
	}
	n := min(width, totalPages)
	first := 1
	if totalPages > width {
		half := width / 2
		switch {
		case current <= half+1:
			first = 1
		case current >= totalPages-half:
			first = totalPages - width + 1
		default:
			first = current - half
		}
	}
	out := make([]int, n)
	for i := range out {
		out[i] = first + i
	}
	return out
}

// validateJump checks a quick-jump target.
func validateJump(page, totalPages int) error {
	if page < 1 || page > totalPages {
		return fmt.Errorf("page %d not in 1..%d: %w", page, totalPages, ErrPageOutOfRange)
	}
	return nil
}

// defaultTotalText formats the pager summary when no ShowTotal is set.
func defaultTotalText(total, from, to int) string {
	return fmt.Sprintf("%d-%d of %d", from, to, total)
}
