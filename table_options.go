package grid

import (
	"context"
	"fmt"
)

// Option is a functional option for configuring a Table.
type Option[T any] func(*config[T]) error

// SelectionConfig enables row selection.
type SelectionConfig[T any] struct {
	Mode SelectionMode
	// Disabled rows cannot be toggled and are skipped by select-all.
	Disabled func(record T) bool
	// OnChange receives the new keys and the records they identify.
	OnChange func(keys []Key, rows []T)
}

// ExpansionConfig enables expandable rows.
type ExpansionConfig[T any] struct {
	// RowExpandable gates which rows may expand. nil allows every row.
	RowExpandable func(record T) bool
	// LoadChildren fetches a row's children when it expands. It runs on its
	// own goroutine; ctx is cancelled when the result can no longer be used.
	LoadChildren func(ctx context.Context, key Key, record T) ([]T, error)

	OnExpand             func(expanded bool, record T)
	OnExpandedRowsChange func(keys []Key)

	// RowRender and ExpandRowByClick are carried to the view untouched.
	RowRender        func(record T, index int, expanded bool) any
	ExpandRowByClick bool
}

// Locale overrides user-visible strings.
type Locale struct {
	EmptyText     string
	FilterConfirm string
	FilterReset   string
	SelectAll     string
	SelectInvert  string
}

// DefaultLocale is used for every string a Locale leaves empty.
var DefaultLocale = Locale{
	EmptyText:     "No data",
	FilterConfirm: "OK",
	FilterReset:   "Clear",
	SelectAll:     "Select all rows",
	SelectInvert:  "Invert selection",
}

func (l Locale) withDefaults() Locale {
	if l.EmptyText == "" {
		l.EmptyText = DefaultLocale.EmptyText
	}
	if l.FilterConfirm == "" {
		l.FilterConfirm = DefaultLocale.FilterConfirm
	}
	if l.FilterReset == "" {
		l.FilterReset = DefaultLocale.FilterReset
	}
	if l.SelectAll == "" {
		l.SelectAll = DefaultLocale.SelectAll
	}
	if l.SelectInvert == "" {
		l.SelectInvert = DefaultLocale.SelectInvert
	}
	return l
}

// controlled is an externally owned state slot.
type controlled[S any] struct {
	get      func() S
	onChange func(S)
}

type config[T any] struct {
	data       []T
	rowKey     RowKey[T]
	pagination *PaginationConfig
	selection  *SelectionConfig[T]
	expansion  *ExpansionConfig[T]
	locale     Locale
	loading    bool

	onRow          func(record T, index int) map[string]any
	onSortChange   func(SortState)
	onFilterChange func(FilterState)
	onChange       func(ChangeEvent[T])
	onWarning      func(Warning)

	dispatcher Dispatcher
	maxLoads   int

	preserveSelection bool
	preserveExpansion bool

	defaultSort      *SortState
	defaultFilters   FilterState
	defaultSelection []Key
	defaultExpanded  []Key

	sortCtl      *controlled[SortState]
	filterCtl    *controlled[FilterState]
	pageCtl      *controlled[PageState]
	selectionCtl *controlled[[]Key]
	expansionCtl *controlled[[]Key]
}

func newConfig[T any]() config[T] {
	return config[T]{
		rowKey:     DefaultRowKey[T](),
		pagination: &PaginationConfig{PageSize: DefaultPageSize, Current: 1},
	}
}

// WithData sets the initial records.
func WithData[T any](records []T) Option[T] {
	return func(c *config[T]) error {
		c.data = records
		return nil
	}
}

// WithRowKey sets how row identities are derived. Default is the "id" field.
func WithRowKey[T any](k RowKey[T]) Option[T] {
	return func(c *config[T]) error {
		c.rowKey = k
		return nil
	}
}

// WithPagination enables paging with cfg. Paging is on by default with
// 10 rows per page.
func WithPagination[T any](cfg PaginationConfig) Option[T] {
	return func(c *config[T]) error {
		if cfg.PageSize < 0 {
			return fmt.Errorf("page size %d: %w", cfg.PageSize, ErrInvalidPageSize)
		}
		if cfg.PageSize == 0 {
			cfg.PageSize = DefaultPageSize
		}
		if cfg.Current < 1 {
			cfg.Current = 1
		}
		c.pagination = &cfg
		return nil
	}
}

// WithoutPagination shows every row on a single page.
func WithoutPagination[T any]() Option[T] {
	return func(c *config[T]) error {
		c.pagination = nil
		return nil
	}
}

// WithSelection enables row selection.
func WithSelection[T any](cfg SelectionConfig[T]) Option[T] {
	return func(c *config[T]) error {
		c.selection = &cfg
		return nil
	}
}

// WithExpansion enables expandable rows.
func WithExpansion[T any](cfg ExpansionConfig[T]) Option[T] {
	return func(c *config[T]) error {
		c.expansion = &cfg
		return nil
	}
}

// WithLocale overrides user-visible strings.
func WithLocale[T any](l Locale) Option[T] {
	return func(c *config[T]) error {
		c.locale = l
		return nil
	}
}

// WithLoading marks the table as loading. The flag is passed to the view.
func WithLoading[T any](loading bool) Option[T] {
	return func(c *config[T]) error {
		c.loading = loading
		return nil
	}
}

// WithOnRow sets the per-row attribute hook. The engine never calls it;
// it is carried on the view for the rendering layer.
func WithOnRow[T any](fn func(record T, index int) map[string]any) Option[T] {
	return func(c *config[T]) error {
		c.onRow = fn
		return nil
	}
}

// WithSortChange sets a callback fired after every sort change.
func WithSortChange[T any](fn func(SortState)) Option[T] {
	return func(c *config[T]) error {
		c.onSortChange = fn
		return nil
	}
}

// WithFilterChange sets a callback fired after every filter change.
func WithFilterChange[T any](fn func(FilterState)) Option[T] {
	return func(c *config[T]) error {
		c.onFilterChange = fn
		return nil
	}
}

// WithChangeHandler sets a callback fired after every page, sort or
// filter change with the full table state.
func WithChangeHandler[T any](fn func(ChangeEvent[T])) Option[T] {
	return func(c *config[T]) error {
		c.onChange = fn
		return nil
	}
}

// WithWarningHandler sets a callback for non-fatal diagnostics.
func WithWarningHandler[T any](fn func(Warning)) Option[T] {
	return func(c *config[T]) error {
		c.onWarning = fn
		return nil
	}
}

// WithDispatcher sets where child load results are delivered. Required
// when ExpansionConfig.LoadChildren is set.
func WithDispatcher[T any](d Dispatcher) Option[T] {
	return func(c *config[T]) error {
		c.dispatcher = d
		return nil
	}
}

// WithMaxConcurrentLoads bounds how many LoadChildren calls run at once.
// Zero, the default, means unbounded.
func WithMaxConcurrentLoads[T any](n int) Option[T] {
	return func(c *config[T]) error {
		if n < 0 {
			return fmt.Errorf("max concurrent loads must not be negative")
		}
		c.maxLoads = n
		return nil
	}
}

// WithPreserveSelection keeps selected keys whose rows left the data.
func WithPreserveSelection[T any]() Option[T] {
	return func(c *config[T]) error {
		c.preserveSelection = true
		return nil
	}
}

// WithPreserveExpansion keeps expanded keys whose rows left the data.
func WithPreserveExpansion[T any]() Option[T] {
	return func(c *config[T]) error {
		c.preserveExpansion = true
		return nil
	}
}

// WithDefaultSort sets the initial uncontrolled sort. It wins over a
// column's DefaultSortOrder.
func WithDefaultSort[T any](s SortState) Option[T] {
	return func(c *config[T]) error {
		c.defaultSort = &s
		return nil
	}
}

// WithDefaultFilters sets the initial uncontrolled filters. Entries win
// over a column's DefaultFilteredValue.
func WithDefaultFilters[T any](f FilterState) Option[T] {
	return func(c *config[T]) error {
		c.defaultFilters = f.Clone()
		return nil
	}
}

// WithDefaultSelection sets the initial uncontrolled selection.
func WithDefaultSelection[T any](keys []Key) Option[T] {
	return func(c *config[T]) error {
		c.defaultSelection = append([]Key(nil), keys...)
		return nil
	}
}

// WithDefaultExpanded sets the initial uncontrolled expanded rows.
func WithDefaultExpanded[T any](keys []Key) Option[T] {
	return func(c *config[T]) error {
		c.defaultExpanded = append([]Key(nil), keys...)
		return nil
	}
}

// WithControlledSort makes the caller own the sort state. The table reads
// get on every derivation and reports proposed changes to onChange.
func WithControlledSort[T any](get func() SortState, onChange func(SortState)) Option[T] {
	return func(c *config[T]) error {
		if get == nil {
			return fmt.Errorf("controlled sort requires a getter")
		}
		c.sortCtl = &controlled[SortState]{get: get, onChange: onChange}
		return nil
	}
}

// WithControlledFilters makes the caller own the filter state.
func WithControlledFilters[T any](get func() FilterState, onChange func(FilterState)) Option[T] {
	return func(c *config[T]) error {
		if get == nil {
			return fmt.Errorf("controlled filters require a getter")
		}
		c.filterCtl = &controlled[FilterState]{get: get, onChange: onChange}
		return nil
	}
}

// WithControlledPage makes the caller own the page position. The table
// still clamps an out-of-range page in the view.
func WithControlledPage[T any](get func() PageState, onChange func(PageState)) Option[T] {
	return func(c *config[T]) error {
		if get == nil {
			return fmt.Errorf("controlled page requires a getter")
		}
		c.pageCtl = &controlled[PageState]{get: get, onChange: onChange}
		return nil
	}
}

// WithControlledSelection makes the caller own the selected keys.
func WithControlledSelection[T any](get func() []Key, onChange func([]Key)) Option[T] {
	return func(c *config[T]) error {
		if get == nil {
			return fmt.Errorf("controlled selection requires a getter")
		}
		c.selectionCtl = &controlled[[]Key]{get: get, onChange: onChange}
		return nil
	}
}

// WithControlledExpansion makes the caller own the expanded keys. Load
// status is always tracked by the table.
func WithControlledExpansion[T any](get func() []Key, onChange func([]Key)) Option[T] {
	return func(c *config[T]) error {
		if get == nil {
			return fmt.Errorf("controlled expansion requires a getter")
		}
		c.expansionCtl = &controlled[[]Key]{get: get, onChange: onChange}
		return nil
	}
}
