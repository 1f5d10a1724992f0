package grid

// ViewRow is one visible row with its selection and expansion state.
type ViewRow[T any] struct {
	Row[T]
	Selected   bool
	Disabled   bool
	Expanded   bool
	Expandable bool
	Status     LoadStatus
	Children   []T
	LoadErr    error
}

// SelectionView summarises selection for the rendering layer. AllSelected
// and Indeterminate describe the visible page, which is what a header
// checkbox shows.
type SelectionView struct {
	Enabled       bool
	Mode          SelectionMode
	Keys          []Key
	AllSelected   bool
	Indeterminate bool
}

// ExpansionView summarises expansion for the rendering layer.
type ExpansionView[T any] struct {
	Enabled          bool
	Keys             []Key
	Status           map[Key]LoadStatus
	RowRender        func(record T, index int, expanded bool) any
	ExpandRowByClick bool
}

// PagerView describes the pager controls.
type PagerView struct {
	Enabled         bool
	Page            int
	PageSize        int
	TotalPages      int
	Window          []int
	SizeOptions     []int
	ShowSizeChanger bool
	ShowQuickJumper bool
	// From and To are the 1-based inclusive range of the visible page.
	From      int
	To        int
	TotalText string
}

// TableView is everything the rendering layer needs to paint a table. It
// is rebuilt on every mutation and is never modified afterwards.
type TableView[T any] struct {
	Columns ColumnGroups[T]
	// Rows holds the visible page in display order.
	Rows         []ViewRow[T]
	TotalRecords int
	TotalPages   int
	Page         int
	Pager        PagerView

	Sort      SortState
	Filters   FilterState
	Selection SelectionView
	Expansion ExpansionView[T]

	Empty     bool
	EmptyText string
	Locale    Locale
	Loading   bool

	// OnRow is the per-row hook passed through from configuration.
	OnRow func(record T, index int) map[string]any

	Warnings []Warning
}

// Keys returns the identities of the visible rows.
func (v TableView[T]) Keys() []Key {
	keys := make([]Key, len(v.Rows))
	for i, r := range v.Rows {
		keys[i] = r.Key
	}
	return keys
}

// Records returns the visible records in display order.
func (v TableView[T]) Records() []T {
	out := make([]T, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.Record
	}
	return out
}

// ChangeAction names what triggered a ChangeEvent.
type ChangeAction string

const (
	ActionPaginate ChangeAction = "paginate"
	ActionSort     ChangeAction = "sort"
	ActionFilter   ChangeAction = "filter"
)

// ChangeEvent reports a page, sort or filter change together with the
// resulting table state.
type ChangeEvent[T any] struct {
	Action   ChangeAction
	Page     int
	PageSize int
	Total    int
	Filters  FilterState
	Sort     SortState
	// CurrentData is the full filtered and sorted sequence.
	CurrentData []T
}
