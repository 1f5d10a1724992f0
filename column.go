package grid

import "fmt"

// Align is the horizontal alignment hint for a column's cells.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// PinSide places a column outside the scrolling region.
type PinSide int

const (
	PinNone PinSide = iota
	PinStart
	PinEnd
)

// String returns the pin side name.
func (p PinSide) String() string {
	switch p {
	case PinStart:
		return "start"
	case PinEnd:
		return "end"
	default:
		return "none"
	}
}

// FilterOption is one selectable value in a column's filter menu.
type FilterOption struct {
	Label string
	Value any
}

// Column configures one table column over records of type T.
type Column[T any] struct {
	// Key identifies the column. Must be non-empty and unique.
	Key   string
	Title string

	// Field names the record field to read. Value wins when both are set.
	Field string
	Value func(T) any

	// Sortable enables the default comparator on the accessed value.
	// Compare supplies a custom comparator and implies Sortable.
	Sortable bool
	Compare  func(a, b T) int

	Filters  []FilterOption
	OnFilter func(value any, record T) bool

	DefaultSortOrder     SortOrder
	DefaultFilteredValue []any

	Width    int
	Align    Align
	Pin      PinSide
	Hidden   bool
	Ellipsis bool

	// Render builds custom cell content. The engine never calls it; it is
	// carried on the view for the rendering layer.
	Render func(value any, record T, index int) any
}

// IsSortable reports whether the column can be sorted.
func (c *Column[T]) IsSortable() bool {
	return c.Sortable || c.Compare != nil
}

// CellValue returns the accessed value of record for this column.
func (c *Column[T]) CellValue(record T) any {
	return resolveAccessor(c)(record)
}

// ColumnGroups partitions visible columns by pin side. Relative order
// within each group matches declaration order.
type ColumnGroups[T any] struct {
	PinnedStart []*Column[T]
	Scrollable  []*Column[T]
	PinnedEnd   []*Column[T]
}

// Ordered returns the groups concatenated in paint order.
func (g ColumnGroups[T]) Ordered() []*Column[T] {
	out := make([]*Column[T], 0, len(g.PinnedStart)+len(g.Scrollable)+len(g.PinnedEnd))
	out = append(out, g.PinnedStart...)
	out = append(out, g.Scrollable...)
	return append(out, g.PinnedEnd...)
}

// Len returns the number of columns across all groups.
func (g ColumnGroups[T]) Len() int {
	return len(g.PinnedStart) + len(g.Scrollable) + len(g.PinnedEnd)
}

// Columns is a validated, ordered column registry.
type Columns[T any] struct {
	cols      []*Column[T]
	byKey     map[string]int
	accessors []func(T) any
	groups    ColumnGroups[T]
}

// NewColumns validates cols and resolves every accessor. The input slice
// is copied; later changes to it do not affect the registry.
func NewColumns[T any](cols []Column[T]) (*Columns[T], error) {
	reg := &Columns[T]{
		cols:      make([]*Column[T], len(cols)),
		byKey:     make(map[string]int, len(cols)),
		accessors: make([]func(T) any, len(cols)),
	}

	for i := range cols {
		c := cols[i]
		if c.Key == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyColumnKey)
		}
		if prev, dup := reg.byKey[c.Key]; dup {
			return nil, fmt.Errorf("column %q at %d and %d: %w", c.Key, prev, i, ErrDuplicateColumn)
		}
		reg.byKey[c.Key] = i
		reg.cols[i] = &c
		reg.accessors[i] = resolveAccessor(&c)

		if c.Hidden {
			continue
		}
		switch c.Pin {
		case PinStart:
			reg.groups.PinnedStart = append(reg.groups.PinnedStart, reg.cols[i])
		case PinEnd:
			reg.groups.PinnedEnd = append(reg.groups.PinnedEnd, reg.cols[i])
		default:
			reg.groups.Scrollable = append(reg.groups.Scrollable, reg.cols[i])
		}
	}
	return reg, nil
}

// resolveAccessor returns the pure value function for c. Columns with
// neither Value nor Field always yield nil.
func resolveAccessor[T any](c *Column[T]) func(T) any {
	if c.Value != nil {
		return c.Value
	}
	if c.Field == "" {
		return func(T) any { return nil }
	}
	field := c.Field
	return func(rec T) any {
		v, _ := FieldValue(rec, field)
		return v
	}
}

// All returns every column, hidden ones included, in declaration order.
func (r *Columns[T]) All() []*Column[T] {
	return r.cols
}

// Visible returns the non-hidden columns in declaration order.
func (r *Columns[T]) Visible() []*Column[T] {
	out := make([]*Column[T], 0, len(r.cols))
	for _, c := range r.cols {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// Groups returns the visible columns partitioned by pin side.
func (r *Columns[T]) Groups() ColumnGroups[T] {
	return r.groups
}

// Lookup returns the column registered under key.
func (r *Columns[T]) Lookup(key string) (*Column[T], bool) {
	i, ok := r.byKey[key]
	if !ok {
		return nil, false
	}
	return r.cols[i], true
}

// ValueOf returns the accessed value of column key for record. Unknown
// columns and missing fields yield nil.
func (r *Columns[T]) ValueOf(key string, record T) any {
	i, ok := r.byKey[key]
	if !ok {
		return nil
	}
	return r.accessors[i](record)
}

// Len returns the number of registered columns.
func (r *Columns[T]) Len() int {
	return len(r.cols)
}

// accessor returns the value function for key.
func (r *Columns[T]) accessor(key string) (func(T) any, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return nil, false
	}
	return r.accessors[i], true
}
